package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/entrhq/pilot/pkg/llm"
	"github.com/entrhq/pilot/pkg/logging"
	"github.com/entrhq/pilot/pkg/types"
)

// Strategist proposes a scroll strategy for a natural-language request.
// Like the semantic matcher, it is an opaque boundary: any failure simply
// escalates the scroll engine to its next tier.
type Strategist interface {
	Propose(ctx context.Context, description string, scrollables []ScrollableInfo, snapshotHTML string) (*ScrollStrategy, error)
}

const strategistSystemPrompt = `You plan scroll actions for a browser automation system.
Given a scroll request, the page's scrollable containers, and a simplified HTML snapshot,
reply with ONLY a JSON object:
{"method": "window"|"element"|"container", "selector": "<css selector or empty>", "script": "<javascript statement>", "rationale": "<one sentence>"}.
The script must be a self-contained statement that performs the scroll when evaluated.`

// llmStrategist implements Strategist on top of an LLM provider.
type llmStrategist struct {
	provider llm.Provider
	logger   *logging.Logger
}

// NewLLMStrategist creates a scroll strategist backed by the given provider.
func NewLLMStrategist(provider llm.Provider) Strategist {
	logger, _ := logging.NewLogger("strategist")
	return &llmStrategist{provider: provider, logger: logger}
}

// Propose asks the provider for a scroll plan and parses the JSON reply.
func (s *llmStrategist) Propose(ctx context.Context, description string, scrollables []ScrollableInfo, snapshotHTML string) (*ScrollStrategy, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Scroll request: %s\n\nScrollable containers:\n", description)
	if len(scrollables) == 0 {
		b.WriteString("(none found; the window itself may be the only scrollable surface)\n")
	}
	for _, sc := range scrollables {
		fmt.Fprintf(&b, "- %s (%s) scrollHeight=%.0f clientHeight=%.0f\n", sc.Selector, sc.Tag, sc.ScrollHeight, sc.ClientHeight)
	}
	fmt.Fprintf(&b, "\nPage snapshot:\n%s", snapshotHTML)

	reply, err := s.provider.Complete(ctx, []*types.Message{
		types.NewSystemMessage(strategistSystemPrompt),
		types.NewUserMessage(b.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("scroll strategy request failed: %w", err)
	}

	strategy, err := parseStrategyReply(reply.Content)
	if err != nil {
		s.logger.Warnf("unparseable strategy reply for %q: %v", description, err)
		return nil, err
	}

	s.logger.Debugf("proposed %s scroll for %q: %s", strategy.Method, description, strategy.Rationale)
	return strategy, nil
}

// parseStrategyReply extracts and validates the strategy JSON.
func parseStrategyReply(content string) (*ScrollStrategy, error) {
	payload := extractJSONObject(content)
	if payload == "" {
		return nil, fmt.Errorf("no JSON object in reply")
	}

	var strategy ScrollStrategy
	if err := json.Unmarshal([]byte(payload), &strategy); err != nil {
		return nil, fmt.Errorf("invalid strategy JSON: %w", err)
	}

	switch strategy.Method {
	case ScrollMethodWindow, ScrollMethodElement, ScrollMethodContainer:
	default:
		return nil, fmt.Errorf("unknown scroll method %q", strategy.Method)
	}
	if strings.TrimSpace(strategy.Script) == "" {
		return nil, fmt.Errorf("strategy has no script")
	}

	return &strategy, nil
}
