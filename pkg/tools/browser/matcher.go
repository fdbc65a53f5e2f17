package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/entrhq/pilot/pkg/llm"
	"github.com/entrhq/pilot/pkg/logging"
	"github.com/entrhq/pilot/pkg/types"
)

// Match is the semantic matcher's selection: an index into the candidate
// list and a short explanation of why it was chosen.
type Match struct {
	Index     int    `json:"index"`
	Rationale string `json:"rationale"`
}

// Matcher selects the candidate element that best fits a natural-language
// description. It is an opaque boundary: errors or out-of-range indices
// route the resolver to its deterministic fallback.
type Matcher interface {
	Match(ctx context.Context, description string, candidates []InteractiveElement) (*Match, error)
}

const matcherSystemPrompt = `You select UI elements for a browser automation system.
Given a description and a numbered list of interactive elements from the current page,
reply with ONLY a JSON object of the form {"index": <number>, "rationale": "<one sentence>"}.
The index must refer to one element from the list. If nothing fits, use index -1.`

// candidateTokenBudget caps the formatted candidate list sent to the LLM.
const candidateTokenBudget = 6000

var (
	matchEncoderOnce sync.Once
	matchEncoder     *tiktoken.Tiktoken
)

// matchEncoding resolves the cl100k_base tokenizer once per process. A nil
// return means the BPE data was unavailable; costs are then estimated from
// character counts so the budget still holds.
func matchEncoding() *tiktoken.Tiktoken {
	matchEncoderOnce.Do(func() {
		encoder, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return
		}
		matchEncoder = encoder
	})
	return matchEncoder
}

// llmMatcher implements Matcher on top of an LLM provider.
type llmMatcher struct {
	provider llm.Provider
	logger   *logging.Logger
}

// NewLLMMatcher creates a semantic matcher backed by the given provider.
func NewLLMMatcher(provider llm.Provider) Matcher {
	logger, _ := logging.NewLogger("matcher")
	return &llmMatcher{provider: provider, logger: logger}
}

// Match formats the candidate list, asks the provider to pick, and parses
// the strict JSON reply.
func (m *llmMatcher) Match(ctx context.Context, description string, candidates []InteractiveElement) (*Match, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidates to match against")
	}

	listing := formatCandidates(candidates, candidateTokenBudget)
	prompt := fmt.Sprintf("Description: %s\n\nElements:\n%s", description, listing)

	reply, err := m.provider.Complete(ctx, []*types.Message{
		types.NewSystemMessage(matcherSystemPrompt),
		types.NewUserMessage(prompt),
	})
	if err != nil {
		return nil, fmt.Errorf("semantic match request failed: %w", err)
	}

	match, err := parseMatchReply(reply.Content)
	if err != nil {
		m.logger.Warnf("unparseable match reply for %q: %v", description, err)
		return nil, err
	}

	m.logger.Debugf("matched %q to index %d: %s", description, match.Index, match.Rationale)
	return match, nil
}

// formatCandidates renders one line per element, stopping once the token
// budget is spent so large pages cannot blow up the prompt.
func formatCandidates(candidates []InteractiveElement, tokenBudget int) string {
	encoder := matchEncoding()

	var b strings.Builder
	used := 0
	for i, el := range candidates {
		line := formatCandidate(el)
		cost := lineCost(encoder, line)
		if used+cost > tokenBudget {
			fmt.Fprintf(&b, "... (%d more elements omitted)\n", len(candidates)-i)
			break
		}
		used += cost
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// lineCost counts tokens, or estimates four characters per token when the
// encoder is unavailable.
func lineCost(encoder *tiktoken.Tiktoken, line string) int {
	if encoder != nil {
		return len(encoder.Encode(line, nil, nil))
	}
	return (len(line) + 3) / 4
}

func formatCandidate(el InteractiveElement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d] %s %q", el.Index, el.Tag, el.Text)
	if el.Role != "" {
		fmt.Fprintf(&b, " role=%s", el.Role)
	}
	if el.AriaLabel != "" {
		fmt.Fprintf(&b, " aria-label=%q", el.AriaLabel)
	}
	if el.Placeholder != "" {
		fmt.Fprintf(&b, " placeholder=%q", el.Placeholder)
	}
	if el.InputType != "" {
		fmt.Fprintf(&b, " type=%s", el.InputType)
	}
	if el.Href != "" {
		fmt.Fprintf(&b, " href=%s", el.Href)
	}
	fmt.Fprintf(&b, " pos=(%.0f,%.0f)", el.X, el.Y)
	return b.String()
}

// parseMatchReply extracts the {"index": n, "rationale": "..."} object from
// the model reply, tolerating markdown fences and surrounding prose.
func parseMatchReply(content string) (*Match, error) {
	payload := extractJSONObject(content)
	if payload == "" {
		return nil, fmt.Errorf("no JSON object in reply")
	}

	var parsed struct {
		Index     *int   `json:"index"`
		Rationale string `json:"rationale"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, fmt.Errorf("invalid match JSON: %w", err)
	}
	if parsed.Index == nil {
		return nil, fmt.Errorf("match reply missing index")
	}

	return &Match{Index: *parsed.Index, Rationale: parsed.Rationale}, nil
}

// extractJSONObject returns the first balanced {...} span in the text.
func extractJSONObject(content string) string {
	start := strings.Index(content, "{")
	if start == -1 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return content[start : i+1]
				}
			}
		}
	}
	return ""
}
