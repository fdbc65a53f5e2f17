package browser

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/entrhq/pilot/pkg/agent/tools"
)

// ScrollTool scrolls the active tab per a natural-language request.
type ScrollTool struct {
	manager *Manager
	engine  *ScrollEngine
}

// NewScrollTool creates a new scroll tool.
func NewScrollTool(manager *Manager, engine *ScrollEngine) *ScrollTool {
	return &ScrollTool{manager: manager, engine: engine}
}

// Name returns the tool name.
func (t *ScrollTool) Name() string {
	return "scroll"
}

// Description returns the tool description.
func (t *ScrollTool) Description() string {
	return "Scroll the active tab as described in natural language (e.g. 'scroll the message feed', 'scroll down'). Escalates through strategy, element, and window scrolling until the page verifiably moves."
}

// Schema returns the tool's JSON schema.
func (t *ScrollTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"description": map[string]interface{}{
				"type":        "string",
				"description": "Natural-language description of what to scroll",
			},
		},
		[]string{"description"},
	)
}

// Execute runs the scroll engine and formats its report.
func (t *ScrollTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName     xml.Name `xml:"arguments"`
		Description string   `xml:"description"`
	}
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Description == "" {
		return "", nil, fmt.Errorf("description is required")
	}

	tab, err := t.manager.ActiveTab()
	if err != nil {
		return "", nil, err
	}

	report, err := t.engine.Scroll(ctx, tab, input.Description)
	if err != nil {
		var noEffect *NoEffectError
		if errors.As(err, &noEffect) {
			return "", nil, fmt.Errorf("scroll %q had no effect: %s", input.Description, formatAttempts(noEffect.Attempts))
		}
		return "", nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Scrolled via %s tier (moved %.0fpx)", report.Tier, report.Delta)
	if report.Rationale != "" {
		fmt.Fprintf(&b, "\nStrategy: %s", report.Rationale)
	}
	if len(report.Attempts) > 0 {
		fmt.Fprintf(&b, "\nEarlier tiers rejected: %s", formatAttempts(report.Attempts))
	}

	metadata := map[string]interface{}{
		"tier":  report.Tier,
		"delta": report.Delta,
	}
	return b.String(), metadata, nil
}

func formatAttempts(attempts []TierAttempt) string {
	parts := make([]string, 0, len(attempts))
	for _, a := range attempts {
		parts = append(parts, fmt.Sprintf("%s (%s)", a.Tier, a.Reason))
	}
	return strings.Join(parts, ", ")
}
