package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/pilot/pkg/agent/tools"
)

// TypeTextTool types text into a field described in natural language.
type TypeTextTool struct {
	manager  *Manager
	resolver *Resolver
}

// NewTypeTextTool creates a new type_text tool.
func NewTypeTextTool(manager *Manager, resolver *Resolver) *TypeTextTool {
	return &TypeTextTool{manager: manager, resolver: resolver}
}

// Name returns the tool name.
func (t *TypeTextTool) Name() string {
	return "type_text"
}

// Description returns the tool description.
func (t *TypeTextTool) Description() string {
	return "Type text into an input field on the active tab described in natural language (e.g. 'the search box'). Replaces the field's current content."
}

// Schema returns the tool's JSON schema.
func (t *TypeTextTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"description": map[string]interface{}{
				"type":        "string",
				"description": "Natural-language description of the input field",
			},
			"text": map[string]interface{}{
				"type":        "string",
				"description": "Text to type into the field",
			},
		},
		[]string{"description", "text"},
	)
}

// Execute resolves the field and fills it.
func (t *TypeTextTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName     xml.Name `xml:"arguments"`
		Description string   `xml:"description"`
		Text        string   `xml:"text"`
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

	resolution, err := t.resolver.Resolve(ctx, tab, input.Description)
	if err != nil {
		return "", nil, err
	}

	if err := tab.Page.Locator(resolution.Locator).Fill(input.Text); err != nil {
		return "", nil, fmt.Errorf("typing failed: %w", err)
	}

	result := fmt.Sprintf("Typed %d characters into %q (%s)", len(input.Text), input.Description, resolution.Locator)
	metadata := map[string]interface{}{
		"locator": resolution.Locator,
		"source":  string(resolution.Source),
	}
	return result, metadata, nil
}
