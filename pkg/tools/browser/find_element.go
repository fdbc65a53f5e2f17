package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/pilot/pkg/agent/tools"
)

// FindElementTool resolves a natural-language description to an element
// locator on the active tab.
type FindElementTool struct {
	manager  *Manager
	resolver *Resolver
}

// NewFindElementTool creates a new find_element tool.
func NewFindElementTool(manager *Manager, resolver *Resolver) *FindElementTool {
	return &FindElementTool{manager: manager, resolver: resolver}
}

// Name returns the tool name.
func (t *FindElementTool) Name() string {
	return "find_element"
}

// Description returns the tool description.
func (t *FindElementTool) Description() string {
	return "Find an element on the active tab by natural-language description (e.g. 'the login button'). Returns a locator valid until the page changes."
}

// Schema returns the tool's JSON schema.
func (t *FindElementTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"description": map[string]interface{}{
				"type":        "string",
				"description": "Natural-language description of the element to find",
			},
		},
		[]string{"description"},
	)
}

// Execute resolves the description.
func (t *FindElementTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
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

	resolution, err := t.resolver.Resolve(ctx, tab, input.Description)
	if err != nil {
		return "", nil, err
	}

	result := fmt.Sprintf("Found element for %q: %s (via %s)", input.Description, resolution.Locator, resolution.Source)
	if resolution.Rationale != "" {
		result += "\nRationale: " + resolution.Rationale
	}

	metadata := map[string]interface{}{
		"locator": resolution.Locator,
		"source":  string(resolution.Source),
	}
	if resolution.Element != nil {
		metadata["tag"] = resolution.Element.Tag
		metadata["text"] = resolution.Element.Text
	}
	return result, metadata, nil
}
