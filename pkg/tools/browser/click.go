package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/pilot/pkg/agent/tools"
)

// ClickTool clicks an element described in natural language.
type ClickTool struct {
	manager  *Manager
	resolver *Resolver
}

// NewClickTool creates a new click_element tool.
func NewClickTool(manager *Manager, resolver *Resolver) *ClickTool {
	return &ClickTool{manager: manager, resolver: resolver}
}

// Name returns the tool name.
func (t *ClickTool) Name() string {
	return "click_element"
}

// Description returns the tool description.
func (t *ClickTool) Description() string {
	return "Click an element on the active tab described in natural language (e.g. 'the blue submit button')."
}

// Schema returns the tool's JSON schema.
func (t *ClickTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"description": map[string]interface{}{
				"type":        "string",
				"description": "Natural-language description of the element to click",
			},
		},
		[]string{"description"},
	)
}

// Execute resolves the description and clicks the element at the center of
// its current bounding box, falling back to the scanned coordinates if the
// box can no longer be read.
func (t *ClickTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
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

	locator := tab.Page.Locator(resolution.Locator)
	box, boxErr := locator.BoundingBox()
	switch {
	case boxErr == nil && box != nil:
		// Fresh bounding box: click its center.
		err = tab.Page.Mouse().Click(box.X+box.Width/2, box.Y+box.Height/2)
	case resolution.Element != nil:
		// Fall back to the coordinates recorded at scan time.
		el := resolution.Element
		err = tab.Page.Mouse().Click(el.X+el.Width/2, el.Y+el.Height/2)
	default:
		err = locator.Click()
	}
	if err != nil {
		return "", nil, fmt.Errorf("click failed: %w", err)
	}

	result := fmt.Sprintf("Clicked %q (%s). Current URL: %s", input.Description, resolution.Locator, tab.Page.URL())
	metadata := map[string]interface{}{
		"locator": resolution.Locator,
		"source":  string(resolution.Source),
		"url":     tab.Page.URL(),
	}
	return result, metadata, nil
}
