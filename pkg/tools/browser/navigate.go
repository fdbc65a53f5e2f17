package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/pilot/pkg/agent/tools"
)

// NavigateTool navigates the active tab to a URL.
type NavigateTool struct {
	manager *Manager
}

// NewNavigateTool creates a new navigate tool.
func NewNavigateTool(manager *Manager) *NavigateTool {
	return &NavigateTool{manager: manager}
}

// Name returns the tool name.
func (t *NavigateTool) Name() string {
	return "navigate"
}

// Description returns the tool description.
func (t *NavigateTool) Description() string {
	return "Navigate the active tab to a URL and wait for the page to load. https:// is assumed when the scheme is omitted."
}

// Schema returns the tool's JSON schema.
func (t *NavigateTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "URL to navigate to",
			},
		},
		[]string{"url"},
	)
}

// Execute navigates the active tab.
func (t *NavigateTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName xml.Name `xml:"arguments"`
		URL     string   `xml:"url"`
	}
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.URL == "" {
		return "", nil, fmt.Errorf("url is required")
	}

	if err := t.manager.Navigate(input.URL); err != nil {
		return "", nil, err
	}

	tab, err := t.manager.ActiveTab()
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Navigated tab %q to %s", tab.Name, tab.Page.URL()), nil, nil
}
