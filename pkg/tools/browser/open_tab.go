package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/pilot/pkg/agent/tools"
)

// OpenTabTool opens a new named browser tab, optionally navigating it.
type OpenTabTool struct {
	manager *Manager
}

// NewOpenTabTool creates a new open_tab tool.
func NewOpenTabTool(manager *Manager) *OpenTabTool {
	return &OpenTabTool{manager: manager}
}

// Name returns the tool name.
func (t *OpenTabTool) Name() string {
	return "open_tab"
}

// Description returns the tool description.
func (t *OpenTabTool) Description() string {
	return "Open a new browser tab and make it the active tab. Optionally navigate to a URL and give the tab a name; unnamed tabs are named after the site's domain."
}

// Schema returns the tool's JSON schema.
func (t *OpenTabTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "URL to open in the new tab (https:// is assumed when the scheme is omitted)",
			},
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Optional name for the tab; derived from the domain when omitted",
			},
		},
		nil,
	)
}

// Execute opens the tab.
func (t *OpenTabTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName xml.Name `xml:"arguments"`
		URL     string   `xml:"url"`
		Name    string   `xml:"name"`
	}
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}

	tab, err := t.manager.OpenTab(input.Name, input.URL)
	if err != nil {
		return "", nil, err
	}

	result := fmt.Sprintf("Opened tab %q (now active) at %s", tab.Name, tab.Page.URL())
	metadata := map[string]interface{}{
		"tab": tab.Name,
		"url": tab.Page.URL(),
	}
	return result, metadata, nil
}
