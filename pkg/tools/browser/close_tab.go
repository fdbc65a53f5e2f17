package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/pilot/pkg/agent/tools"
)

// CloseTabTool closes a named tab.
type CloseTabTool struct {
	manager *Manager
}

// NewCloseTabTool creates a new close_tab tool.
func NewCloseTabTool(manager *Manager) *CloseTabTool {
	return &CloseTabTool{manager: manager}
}

// Name returns the tool name.
func (t *CloseTabTool) Name() string {
	return "close_tab"
}

// Description returns the tool description.
func (t *CloseTabTool) Description() string {
	return "Close a tab by name. Closing the active tab leaves no tab active; switch_tab must be used before further page interaction."
}

// Schema returns the tool's JSON schema.
func (t *CloseTabTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Name of the tab to close",
			},
		},
		[]string{"name"},
	)
}

// Execute closes the tab.
func (t *CloseTabTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName xml.Name `xml:"arguments"`
		Name    string   `xml:"name"`
	}
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Name == "" {
		return "", nil, fmt.Errorf("tab name is required")
	}

	registry := t.manager.Tabs()
	active, _ := registry.Active()
	wasActive := active != nil && active.Name == input.Name

	if err := registry.Close(input.Name); err != nil {
		return "", nil, err
	}

	result := fmt.Sprintf("Closed tab %q", input.Name)
	if wasActive {
		result += ". No tab is active now; use switch_tab to select one before interacting with a page."
	}
	return result, nil, nil
}
