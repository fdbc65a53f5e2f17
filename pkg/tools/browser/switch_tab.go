package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/pilot/pkg/agent/tools"
)

// SwitchTabTool makes a named tab the active tab.
type SwitchTabTool struct {
	manager *Manager
}

// NewSwitchTabTool creates a new switch_tab tool.
func NewSwitchTabTool(manager *Manager) *SwitchTabTool {
	return &SwitchTabTool{manager: manager}
}

// Name returns the tool name.
func (t *SwitchTabTool) Name() string {
	return "switch_tab"
}

// Description returns the tool description.
func (t *SwitchTabTool) Description() string {
	return "Switch the active tab. All element finding, clicking, typing, and scrolling happens in the active tab."
}

// Schema returns the tool's JSON schema.
func (t *SwitchTabTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Name of the tab to activate (see list_tabs)",
			},
		},
		[]string{"name"},
	)
}

// Execute switches the active tab.
func (t *SwitchTabTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
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

	tab, err := t.manager.Tabs().Switch(input.Name)
	if err != nil {
		return "", nil, err
	}

	return fmt.Sprintf("Switched to tab %q at %s", tab.Name, tab.Page.URL()), nil, nil
}
