package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/entrhq/pilot/pkg/agent/tools"
)

// ListTabsTool lists the registered tabs.
type ListTabsTool struct {
	manager *Manager
}

// NewListTabsTool creates a new list_tabs tool.
func NewListTabsTool(manager *Manager) *ListTabsTool {
	return &ListTabsTool{manager: manager}
}

// Name returns the tool name.
func (t *ListTabsTool) Name() string {
	return "list_tabs"
}

// Description returns the tool description.
func (t *ListTabsTool) Description() string {
	return "List all open tabs with their names and URLs, marking the active one."
}

// Schema returns the tool's JSON schema.
func (t *ListTabsTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, nil)
}

// Execute lists the tabs.
func (t *ListTabsTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	infos := t.manager.Tabs().List()
	if len(infos) == 0 {
		return "No tabs are open. Use open_tab to create one.", nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Open tabs (%d):\n", len(infos))
	for _, info := range infos {
		marker := " "
		if info.Active {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %s - %s\n", marker, info.Name, info.URL)
	}

	return b.String(), map[string]interface{}{"count": len(infos)}, nil
}
