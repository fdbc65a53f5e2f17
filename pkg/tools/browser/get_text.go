package browser

import (
	"context"
	"fmt"

	"github.com/entrhq/pilot/pkg/agent/tools"
)

// GetTextTool returns the visible text of the active tab.
type GetTextTool struct {
	manager *Manager
}

// NewGetTextTool creates a new get_text tool.
func NewGetTextTool(manager *Manager) *GetTextTool {
	return &GetTextTool{manager: manager}
}

// Name returns the tool name.
func (t *GetTextTool) Name() string {
	return "get_text"
}

// Description returns the tool description.
func (t *GetTextTool) Description() string {
	return "Get all visible text from the active tab's page body."
}

// Schema returns the tool's JSON schema.
func (t *GetTextTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, nil)
}

// Execute reads the page body text.
func (t *GetTextTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	tab, err := t.manager.ActiveTab()
	if err != nil {
		return "", nil, err
	}

	text, err := tab.Page.InnerText("body")
	if err != nil {
		return "", nil, fmt.Errorf("failed to read page text: %w", err)
	}

	metadata := map[string]interface{}{
		"url":    tab.Page.URL(),
		"length": len(text),
	}
	return text, metadata, nil
}
