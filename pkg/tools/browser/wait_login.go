package browser

import (
	"context"

	"github.com/entrhq/pilot/pkg/agent/tools"
)

// WaitLoginTool pauses the flow until a human confirms they have finished
// logging in. The wait has no timeout; it ends only on confirmation or
// context cancellation.
type WaitLoginTool struct {
	manager *Manager
}

// NewWaitLoginTool creates a new wait_for_login tool.
func NewWaitLoginTool(manager *Manager) *WaitLoginTool {
	return &WaitLoginTool{manager: manager}
}

// Name returns the tool name.
func (t *WaitLoginTool) Name() string {
	return "wait_for_login"
}

// Description returns the tool description.
func (t *WaitLoginTool) Description() string {
	return "Pause until a human completes a login in the browser and confirms. Blocks indefinitely; the confirmation signal is the only way forward."
}

// Schema returns the tool's JSON schema.
func (t *WaitLoginTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, nil)
}

// Execute blocks until confirmation.
func (t *WaitLoginTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	if err := t.manager.WaitForLogin(ctx); err != nil {
		return "", nil, err
	}
	return "Manual login confirmed; continuing.", nil, nil
}
