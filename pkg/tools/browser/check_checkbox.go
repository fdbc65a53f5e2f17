package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/pilot/pkg/agent/tools"
)

// CheckboxTool checks or unchecks a checkbox described in natural language.
type CheckboxTool struct {
	manager  *Manager
	resolver *Resolver
}

// NewCheckboxTool creates a new check_checkbox tool.
func NewCheckboxTool(manager *Manager, resolver *Resolver) *CheckboxTool {
	return &CheckboxTool{manager: manager, resolver: resolver}
}

// Name returns the tool name.
func (t *CheckboxTool) Name() string {
	return "check_checkbox"
}

// Description returns the tool description.
func (t *CheckboxTool) Description() string {
	return "Check or uncheck a checkbox on the active tab described in natural language. Checks by default; pass checked=false to uncheck."
}

// Schema returns the tool's JSON schema.
func (t *CheckboxTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"description": map[string]interface{}{
				"type":        "string",
				"description": "Natural-language description of the checkbox",
			},
			"checked": map[string]interface{}{
				"type":        "boolean",
				"description": "Desired state; true (the default) checks, false unchecks",
			},
		},
		[]string{"description"},
	)
}

// Execute resolves the checkbox and drives it to the requested state.
func (t *CheckboxTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName     xml.Name `xml:"arguments"`
		Description string   `xml:"description"`
		Checked     *bool    `xml:"checked"`
	}
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Description == "" {
		return "", nil, fmt.Errorf("description is required")
	}

	checked := true
	if input.Checked != nil {
		checked = *input.Checked
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
	verb := "Checked"
	if checked {
		err = locator.Check()
	} else {
		err = locator.Uncheck()
		verb = "Unchecked"
	}
	if err != nil {
		return "", nil, fmt.Errorf("checkbox update failed: %w", err)
	}

	result := fmt.Sprintf("%s %q (%s)", verb, input.Description, resolution.Locator)
	metadata := map[string]interface{}{
		"locator": resolution.Locator,
		"source":  string(resolution.Source),
		"checked": checked,
	}
	return result, metadata, nil
}
