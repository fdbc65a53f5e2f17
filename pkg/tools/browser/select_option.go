package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/pilot/pkg/agent/tools"
)

// SelectOptionTool selects a dropdown option by its visible label.
type SelectOptionTool struct {
	manager  *Manager
	resolver *Resolver
}

// NewSelectOptionTool creates a new select_option tool.
func NewSelectOptionTool(manager *Manager, resolver *Resolver) *SelectOptionTool {
	return &SelectOptionTool{manager: manager, resolver: resolver}
}

// Name returns the tool name.
func (t *SelectOptionTool) Name() string {
	return "select_option"
}

// Description returns the tool description.
func (t *SelectOptionTool) Description() string {
	return "Select an option from a dropdown on the active tab. The dropdown is described in natural language and the option is matched by its visible label."
}

// Schema returns the tool's JSON schema.
func (t *SelectOptionTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"description": map[string]interface{}{
				"type":        "string",
				"description": "Natural-language description of the dropdown",
			},
			"option": map[string]interface{}{
				"type":        "string",
				"description": "Visible label of the option to select",
			},
		},
		[]string{"description", "option"},
	)
}

// Execute resolves the dropdown and selects the option by label.
func (t *SelectOptionTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName     xml.Name `xml:"arguments"`
		Description string   `xml:"description"`
		Option      string   `xml:"option"`
	}
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Description == "" {
		return "", nil, fmt.Errorf("description is required")
	}
	if input.Option == "" {
		return "", nil, fmt.Errorf("option is required")
	}

	tab, err := t.manager.ActiveTab()
	if err != nil {
		return "", nil, err
	}

	resolution, err := t.resolver.Resolve(ctx, tab, input.Description)
	if err != nil {
		return "", nil, err
	}

	labels := []string{input.Option}
	selected, err := tab.Page.Locator(resolution.Locator).SelectOption(playwright.SelectOptionValues{
		Labels: &labels,
	})
	if err != nil {
		return "", nil, fmt.Errorf("selection failed: %w", err)
	}

	result := fmt.Sprintf("Selected %q in %q (%s)", input.Option, input.Description, resolution.Locator)
	metadata := map[string]interface{}{
		"locator":  resolution.Locator,
		"source":   string(resolution.Source),
		"selected": selected,
	}
	return result, metadata, nil
}
