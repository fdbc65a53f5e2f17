package browser

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/pilot/pkg/agent/tools"
)

// defaultWaitSeconds bounds wait_for_element when no timeout is given.
const defaultWaitSeconds = 30.0

// WaitElementTool waits for a described element to appear on the active tab.
type WaitElementTool struct {
	manager  *Manager
	resolver *Resolver
}

// NewWaitElementTool creates a new wait_for_element tool.
func NewWaitElementTool(manager *Manager, resolver *Resolver) *WaitElementTool {
	return &WaitElementTool{manager: manager, resolver: resolver}
}

// Name returns the tool name.
func (t *WaitElementTool) Name() string {
	return "wait_for_element"
}

// Description returns the tool description.
func (t *WaitElementTool) Description() string {
	return "Wait for an element described in natural language to appear on the active tab. Falls back to waiting for the description as page text when no element resolves yet."
}

// Schema returns the tool's JSON schema.
func (t *WaitElementTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"description": map[string]interface{}{
				"type":        "string",
				"description": "Natural-language description of the element to wait for",
			},
			"timeout": map[string]interface{}{
				"type":        "number",
				"description": "Maximum seconds to wait (default 30)",
			},
		},
		[]string{"description"},
	)
}

// Execute waits for the element, or for the description as literal text
// when resolution finds nothing to wait on yet.
func (t *WaitElementTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName     xml.Name `xml:"arguments"`
		Description string   `xml:"description"`
		Timeout     float64  `xml:"timeout"`
	}
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Description == "" {
		return "", nil, fmt.Errorf("description is required")
	}

	timeout := input.Timeout
	if timeout <= 0 {
		timeout = defaultWaitSeconds
	}
	timeoutMs := playwright.Float(timeout * 1000)

	tab, err := t.manager.ActiveTab()
	if err != nil {
		return "", nil, err
	}

	resolution, err := t.resolver.Resolve(ctx, tab, input.Description)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return "", nil, err
		}

		// Nothing resolves yet: wait for the description as visible text.
		textLocator := tab.Page.Locator("text=" + input.Description)
		if waitErr := textLocator.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateVisible,
			Timeout: timeoutMs,
		}); waitErr != nil {
			return "", nil, fmt.Errorf("nothing matching %q appeared within %.0fs: %w", input.Description, timeout, waitErr)
		}
		return fmt.Sprintf("Found text %q on the page", input.Description), nil, nil
	}

	if err := tab.Page.Locator(resolution.Locator).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: timeoutMs,
	}); err != nil {
		return "", nil, fmt.Errorf("%q did not appear within %.0fs: %w", input.Description, timeout, err)
	}

	result := fmt.Sprintf("Element appeared: %q (%s)", input.Description, resolution.Locator)
	metadata := map[string]interface{}{
		"locator": resolution.Locator,
		"source":  string(resolution.Source),
	}
	return result, metadata, nil
}
