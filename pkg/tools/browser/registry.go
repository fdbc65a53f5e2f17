package browser

import (
	"github.com/entrhq/pilot/pkg/agent/tools"
)

// RegisterAll registers every browser tool with the registry. This is the
// single registration table for the package: each capability is listed
// here explicitly and picks up the registry's logging instrumentation.
func RegisterAll(registry *tools.Registry, manager *Manager, resolver *Resolver, engine *ScrollEngine) error {
	all := []tools.Tool{
		NewOpenTabTool(manager),
		NewSwitchTabTool(manager),
		NewListTabsTool(manager),
		NewCloseTabTool(manager),
		NewNavigateTool(manager),
		NewFindElementTool(manager, resolver),
		NewClickTool(manager, resolver),
		NewTypeTextTool(manager, resolver),
		NewSelectOptionTool(manager, resolver),
		NewCheckboxTool(manager, resolver),
		NewWaitElementTool(manager, resolver),
		NewGetTextTool(manager),
		NewScrollTool(manager, engine),
		NewWaitLoginTool(manager),
	}

	for _, tool := range all {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}
	return nil
}
