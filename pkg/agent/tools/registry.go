package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/entrhq/pilot/pkg/logging"
)

// Registry holds the registered tools and instruments each one with
// uniform logging at registration time. Adding a capability means
// implementing Tool and adding one Register call; no other wiring.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	logger *logging.Logger
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	logger, _ := logging.NewLogger("registry")
	return &Registry{
		tools:  make(map[string]Tool),
		logger: logger,
	}
}

// Register adds a tool to the registry, wrapping it with logging
// instrumentation. Registering a duplicate name is an error.
func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	if name == "" {
		return fmt.Errorf("tool name must not be empty")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q is already registered", name)
	}

	r.tools[name] = &instrumentedTool{Tool: tool, logger: r.logger}
	r.logger.Infof("registered tool: %s", name)
	return nil
}

// Get returns the tool with the given name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	return tool, ok
}

// List returns all registered tools sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	tools := make([]Tool, 0, len(names))
	for _, name := range names {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// Execute dispatches a parsed tool call to the matching tool.
func (r *Registry) Execute(ctx context.Context, call *ToolCall) (string, map[string]interface{}, error) {
	if call == nil {
		return "", nil, fmt.Errorf("tool call is nil")
	}

	tool, ok := r.Get(call.ToolName)
	if !ok {
		return "", nil, fmt.Errorf("unknown tool: %s", call.ToolName)
	}

	return tool.Execute(ctx, call.GetArgumentsXML())
}

// instrumentedTool wraps a Tool with entry/exit logging.
type instrumentedTool struct {
	Tool
	logger *logging.Logger
}

func (t *instrumentedTool) Execute(ctx context.Context, argumentsXML []byte) (string, map[string]interface{}, error) {
	name := t.Tool.Name()
	t.logger.Debugf("executing tool: %s", name)

	start := time.Now()
	result, metadata, err := t.Tool.Execute(ctx, argumentsXML)
	elapsed := time.Since(start)

	if err != nil {
		t.logger.Errorf("tool %s failed after %v: %v", name, elapsed, err)
	} else {
		t.logger.Debugf("tool %s completed in %v", name, elapsed)
	}

	return result, metadata, err
}
