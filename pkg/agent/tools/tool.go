// Package tools defines the capability surface exposed by pilot.
//
// Every browser operation is packaged as a Tool with a name, description,
// and JSON schema, and registered in a Registry that instruments each tool
// with uniform logging. Callers (a driver loop, an LLM, a test harness)
// invoke tools through XML-formatted calls.
package tools

import (
	"context"
	"encoding/xml"
)

// Tool represents a capability exposed to callers.
//
// Example tool call format:
//
//	<tool>
//	<tool_name>click_element</tool_name>
//	<arguments>
//	  <description>the blue submit button</description>
//	</arguments>
//	</tool>
type Tool interface {
	// Name returns the unique identifier for this tool (e.g., "open_tab")
	Name() string

	// Description returns a human-readable description of what this tool does
	Description() string

	// Schema returns the JSON schema for this tool's input parameters
	Schema() map[string]interface{}

	// Execute runs the tool with the given XML arguments.
	// Returns: (result string, metadata map, error)
	// Metadata is optional and can be nil.
	Execute(ctx context.Context, argumentsXML []byte) (string, map[string]interface{}, error)
}

// ToolCall represents a parsed tool invocation.
type ToolCall struct {
	XMLName   xml.Name       `xml:"tool"`
	ToolName  string         `xml:"tool_name"`
	Arguments ArgumentsBlock `xml:"arguments"`
}

// ArgumentsBlock holds the raw XML of the arguments element
type ArgumentsBlock struct {
	InnerXML []byte `xml:",innerxml"`
}

// GetArgumentsXML returns the arguments wrapped in <arguments> tags for unmarshaling.
func (tc *ToolCall) GetArgumentsXML() []byte {
	const prefix = "<arguments>"
	const suffix = "</arguments>"

	result := make([]byte, 0, len(prefix)+len(tc.Arguments.InnerXML)+len(suffix))
	result = append(result, []byte(prefix)...)
	result = append(result, tc.Arguments.InnerXML...)
	result = append(result, []byte(suffix)...)
	return result
}

// BaseToolSchema creates a common JSON schema structure for a tool
// with the given properties and required fields
func BaseToolSchema(properties map[string]interface{}, required []string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
