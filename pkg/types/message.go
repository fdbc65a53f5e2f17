// Package types defines the shared data structures exchanged between the
// LLM provider layer and the automation components.
package types

// MessageRole identifies the author of a conversation message.
type MessageRole string

const (
	// RoleSystem is used for instructions that frame the model's behavior.
	RoleSystem MessageRole = "system"

	// RoleUser is used for content originating from the caller.
	RoleUser MessageRole = "user"

	// RoleAssistant is used for model responses.
	RoleAssistant MessageRole = "assistant"
)

// Message is a single conversation message sent to or received from an LLM.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) *Message {
	return &Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) *Message {
	return &Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) *Message {
	return &Message{Role: RoleAssistant, Content: content}
}

// ModelInfo describes the LLM model behind a provider.
type ModelInfo struct {
	Provider string `json:"provider"`
	Name     string `json:"name"`
}
