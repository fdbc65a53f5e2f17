// Package llm provides abstractions for LLM provider integration.
//
// Providers handle API communication with LLM services and return plain
// messages. This keeps providers focused on transport concerns without
// coupling them to the automation components that consume them.
//
// Example usage:
//
//	provider, err := openai.NewProvider(
//	    os.Getenv("OPENAI_API_KEY"),
//	    openai.WithModel("gpt-4o"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reply, err := provider.Complete(ctx, []*types.Message{
//	    types.NewUserMessage("Hello!"),
//	})
package llm

import (
	"context"

	"github.com/entrhq/pilot/pkg/types"
)

// Provider defines the interface for LLM integrations.
//
// The browser automation layer treats the provider as an opaque
// request/response service: it sends a prompt, receives text, and parses
// what it needs. Provider failures are never fatal to the caller; every
// consumer has a deterministic fallback path.
type Provider interface {
	// Complete sends messages to the LLM and returns the full response.
	Complete(ctx context.Context, messages []*types.Message) (*types.Message, error)

	// GetModelInfo returns information about the model being used.
	GetModelInfo() *types.ModelInfo

	// GetModel returns the model name being used.
	GetModel() string
}
