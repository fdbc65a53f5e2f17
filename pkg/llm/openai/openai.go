// Package openai provides an OpenAI-compatible LLM provider implementation.
//
// The provider works with any OpenAI-compatible API (OpenAI itself, Azure
// deployments, local servers) by overriding the base URL.
package openai

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/entrhq/pilot/pkg/types"
)

// Provider implements the llm.Provider interface for OpenAI-compatible APIs.
type Provider struct {
	client      openai.Client
	model       string
	baseURL     string
	temperature float64
}

// ProviderOption is a function that configures a Provider.
type ProviderOption func(*Provider)

// WithModel sets the model to use for completions.
func WithModel(model string) ProviderOption {
	return func(p *Provider) {
		p.model = model
	}
}

// WithBaseURL sets a custom base URL for OpenAI-compatible APIs.
func WithBaseURL(baseURL string) ProviderOption {
	return func(p *Provider) {
		p.baseURL = baseURL
	}
}

// WithTemperature sets the sampling temperature for completions.
// Element matching and scroll strategy generation want low temperatures.
func WithTemperature(temperature float64) ProviderOption {
	return func(p *Provider) {
		p.temperature = temperature
	}
}

// NewProvider creates a new OpenAI provider with the given API key.
//
// If apiKey is empty, it is read from the OPENAI_API_KEY environment
// variable. If no base URL is configured, OPENAI_BASE_URL is consulted.
func NewProvider(apiKey string, opts ...ProviderOption) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required (provide via parameter or OPENAI_API_KEY environment variable)")
	}

	p := &Provider{
		model:       "gpt-4o-mini",
		temperature: 0.1,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.baseURL == "" {
		p.baseURL = os.Getenv("OPENAI_BASE_URL")
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if p.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(p.baseURL))
	}
	p.client = openai.NewClient(clientOpts...)

	return p, nil
}

// Complete sends messages to the LLM and returns the full response.
func (p *Provider) Complete(ctx context.Context, messages []*types.Message) (*types.Message, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.model),
		Messages:    convertMessages(messages),
		Temperature: openai.Float(p.temperature),
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	return types.NewAssistantMessage(completion.Choices[0].Message.Content), nil
}

// GetModelInfo returns information about the model being used.
func (p *Provider) GetModelInfo() *types.ModelInfo {
	return &types.ModelInfo{
		Provider: "openai",
		Name:     p.model,
	}
}

// GetModel returns the model name being used.
func (p *Provider) GetModel() string {
	return p.model
}

// convertMessages translates internal messages to the OpenAI union type.
func convertMessages(messages []*types.Message) []openai.ChatCompletionMessageParamUnion {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case types.RoleSystem:
			converted = append(converted, openai.SystemMessage(m.Content))
		case types.RoleAssistant:
			converted = append(converted, openai.AssistantMessage(m.Content))
		default:
			converted = append(converted, openai.UserMessage(m.Content))
		}
	}
	return converted
}
