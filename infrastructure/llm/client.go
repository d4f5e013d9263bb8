// Package llm provides a unified interface for the LLM providers used by the
// candidate scoring engine, with built-in support for rate limiting, timeouts,
// metrics, and tracing.
//
// The package abstracts multiple providers (OpenAI, Anthropic, Google) behind
// a common interface while adding operational cross-cutting concerns through
// a middleware pattern. This allows the scoring pipeline to switch providers
// without changing client code.
//
// Basic usage:
//
//	client, err := llm.NewClient("openai", llm.ClientConfig{
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	    Model:  "gpt-4o-mini",
//	})
//	response, err := client.Complete(ctx, prompt, map[string]any{"json_output": true})
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/talentrank/talentrank/internal/ports"
)

// CoreLLM defines the minimal interface that LLM providers must implement.
// It abstracts the raw request path so the middleware chain can wrap any
// conforming implementation.
type CoreLLM interface {
	// DoRequest sends a prompt to the provider and returns the response text
	// together with input and output token counts.
	DoRequest(ctx context.Context, prompt string, opts map[string]any) (response string, tokensIn, tokensOut int, err error)

	// GetModel returns the currently configured model name.
	GetModel() string

	// SetModel updates the model to use for subsequent requests.
	SetModel(model string)
}

// ClientConfig holds all configuration options for creating an LLM client.
type ClientConfig struct {
	// APIKey authenticates requests to the LLM provider.
	APIKey string

	// Model specifies which model to use for requests.
	Model string

	// BaseURL overrides the default API endpoint for the provider.
	// Leave empty to use the provider's default endpoint.
	BaseURL string

	// Timeout sets the maximum duration for individual requests.
	// Zero value means no timeout.
	Timeout time.Duration

	// Middleware allows custom middleware insertion, applied in order with
	// the first entry outermost.
	Middleware []Middleware
}

// Middleware wraps a CoreLLM implementation to add cross-cutting
// functionality such as rate limiting, metrics, or tracing without modifying
// provider logic.
type Middleware func(CoreLLM) CoreLLM

// Client implements ports.LLMClient by wrapping a provider-specific CoreLLM
// with the configured middleware chain.
type Client struct {
	core CoreLLM
}

var _ ports.LLMClient = (*Client)(nil)

// NewClient creates an LLM client for the named provider. It assembles the
// middleware chain and validates configuration before returning a
// ready-to-use instance.
func NewClient(providerType string, config ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	factory, ok := providerFactories[providerType]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", providerType)
	}

	core, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	// Apply middleware in reverse order so the first middleware is the outermost.
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		core = config.Middleware[i](core)
	}

	return &Client{core: core}, nil
}

// Complete sends a prompt to the LLM and returns the response text,
// discarding token usage information.
func (c *Client) Complete(ctx context.Context, prompt string, options map[string]any) (string, error) {
	response, _, _, err := c.core.DoRequest(ctx, prompt, options)
	return response, err
}

// CompleteWithUsage sends a prompt to the LLM and returns the response text
// along with input and output token counts.
func (c *Client) CompleteWithUsage(ctx context.Context, prompt string, options map[string]any) (string, int, int, error) {
	return c.core.DoRequest(ctx, prompt, options)
}

// EstimateTokens returns an approximate token count for the given text using
// a character-based heuristic of roughly four characters per token.
func (c *Client) EstimateTokens(text string) (int, error) {
	return (len(text) + 3) / 4, nil
}

// GetModel returns the currently configured model name from the underlying provider.
func (c *Client) GetModel() string { return c.core.GetModel() }

// ProviderFactory creates a CoreLLM implementation from configuration.
type ProviderFactory func(ClientConfig) (CoreLLM, error)

// Provider factory registry. Providers register themselves at init time.
var providerFactories = map[string]ProviderFactory{}

// RegisterProviderFactory allows registration of custom LLM provider
// factories, enabling extension without modifying this package.
func RegisterProviderFactory(providerType string, factory ProviderFactory) {
	providerFactories[providerType] = factory
}
