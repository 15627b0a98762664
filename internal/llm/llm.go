// Package llm sends assembled prompts straight to a language model. It defines
// a provider-agnostic LLM interface with an OpenAI-compatible implementation and
// a deterministic mock for tests. The Replayer uses it to check a debug prompt
// against a model without going through the backend's answer endpoint.
package llm

import (
	"context"
	"errors"
)

var (
	ErrLLMFailed     = errors.New("LLM request failed")
	ErrInvalidConfig = errors.New("invalid LLM configuration")
)

// DefaultAPIKeyEnv is the environment variable read when no key is configured.
const DefaultAPIKeyEnv = "OPENAI_API_KEY"

// LLM defines the interface for interacting with language models.
// Implementations must be stateless and thread-safe.
type LLM interface {
	// Generate produces text from a prompt using the configured model.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds common configuration options for LLM providers.
type Config struct {
	// BaseURL points at any OpenAI-compatible endpoint (empty = api.openai.com)
	BaseURL string

	// Model specifies the model identifier (e.g., "gpt-4o-mini", "deepseek-chat")
	Model string

	// Temperature controls randomness (0 = provider default)
	Temperature float64

	// MaxTokens limits the response length (0 = use provider default)
	MaxTokens int

	// APIKey is the authentication key for the provider
	APIKey string

	// APIKeyEnv names the variable consulted when APIKey is empty
	APIKeyEnv string
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Model:     "gpt-4o-mini",
		MaxTokens: 1024,
		APIKeyEnv: DefaultAPIKeyEnv,
	}
}
