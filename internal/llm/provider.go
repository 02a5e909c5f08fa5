package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	"ai-api-tester/internal/config"
)

// ErrUnsupportedProvider is returned when an unknown provider is requested
var ErrUnsupportedProvider = errors.New("unsupported AI provider")

// Provider defines the interface for generative backends. Complete performs
// one request and returns the raw text reply. Transport failures are
// returned unchanged; no retries happen at this layer.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// NewProvider creates a provider from the AI configuration. Missing API keys
// and unknown provider names fail here, before any generation attempt.
func NewProvider(cfg config.AIConfig) (Provider, error) {
	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return nil, &config.ConfigurationError{
			Message: fmt.Sprintf("API key not found in environment variable: %s", cfg.APIKeyEnv),
		}
	}

	switch cfg.Provider {
	case "openai":
		return newOpenAIProvider(cfg, apiKey), nil
	case "anthropic":
		return newAnthropicProvider(cfg, apiKey), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}
