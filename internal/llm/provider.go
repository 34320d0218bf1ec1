package llm

import (
	"context"
	"fmt"
)

// ProviderName identifies a supported text-generation backend.
type ProviderName string

const (
	ProviderGemini    ProviderName = "gemini"
	ProviderOpenAI    ProviderName = "openai"
	ProviderAnthropic ProviderName = "anthropic"
	ProviderOllama    ProviderName = "ollama"
	// ProviderNone disables generation; roasts are composed from templates only.
	ProviderNone ProviderName = "none"
)

// CompleteOptions controls per-request sampling parameters.
// A nil value uses provider-specific defaults. Backends ignore the
// parameters they have no equivalent for.
type CompleteOptions struct {
	Temperature *float32
	TopP        *float32
	TopK        int
	MaxTokens   int
	// BlockUnsafe asks the backend to refuse harassment and hate speech
	// at medium probability and above, where the backend supports it.
	BlockUnsafe bool
}

// ProviderConfig holds the configuration needed to construct a Provider.
type ProviderConfig struct {
	Name       ProviderName
	APIKey     string
	Model      string
	OllamaHost string
}

// Provider abstracts a text completion backend.
type Provider interface {
	Complete(ctx context.Context, system, prompt string, opts *CompleteOptions) (string, error)
}

// NewProvider creates a Provider for the given configuration.
// ProviderNone yields a nil Provider and no error.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Name {
	case ProviderGemini:
		return newGemini(cfg.APIKey, cfg.Model), nil
	case ProviderOpenAI:
		return newOpenAI(cfg.APIKey, cfg.Model), nil
	case ProviderAnthropic:
		return newAnthropic(cfg.APIKey, cfg.Model), nil
	case ProviderOllama:
		return newOllama(cfg.OllamaHost, cfg.Model), nil
	case ProviderNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Name)
	}
}
