package oracle

import (
	"fmt"
	"time"
)

// Provider identifies a completion backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// Settings is the provider-agnostic configuration the factory consumes.
type Settings struct {
	Provider Provider
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
}

// NewClient builds a client for the configured provider.
func NewClient(s Settings) (Client, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", s.Provider)
	}

	switch s.Provider {
	case ProviderOpenAI, "":
		return NewOpenAIClientWithConfig(OpenAIConfig{
			APIKey:  s.APIKey,
			BaseURL: s.BaseURL,
			Model:   s.Model,
			Timeout: s.Timeout,
		}), nil
	case ProviderGemini:
		return NewGeminiClientWithConfig(GeminiConfig{
			APIKey:  s.APIKey,
			BaseURL: s.BaseURL,
			Model:   s.Model,
			Timeout: s.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown oracle provider %q", s.Provider)
	}
}
