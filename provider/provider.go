package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/mohammad-safakhou/spacebio/config"
	"github.com/mohammad-safakhou/spacebio/models"
	gemini_provider "github.com/mohammad-safakhou/spacebio/provider/gemini"
	openai_provider "github.com/mohammad-safakhou/spacebio/provider/openai"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI Client = "openai"
	Gemini Client = "gemini"
)

// ErrMissingAPIKey is returned when no credentials are configured for the
// selected provider.
var ErrMissingAPIKey = errors.New("llm api key not set")

// Request is a single completion call: a system instruction plus the user
// payload. JSON asks the service for a JSON-only reply where supported.
type Request = models.CompletionRequest

// Provider is the completion contract the assistant relies on. The reply is
// opaque text; callers validate any structure themselves.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// NewProvider creates a completion client from configuration.
func NewProvider(ctx context.Context, cfg config.LLMConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	switch Client(cfg.Provider) {
	case OpenAI:
		return openai_provider.NewOpenAIClient(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Temperature, cfg.MaxTokens, cfg.Timeout), nil
	case Gemini:
		p, err := gemini_provider.NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.Temperature, cfg.MaxTokens, cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
}
