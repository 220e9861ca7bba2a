package gemini_provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mohammad-safakhou/spacebio/models"
	"google.golang.org/genai"
)

// client wraps the Gemini API through the genai SDK.
type client struct {
	sdk         *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	timeout     time.Duration
}

// NewGeminiClient creates a Gemini completion client.
func NewGeminiClient(ctx context.Context, apiKey, model string, temperature float64, maxTokens int, timeout time.Duration) (*client, error) {
	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &client{
		sdk:         sdk,
		model:       model,
		temperature: float32(temperature),
		maxTokens:   int32(maxTokens),
		timeout:     timeout,
	}, nil
}

// Complete sends one system+user exchange.
func (c *client) Complete(ctx context.Context, r models.CompletionRequest) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	cfg := buildConfig(r, c.temperature, c.maxTokens)
	resp, err := c.sdk.Models.GenerateContent(ctx, c.model, genai.Text(r.User), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned no text")
	}
	return text, nil
}

func buildConfig(r models.CompletionRequest, temperature float32, maxTokens int32) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	}
	if maxTokens > 0 {
		cfg.MaxOutputTokens = maxTokens
	}
	if strings.TrimSpace(r.System) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(r.System, genai.RoleUser)
	}
	if r.JSON {
		cfg.ResponseMIMEType = "application/json"
	}
	return cfg
}
