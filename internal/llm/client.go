// Package llm provides the text-generation capability consumed by the
// editor: prompt in, generated text out. The concrete provider sits behind
// the Client interface so the editor core never depends on a vendor SDK.
package llm

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client is an abstraction over text-generation providers.
type Client interface {
	// GenerateContent generates free-form text for a prompt using the given model tier.
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSON generates JSON output for a prompt using the given model tier.
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// Model returns the provider model name used for a tier.
	Model(tier ModelTier) string
	// Close releases any resources held by the client.
	Close() error
}

// NewClient creates a client for the configured provider.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	// Gemini is the only provider wired today; the switch keeps the seam
	// where additional providers plug in.
	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return NewGeminiClient(ctx, config, apiKey)
	}
}

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini-backed client.
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, &CompletionError{Op: "connect", Message: "API key is required"}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &CompletionError{Op: "connect", Message: "failed to create Gemini client", Cause: err}
	}

	return &GeminiClient{client: client, config: config}, nil
}

// GenerateContent generates free-form text for a prompt. Rewriting prose
// benefits from some variance, so the temperature stays moderate.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelName := c.config.Model(tier)
	if modelName == "" {
		return "", &CompletionError{Op: "generate", Message: "no model configured for tier " + string(tier)}
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.7)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &CompletionError{Op: "generate", Message: "generation request failed", Cause: err}
	}

	return textFromResponse(resp)
}

// GenerateJSON generates JSON output for a prompt. The temperature is kept
// low for deterministic structure and markdown fences are stripped.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelName := c.config.Model(tier)
	if modelName == "" {
		return "", &CompletionError{Op: "generate", Message: "no model configured for tier " + string(tier)}
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &CompletionError{Op: "generate", Message: "generation request failed", Cause: err}
	}

	text, err := textFromResponse(resp)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// Model returns the model name for a tier.
func (c *GeminiClient) Model(tier ModelTier) string {
	return c.config.Model(tier)
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// textFromResponse extracts the concatenated text parts of the first
// candidate. An empty body is a completion failure, not an empty string.
func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", &CompletionError{Op: "parse", Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &CompletionError{Op: "parse", Message: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", &CompletionError{Op: "parse", Message: "no text parts in response"}
	}

	out := strings.Join(parts, "")
	if strings.TrimSpace(out) == "" {
		return "", &CompletionError{Op: "parse", Message: "empty response body"}
	}
	return out, nil
}
