package llm

import "os"

// ModelTier represents the complexity/capability level of a model.
type ModelTier string

const (
	// TierLite is for simple tasks: classification, short extractions.
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: document analysis, structured output.
	TierStandard ModelTier = "standard"
	// TierAdvanced is for nuanced reasoning: section rewriting.
	TierAdvanced ModelTier = "advanced"
)

// Provider represents a text-generation provider.
type Provider string

const (
	// ProviderGemini is the Google Gemini provider.
	ProviderGemini Provider = "gemini"
)

// Config holds the model configuration for the application.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default configuration (currently Gemini).
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// ConfigFromEnv returns the default configuration with per-tier model
// overrides taken from LLM_MODEL_LITE, LLM_MODEL_STANDARD and
// LLM_MODEL_ADVANCED when set.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	overrides := map[ModelTier]string{
		TierLite:     os.Getenv("LLM_MODEL_LITE"),
		TierStandard: os.Getenv("LLM_MODEL_STANDARD"),
		TierAdvanced: os.Getenv("LLM_MODEL_ADVANCED"),
	}
	for tier, model := range overrides {
		if model != "" {
			cfg.Models[tier] = model
		}
	}
	return cfg
}

// Model returns the model name for a given tier, falling back through
// standard and lite when the tier has no entry.
func (c *Config) Model(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of the Config with a specific model for a tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := &Config{Provider: c.Provider, Models: make(map[ModelTier]string, len(c.Models))}
	for k, v := range c.Models {
		out.Models[k] = v
	}
	out.Models[tier] = model
	return out
}
