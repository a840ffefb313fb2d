package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.NotEmpty(t, cfg.Models[TierLite])
	assert.NotEmpty(t, cfg.Models[TierStandard])
	assert.NotEmpty(t, cfg.Models[TierAdvanced])
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("LLM_MODEL_ADVANCED", "gemini-exp")

	cfg := ConfigFromEnv()

	assert.Equal(t, "gemini-exp", cfg.Model(TierAdvanced))
	assert.Equal(t, DefaultConfig().Model(TierLite), cfg.Model(TierLite))
}

func TestModel_FallbackChain(t *testing.T) {
	cfg := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{TierLite: "lite-model"},
	}

	// No advanced or standard entry: falls through to lite.
	assert.Equal(t, "lite-model", cfg.Model(TierAdvanced))

	empty := &Config{Provider: ProviderGemini, Models: map[ModelTier]string{}}
	assert.Equal(t, "", empty.Model(TierAdvanced))
}

func TestWithModel_DoesNotMutateOriginal(t *testing.T) {
	cfg := DefaultConfig()
	original := cfg.Model(TierStandard)

	modified := cfg.WithModel(TierStandard, "other-model")

	assert.Equal(t, "other-model", modified.Model(TierStandard))
	assert.Equal(t, original, cfg.Model(TierStandard))
}
