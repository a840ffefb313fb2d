package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("ALLOWED_ORIGIN", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "*", cfg.AllowedOrigin)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "9090")
	t.Setenv("REQUEST_TIMEOUT", "30s")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("ALLOWED_ORIGIN", "https://app.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.Equal(t, "https://app.example.com", cfg.AllowedOrigin)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "not-a-number")
	t.Setenv("REQUEST_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
}
