// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything the server process needs at startup.
type Config struct {
	// Port the HTTP server listens on.
	Port int
	// GeminiAPIKey authenticates completion requests.
	GeminiAPIKey string
	// RequestTimeout bounds a single completion round trip.
	RequestTimeout time.Duration
	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration
	// MaxUploadBytes caps document uploads.
	MaxUploadBytes int64
	// AllowedOrigin is the CORS origin allowed to call the API; "*" during
	// local development.
	AllowedOrigin string
}

// Load reads configuration from the environment, applying defaults for
// everything except the API key, which must be present.
func Load() (*Config, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	return &Config{
		Port:            getEnvInt("PORT", 8080),
		GeminiAPIKey:    apiKey,
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxUploadBytes:  getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),
		AllowedOrigin:   getEnv("ALLOWED_ORIGIN", "*"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
