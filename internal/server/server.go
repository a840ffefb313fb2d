// Package server provides the HTTP REST API for the resume editor.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-editor/internal/config"
	"github.com/jonathan/resume-editor/internal/llm"
	"github.com/jonathan/resume-editor/internal/server/ratelimit"
)

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	cfg         *config.Config
	client      llm.Client
	sessions    *sessionManager
	rateLimiter *ratelimit.Limiter
	validate    *validator.Validate
}

// New creates a server with a real completion client.
func New(cfg *config.Config) (*Server, error) {
	client, err := llm.NewClient(context.Background(), llm.ConfigFromEnv(), cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}
	return NewWithClient(cfg, client), nil
}

// NewWithClient creates a server with the given completion client. Tests
// inject a fake client here.
func NewWithClient(cfg *config.Config, client llm.Client) *Server {
	s := &Server{
		cfg:         cfg,
		client:      client,
		sessions:    newSessionManager(),
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		validate:    validator.New(),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler builds the full route table wrapped in middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	// Document session endpoints
	mux.HandleFunc("POST /api/documents", s.handleCreateDocument)
	mux.HandleFunc("GET /api/documents/{id}", s.handleGetDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", s.handleDeleteDocument)
	mux.HandleFunc("POST /api/documents/{id}/edits", s.handleEdit)

	// Section endpoints
	mux.HandleFunc("POST /api/documents/{id}/sections", s.handleCreateSection)
	mux.HandleFunc("GET /api/documents/{id}/sections", s.handleListSections)
	mux.HandleFunc("DELETE /api/documents/{id}/sections/{section_id}", s.handleRemoveSection)
	mux.HandleFunc("POST /api/documents/{id}/sections/{section_id}/improve", s.handleImproveSection)

	// Document-level improvement and analysis
	mux.HandleFunc("POST /api/documents/{id}/improve", s.handleImproveDocument)
	mux.HandleFunc("POST /api/documents/{id}/analyze", s.handleAnalyze)

	// Suggestion endpoints
	mux.HandleFunc("GET /api/documents/{id}/suggestions", s.handleListSuggestions)
	mux.HandleFunc("GET /api/documents/{id}/suggestions/{suggestion_id}/diff", s.handleSuggestionDiff)
	mux.HandleFunc("POST /api/documents/{id}/suggestions/{suggestion_id}/apply", s.handleApplySuggestion)
	mux.HandleFunc("POST /api/documents/{id}/suggestions/{suggestion_id}/reject", s.handleRejectSuggestion)
	mux.HandleFunc("POST /api/documents/{id}/suggestions/apply-all", s.handleApplyAll)
	mux.HandleFunc("POST /api/documents/{id}/undo", s.handleUndo)

	// Stateless relay endpoints
	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyzeRelay)
	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("GET /api/template", s.handleTemplate)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening and blocks until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing completion client: %v", err)
		}
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.AllowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path)

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"documents": s.sessions.count(),
	})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleError maps an error to a status and writes it.
func (s *Server) handleError(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), err.Error())
}

// extractClientID identifies the client by IP address.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	if info.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}
	s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	})
}
