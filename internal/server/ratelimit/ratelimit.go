// Package ratelimit provides per-client request limiting using the token
// bucket algorithm. Completion-backed endpoints get their own tighter
// budget since each request costs a model call.
package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// TokenBucket is a single client's budget for one endpoint class. Tokens
// refill at a steady rate up to capacity.
type TokenBucket struct {
	mu         sync.Mutex
	capacity   int
	refillRate float64
	tokens     float64
	lastRefill time.Time
}

func newTokenBucket(capacity int, refillRate float64) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// allow refills the bucket for elapsed time and consumes one token if
// available.
func (tb *TokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)
	tb.tokens = min(float64(tb.capacity), tb.tokens+elapsed.Seconds()*tb.refillRate)
	tb.lastRefill = now

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

func (tb *TokenBucket) status() (remaining int, resetTime time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)
	tb.tokens = min(float64(tb.capacity), tb.tokens+elapsed.Seconds()*tb.refillRate)
	tb.lastRefill = now

	remaining = int(tb.tokens)
	resetTime = now
	if tb.tokens < float64(tb.capacity) {
		needed := float64(tb.capacity) - tb.tokens
		resetTime = now.Add(time.Duration(needed / tb.refillRate * float64(time.Second)))
	}
	return remaining, resetTime
}

// Info reports the limit state for one decision.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled bool
	// DefaultLimit is the per-minute budget for ordinary endpoints.
	DefaultLimit int
	// CompletionLimit is the per-minute budget for endpoints that trigger
	// a model call.
	CompletionLimit int
	Window          time.Duration
	CleanupInterval time.Duration
}

// LoadConfig reads rate limit settings from the environment.
func LoadConfig() *Config {
	return &Config{
		Enabled:         getEnvBool("RATE_LIMIT_ENABLED", true),
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT", 120),
		CompletionLimit: getEnvInt("RATE_LIMIT_COMPLETION", 10),
		Window:          time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// completionPathMarkers identify endpoints whose handler issues a model
// call.
var completionPathMarkers = []string{
	"/improve",
	"/analyze",
	"/api/generate",
	"/api/chat",
}

// isCompletionPath reports whether a request path is completion-backed.
func isCompletionPath(path string) bool {
	for _, marker := range completionPathMarkers {
		if strings.Contains(path, marker) {
			return true
		}
	}
	return false
}

// Limiter manages token buckets per client and endpoint class.
type Limiter struct {
	mu      sync.RWMutex
	buckets map[string]*TokenBucket

	accessMu   sync.Mutex
	lastAccess map[string]time.Time

	config        *Config
	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
}

// NewLimiter creates a limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = LoadConfig()
	}

	l := &Limiter{
		buckets:    make(map[string]*TokenBucket),
		lastAccess: make(map[string]time.Time),
		config:     config,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.cleanupTicker = time.NewTicker(config.CleanupInterval)
		l.cleanupStop = make(chan struct{})
		go l.cleanupLoop()
	}
	return l
}

// Allow decides whether a request from clientID to path may proceed.
func (l *Limiter) Allow(clientID, path string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}

	limit := l.config.DefaultLimit
	class := "default"
	if isCompletionPath(path) {
		limit = l.config.CompletionLimit
		class = "completion"
	}
	if limit <= 0 {
		return true, Info{Allowed: true}
	}

	key := clientID + ":" + class
	bucket := l.getBucket(key, limit)

	l.accessMu.Lock()
	l.lastAccess[key] = time.Now()
	l.accessMu.Unlock()

	allowed := bucket.allow()
	remaining, resetTime := bucket.status()

	var retryAfter time.Duration
	if !allowed {
		retryAfter = max(time.Until(resetTime), 0)
	}

	return allowed, Info{
		Allowed:    allowed,
		Limit:      limit,
		Remaining:  remaining,
		ResetTime:  resetTime,
		RetryAfter: retryAfter,
	}
}

func (l *Limiter) getBucket(key string, limit int) *TokenBucket {
	l.mu.RLock()
	bucket, ok := l.buckets[key]
	l.mu.RUnlock()
	if ok {
		return bucket
	}

	refillRate := float64(limit) / l.config.Window.Seconds()
	bucket = newTokenBucket(limit, refillRate)

	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.buckets[key]; ok {
		return existing
	}
	l.buckets[key] = bucket
	return bucket
}

func (l *Limiter) cleanupLoop() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.cleanupBuckets()
		case <-l.cleanupStop:
			return
		}
	}
}

// cleanupBuckets drops buckets idle for over an hour.
func (l *Limiter) cleanupBuckets() {
	cutoff := time.Now().Add(-1 * time.Hour)

	l.accessMu.Lock()
	var stale []string
	for key, last := range l.lastAccess {
		if last.Before(cutoff) {
			stale = append(stale, key)
			delete(l.lastAccess, key)
		}
	}
	l.accessMu.Unlock()

	l.mu.Lock()
	for _, key := range stale {
		delete(l.buckets, key)
	}
	l.mu.Unlock()
}

// Stop terminates the cleanup goroutine.
func (l *Limiter) Stop() {
	if l.cleanupTicker != nil {
		l.cleanupTicker.Stop()
	}
	if l.cleanupStop != nil {
		close(l.cleanupStop)
	}
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
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
