package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"cvlens/internal/config"
)

// RateLimiter manages per-client token buckets for request throttling
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	mu       sync.RWMutex
	config   *config.RateLimitConfig

	// cleanup
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
}

// NewRateLimiter creates a rate limiter from the given configuration
func NewRateLimiter(cfg *config.RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		limiters:        make(map[string]*rate.Limiter),
		lastSeen:        make(map[string]time.Time),
		config:          cfg,
		cleanupInterval: 10 * time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	go rl.cleanupRoutine()

	return rl
}

// GetLimiter returns the limiter for a client key, creating one if needed
func (rl *RateLimiter) GetLimiter(key string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[key]
	rl.mu.RUnlock()

	if exists {
		rl.mu.Lock()
		rl.lastSeen[key] = time.Now()
		rl.mu.Unlock()
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Double-check after acquiring the write lock
	if limiter, exists := rl.limiters[key]; exists {
		rl.lastSeen[key] = time.Now()
		return limiter
	}

	requestsPerSecond := rate.Limit(float64(rl.config.RequestsPerMin) / 60.0)
	limiter = rate.NewLimiter(requestsPerSecond, rl.config.BurstCapacity)

	rl.limiters[key] = limiter
	rl.lastSeen[key] = time.Now()

	return limiter
}

// Allow reports whether the client identified by key may proceed
func (rl *RateLimiter) Allow(key string) bool {
	return rl.GetLimiter(key).Allow()
}

// GetStats returns rate limiter statistics
func (rl *RateLimiter) GetStats() map[string]any {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	return map[string]any{
		"enabled":          rl.config.Enabled,
		"active_clients":   len(rl.limiters),
		"requests_per_min": rl.config.RequestsPerMin,
		"burst_capacity":   rl.config.BurstCapacity,
		"by_ip":            rl.config.ByIP,
		"by_api_key":       rl.config.ByAPIKey,
	}
}

// cleanupRoutine evicts limiters for clients not seen within the window
func (rl *RateLimiter) cleanupRoutine() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStale()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *RateLimiter) cleanupStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rl.config.Window)
	for key, seen := range rl.lastSeen {
		if seen.Before(cutoff) {
			delete(rl.limiters, key)
			delete(rl.lastSeen, key)
		}
	}
}

// Close stops the background cleanup goroutine
func (rl *RateLimiter) Close() {
	close(rl.stopCleanup)
}

// rateLimitMiddleware enforces per-client request limits
func (s *Server) rateLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.RateLimiter == nil || s.RateLimit == nil || !s.RateLimit.Enabled {
				next(w, r)
				return
			}

			key := s.getRateLimitKey(r)
			if !s.RateLimiter.Allow(key) {
				s.Logger.Warn("Rate limit exceeded",
					"client", key,
					"path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				writeErrorResponse(w, "rate_limit_exceeded",
					"Too many requests. Please try again later.",
					http.StatusTooManyRequests)
				return
			}

			next(w, r)
		}
	}
}

// getRateLimitKey determines the client identity used for throttling
func (s *Server) getRateLimitKey(r *http.Request) string {
	if s.RateLimit.ByAPIKey {
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			if auth := r.Header.Get("Authorization"); auth != "" {
				if key, ok := strings.CutPrefix(auth, "Bearer "); ok {
					apiKey = key
				}
			}
		}
		if apiKey != "" {
			return "api:" + apiKey
		}
	}

	if s.RateLimit.ByIP {
		return "ip:" + getClientIP(r)
	}

	return "global"
}

// getClientIP extracts the client IP, honoring common proxy headers
func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for ip := range strings.SplitSeq(forwarded, ",") {
			if trimmed := strings.TrimSpace(ip); trimmed != "" {
				return trimmed
			}
		}
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
