// Rate limiter for the admin control plane. Simple in-memory sliding
// window per client address.
package api

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// RateLimiter tracks request counts per client with a sliding window.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	maxRate int
	span    time.Duration
}

type window struct {
	count   int
	started time.Time
}

// NewRateLimiter allows maxRate requests per span per client.
func NewRateLimiter(maxRate int, span time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*window),
		maxRate: maxRate,
		span:    span,
	}
}

// Allow reports whether the client is within its limit.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.windows[client]
	if !ok || now.Sub(w.started) >= rl.span {
		rl.windows[client] = &window{count: 1, started: now}
		return true
	}
	if w.count < rl.maxRate {
		w.count++
		return true
	}
	return false
}

// RateLimitMiddleware wraps a handler, returning 429 over the limit.
func RateLimitMiddleware(rl *RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			client = r.RemoteAddr
		}
		if !rl.Allow(client) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}
