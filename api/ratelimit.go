package api

import (
	"context"
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = time.Minute
)

// ipLimiterEntry holds a rate limiter and last-seen timestamp for cleanup.
type ipLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*ipLimiterEntry
	rate       rate.Limit
	burst      int
	retryAfter string
}

// NewIPRateLimiter allows r events per second per IP with the given burst.
// Idle entries are swept until ctx is done.
func NewIPRateLimiter(ctx context.Context, r rate.Limit, burst int) *IPRateLimiter {
	rl := &IPRateLimiter{
		limiters:   make(map[string]*ipLimiterEntry),
		rate:       r,
		burst:      burst,
		retryAfter: retryAfterSeconds(r),
	}
	go rl.cleanup(ctx)
	return rl
}

// PerMinute returns a limiter for n requests per minute with a burst of n.
func PerMinute(ctx context.Context, n int) *IPRateLimiter {
	if n <= 0 {
		return NewIPRateLimiter(ctx, rate.Inf, 1)
	}
	return NewIPRateLimiter(ctx, rate.Every(time.Minute/time.Duration(n)), n)
}

func retryAfterSeconds(r rate.Limit) string {
	if r == rate.Inf || r <= 0 {
		return "60"
	}
	return strconv.Itoa(int(math.Max(1, math.Ceil(1/float64(r)))))
}

func (rl *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.limiters[ip]
	if !exists {
		entry = &ipLimiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// Allow reports whether a request from ip may proceed now.
func (rl *IPRateLimiter) Allow(ip string) bool {
	return rl.getLimiter(ip).Allow()
}

func (rl *IPRateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep(time.Now())
		}
	}
}

func (rl *IPRateLimiter) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(rl.limiters, ip)
		}
	}
}

// getClientIP prefers proxy headers and falls back to the remote address.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func (rl *IPRateLimiter) reject(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", rl.retryAfter)
	w.WriteHeader(http.StatusTooManyRequests)
	json.NewEncoder(w).Encode(map[string]string{"error": "too many requests"})
}

// RateLimitHandlerFunc wraps an http.HandlerFunc with per-IP rate limiting.
// Requests over the limit get 429 Too Many Requests.
func RateLimitHandlerFunc(rl *IPRateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(getClientIP(r)) {
			rl.reject(w)
			return
		}
		next(w, r)
	}
}

// RateLimitMiddleware applies the limiter to every route of a subrouter.
func RateLimitMiddleware(rl *IPRateLimiter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return RateLimitHandlerFunc(rl, next.ServeHTTP)
	}
}
