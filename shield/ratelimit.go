// CLAUDE:SUMMARY Per-IP, per-endpoint in-memory rate limiter with periodic bucket GC.
package shield

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimitRule defines the rate limit for a single endpoint, keyed as
// "METHOD /path". The zero rule means unlimited.
type RateLimitRule struct {
	MaxRequests   int
	WindowSeconds int
}

type bucket struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// RateLimiter provides per-IP, per-endpoint rate limiting with fixed
// windows. Rules are set at construction; expired buckets are garbage
// collected by StartGC.
type RateLimiter struct {
	rules   map[string]RateLimitRule
	buckets sync.Map
	exclude []string // path prefixes never rate limited
}

// DefaultRules limits the expensive extraction endpoints; reads are
// unlimited.
func DefaultRules() map[string]RateLimitRule {
	return map[string]RateLimitRule{
		"POST /api/distill": {MaxRequests: 30, WindowSeconds: 60},
		"POST /api/memo":    {MaxRequests: 60, WindowSeconds: 60},
	}
}

// NewRateLimiter creates a rate limiter with the given rules. Requests to
// endpoints without a rule pass through.
func NewRateLimiter(rules map[string]RateLimitRule, excludePrefixes ...string) *RateLimiter {
	if rules == nil {
		rules = map[string]RateLimitRule{}
	}
	return &RateLimiter{rules: rules, exclude: excludePrefixes}
}

// StartGC starts a background goroutine that drops expired buckets every
// five minutes. Stops when done is closed.
func (rl *RateLimiter) StartGC(done <-chan struct{}) {
	tick := time.NewTicker(5 * time.Minute)
	go func() {
		defer tick.Stop()
		for {
			select {
			case <-done:
				return
			case <-tick.C:
				rl.gc()
			}
		}
	}()
}

func (rl *RateLimiter) gc() {
	now := time.Now()
	rl.buckets.Range(func(key, value any) bool {
		b := value.(*bucket)
		b.mu.Lock()
		expired := now.After(b.resetAt)
		b.mu.Unlock()
		if expired {
			rl.buckets.Delete(key)
		}
		return true
	})
}

func (rl *RateLimiter) allow(ip, endpoint string) bool {
	rule, ok := rl.rules[endpoint]
	if !ok || rule.MaxRequests <= 0 {
		return true
	}

	key := ip + ":" + endpoint
	now := time.Now()
	window := time.Duration(rule.WindowSeconds) * time.Second

	val, loaded := rl.buckets.LoadOrStore(key, &bucket{
		count:   1,
		resetAt: now.Add(window),
	})
	if !loaded {
		return true
	}

	b := val.(*bucket)
	b.mu.Lock()
	defer b.mu.Unlock()
	if now.After(b.resetAt) {
		b.count = 1
		b.resetAt = now.Add(window)
		return true
	}
	b.count++
	return b.count <= rule.MaxRequests
}

// Middleware enforces the rate limits with a 429 JSON response.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, prefix := range rl.exclude {
			if strings.HasPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}
		}

		endpoint := r.Method + " " + r.URL.Path
		ip := ExtractIP(r)

		if rl.allow(ip, endpoint) {
			next.ServeHTTP(w, r)
			return
		}

		slog.Warn("ratelimit: request blocked", "ip", ip, "endpoint", endpoint)

		w.Header().Set("Retry-After", "60")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "rate limit exceeded",
		})
	})
}

// ExtractIP returns the client IP from X-Forwarded-For or RemoteAddr.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return strings.TrimSpace(xff[:i])
			}
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
