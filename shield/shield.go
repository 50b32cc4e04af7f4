// CLAUDE:SUMMARY HTTP middleware stack for the dnav API: headers, body limits, request ids, rate limiting.
// Package shield provides HTTP middleware for the dnav API service.
// It consolidates security headers, request body limits, request ids,
// rate limiting, and HEAD method handling into a single importable package.
//
// Usage:
//
//	r := chi.NewRouter()
//	r.Use(shield.SecurityHeaders(shield.DefaultHeaders()))
//	r.Use(shield.MaxBody(8 << 20))
//	r.Use(shield.RequestID)
//	r.Use(shield.NewRateLimiter(shield.DefaultRules()).Middleware)
//
// Or apply the default API stack in one call:
//
//	stack, rl := shield.DefaultAPIStack()
//	rl.StartGC(done)
//	for _, mw := range stack {
//	    r.Use(mw)
//	}
package shield

import "net/http"

type contextKey string

// LoggerKey is the context key for the per-request structured logger.
const LoggerKey contextKey = "shield_logger"

// DefaultAPIStack returns the standard middleware stack for the dnav API.
// Middleware is ordered: HeadToGet → SecurityHeaders → MaxBody → RequestID →
// RateLimiter. The returned RateLimiter handle allows callers to start
// bucket garbage collection.
func DefaultAPIStack() ([]func(http.Handler) http.Handler, *RateLimiter) {
	rl := NewRateLimiter(DefaultRules(), "/health")
	return []func(http.Handler) http.Handler{
		HeadToGet,
		SecurityHeaders(DefaultHeaders()),
		MaxBody(8 << 20),
		RequestID,
		rl.Middleware,
	}, rl
}
