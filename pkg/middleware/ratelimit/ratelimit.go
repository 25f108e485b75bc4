// Package ratelimit throttles clients with a per-key token bucket.
package ratelimit

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/caucusdesk/caucusdesk/pkg/middleware"
	"github.com/caucusdesk/caucusdesk/pkg/server/router"
)

// RateLimiter decides whether a request for the given key may proceed.
// Implementations must be safe for concurrent use.
type RateLimiter interface {
	Allow(key string) bool
}

// TokenBucketLimiter is a thread-safe per-key token bucket. Each key gets
// its own rate.Limiter created on first use; bursts up to the burst size
// are allowed while the long-run rate stays at requestsPerSecond.
type TokenBucketLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
}

// NewTokenBucketLimiter creates a token bucket limiter allowing
// requestsPerSecond on average with bursts up to burst.
func NewTokenBucketLimiter(requestsPerSecond float64, burst int) *TokenBucketLimiter {
	return &TokenBucketLimiter{
		rate:  rate.Limit(requestsPerSecond),
		burst: burst,
	}
}

// Allow reports whether a request for key is within its rate limit.
func (l *TokenBucketLimiter) Allow(key string) bool {
	limiter, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.rate, l.burst))
	return limiter.(*rate.Limiter).Allow()
}

// Config configures the rate limiting middleware.
type Config struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig returns rate limiting defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:           false,
		RequestsPerSecond: 50,
		Burst:             100,
	}
}

// RateLimit creates middleware that rejects over-limit clients with 429.
// Requests are keyed by client IP.
func RateLimit(cfg Config) router.MiddlewareFunc {
	limiter := NewTokenBucketLimiter(cfg.RequestsPerSecond, cfg.Burst)

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if !cfg.Enabled {
				return next(c)
			}

			if !limiter.Allow(clientKey(c.Request().RemoteAddr)) {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":      "rate_limit_exceeded",
					"message":    "too many requests",
					"request_id": middleware.RequestIDFromContext(c.Request().Context()),
				})
			}

			return next(c)
		}
	}
}

func clientKey(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
