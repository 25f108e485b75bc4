// Package logging emits a structured log line for every HTTP request.
package logging

import (
	"strings"
	"time"

	"github.com/caucusdesk/caucusdesk/pkg/middleware"
	"github.com/caucusdesk/caucusdesk/pkg/observability/logger"
	"github.com/caucusdesk/caucusdesk/pkg/server/router"
)

// Config configures request logging behavior.
type Config struct {
	Enabled bool

	// LogStart also emits a line when the request begins, not only when it
	// completes.
	LogStart bool

	// ExcludedPathPrefixes suppresses logging for matching paths, typically
	// health and metrics probes.
	ExcludedPathPrefixes []string
}

// DefaultConfig returns the default request logging behavior.
func DefaultConfig() Config {
	return Config{
		Enabled:              true,
		LogStart:             false,
		ExcludedPathPrefixes: []string{"/healthz", "/readyz", "/metrics"},
	}
}

// Logging creates request logging middleware with default configuration.
func Logging(log logger.Logger) router.MiddlewareFunc {
	return WithConfig(log, DefaultConfig())
}

// WithConfig creates middleware that logs request completion (and
// optionally start) with method, path, status, duration, and request ID.
func WithConfig(log logger.Logger, cfg Config) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if !cfg.Enabled || excluded(cfg.ExcludedPathPrefixes, c.Request().URL.Path) {
				return next(c)
			}

			start := time.Now()
			req := c.Request()
			requestID := middleware.RequestIDFromContext(req.Context())

			if cfg.LogStart {
				log.Info("request started",
					"request_id", requestID,
					"method", req.Method,
					"path", req.URL.Path,
					"remote_addr", req.RemoteAddr,
				)
			}

			err := next(c)
			duration := time.Since(start)
			status := c.Response().Status()

			fields := []any{
				"request_id", requestID,
				"method", req.Method,
				"path", req.URL.Path,
				"status", status,
				"duration_ms", duration.Milliseconds(),
				"remote_addr", req.RemoteAddr,
			}

			if err != nil {
				log.Error("request failed", append(fields, "error", err)...)
				return err
			}

			log.Info("request completed", fields...)
			return nil
		}
	}
}

func excluded(prefixes []string, path string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
