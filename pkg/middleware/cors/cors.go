// Package cors applies cross-origin resource sharing headers for the
// browser-based dashboard client.
package cors

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/caucusdesk/caucusdesk/pkg/server/router"
)

// Config configures CORS middleware behavior.
type Config struct {
	Enabled bool

	AllowAllOrigins  bool
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// DefaultConfig returns CORS defaults suitable for a same-site dashboard.
func DefaultConfig() Config {
	return Config{
		Enabled:          false,
		AllowAllOrigins:  false,
		AllowOrigins:     []string{},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
}

// CORS creates middleware that writes CORS response headers and answers
// preflight OPTIONS requests with 204. Disabled config is a passthrough.
func CORS(cfg Config) router.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(cfg.AllowOrigins))
	for _, origin := range cfg.AllowOrigins {
		allowed[strings.ToLower(strings.TrimSpace(origin))] = struct{}{}
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if !cfg.Enabled {
				return next(c)
			}

			origin := c.Request().Header.Get("Origin")
			if origin == "" {
				return next(c)
			}

			header := c.Response().Header()
			switch {
			case cfg.AllowAllOrigins:
				header.Set("Access-Control-Allow-Origin", "*")
			default:
				if _, ok := allowed[strings.ToLower(origin)]; !ok {
					return next(c)
				}
				header.Set("Access-Control-Allow-Origin", origin)
				header.Add("Vary", "Origin")
			}

			if cfg.AllowCredentials {
				header.Set("Access-Control-Allow-Credentials", "true")
			}
			if len(cfg.ExposeHeaders) > 0 {
				header.Set("Access-Control-Expose-Headers", strings.Join(cfg.ExposeHeaders, ", "))
			}

			if c.Request().Method == http.MethodOptions {
				if len(cfg.AllowMethods) > 0 {
					header.Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowMethods, ", "))
				}
				if len(cfg.AllowHeaders) > 0 {
					header.Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowHeaders, ", "))
				}
				if cfg.MaxAge > 0 {
					header.Set("Access-Control-Max-Age", strconv.Itoa(int(cfg.MaxAge.Seconds())))
				}
				c.Response().WriteHeader(http.StatusNoContent)
				return nil
			}

			return next(c)
		}
	}
}
