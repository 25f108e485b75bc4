// Package authn gates routes behind a validated staff session.
package authn

import (
	"net/http"
	"strings"

	"github.com/caucusdesk/caucusdesk/pkg/auth"
	"github.com/caucusdesk/caucusdesk/pkg/middleware"
	"github.com/caucusdesk/caucusdesk/pkg/server/router"
)

// RequireSession creates middleware that rejects requests without a valid
// bearer token. Validated claims are stored in the request context for
// downstream handlers.
func RequireSession(validator auth.Validator) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			token := bearerToken(c.Request().Header.Get("Authorization"))
			if token == "" {
				return unauthorized(c, "missing bearer token")
			}

			claims, err := validator.Validate(c.Request().Context(), token)
			if err != nil {
				return unauthorized(c, "invalid session token")
			}

			ctx := auth.WithClaims(c.Request().Context(), claims)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequireRole creates middleware that rejects sessions lacking the given
// role with 403. It must run after RequireSession.
func RequireRole(role string) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			claims := auth.GetClaims(c.Request().Context())
			if claims == nil {
				return unauthorized(c, "missing session")
			}
			if !claims.HasRole(role) {
				return c.JSON(http.StatusForbidden, map[string]interface{}{
					"error":      "forbidden",
					"message":    "insufficient role",
					"request_id": middleware.RequestIDFromContext(c.Request().Context()),
				})
			}
			return next(c)
		}
	}
}

func unauthorized(c router.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, map[string]interface{}{
		"error":      "unauthorized",
		"message":    message,
		"request_id": middleware.RequestIDFromContext(c.Request().Context()),
	})
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
