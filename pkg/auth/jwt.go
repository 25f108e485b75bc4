// Package auth validates the session tokens issued by the organization's
// external identity service. Tokens are HS256 JWTs signed with a shared
// secret; this package verifies them and exposes the extracted claims
// through the request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/caucusdesk/caucusdesk/pkg/observability/logger"
)

// Validator validates session tokens and extracts claims.
type Validator interface {
	Validate(ctx context.Context, token string) (*Claims, error)
}

// Claims represents the extracted claims from a validated session token.
type Claims struct {
	Subject   string                 // Subject (sub) - staff member ID
	Email     string                 // Email address of the staff member
	Issuer    string                 // Issuer (iss)
	ExpiresAt time.Time              // Expiration time (exp)
	IssuedAt  time.Time              // Issued at (iat)
	Roles     []string               // Roles granted to the session
	Custom    map[string]interface{} // Remaining claims
}

// HasRole reports whether the session carries the given role,
// case-insensitively.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// HMACValidator validates HS256-signed session tokens with a shared secret.
// It verifies the signature, expiration, and issuer.
type HMACValidator struct {
	secret []byte
	issuer string
	logger logger.Logger
}

// NewHMACValidator creates a validator for tokens signed with secret and
// issued by issuer. An empty issuer skips issuer validation.
func NewHMACValidator(secret, issuer string, log logger.Logger) (*HMACValidator, error) {
	if secret == "" {
		return nil, errors.New("auth secret is required")
	}
	return &HMACValidator{
		secret: []byte(secret),
		issuer: issuer,
		logger: log,
	}, nil
}

// Validate verifies the token signature and registered claims, then
// extracts the session claims.
func (v *HMACValidator) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, err := extractClaims(token)
	if err != nil {
		return nil, fmt.Errorf("failed to extract claims: %w", err)
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, fmt.Errorf("invalid issuer: expected %s, got %s", v.issuer, claims.Issuer)
	}

	v.logger.Debug("session token validated", "subject", claims.Subject)

	return claims, nil
}

func extractClaims(token *jwt.Token) (*Claims, error) {
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("failed to parse claims")
	}

	claims := &Claims{Custom: make(map[string]interface{})}

	if sub, ok := mapClaims["sub"].(string); ok {
		claims.Subject = sub
	}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if iss, ok := mapClaims["iss"].(string); ok {
		claims.Issuer = iss
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	claims.Roles = extractRoles(mapClaims)

	standard := map[string]bool{
		"sub": true, "email": true, "iss": true, "aud": true,
		"exp": true, "iat": true, "nbf": true, "jti": true,
		"role": true, "roles": true,
	}
	for key, value := range mapClaims {
		if !standard[key] {
			claims.Custom[key] = value
		}
	}

	return claims, nil
}

// extractRoles accepts "role" or "roles" carrying a string, a
// space-separated string, or a list of strings.
func extractRoles(mapClaims jwt.MapClaims) []string {
	var roles []string
	appendRole := func(raw string) {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return
		}
		for _, existing := range roles {
			if strings.EqualFold(existing, trimmed) {
				return
			}
		}
		roles = append(roles, trimmed)
	}

	for _, key := range []string{"role", "roles"} {
		switch typed := mapClaims[key].(type) {
		case string:
			for _, role := range strings.Fields(typed) {
				appendRole(role)
			}
		case []string:
			for _, role := range typed {
				appendRole(role)
			}
		case []interface{}:
			for _, item := range typed {
				if role, ok := item.(string); ok {
					appendRole(role)
				}
			}
		}
	}

	return roles
}

// claimsContextKey is the context key for storing claims.
type claimsContextKey struct{}

// WithClaims stores claims in the context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// GetClaims retrieves claims from the context.
// Returns nil if no claims are found.
func GetClaims(ctx context.Context) *Claims {
	if claims, ok := ctx.Value(claimsContextKey{}).(*Claims); ok {
		return claims
	}
	return nil
}
