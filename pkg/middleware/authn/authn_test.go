package authn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/caucusdesk/caucusdesk/pkg/auth"
	"github.com/caucusdesk/caucusdesk/pkg/server/router"
)

// stubValidator accepts exactly one token and returns canned claims.
type stubValidator struct {
	token  string
	claims *auth.Claims
}

func (v *stubValidator) Validate(_ context.Context, token string) (*auth.Claims, error) {
	if token != v.token {
		return nil, errors.New("invalid token")
	}
	return v.claims, nil
}

func doGet(r router.Router, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/people", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireSessionRejectsMissingToken(t *testing.T) {
	validator := &stubValidator{token: "good", claims: &auth.Claims{Subject: "staff-1"}}
	r := router.NewGinRouter()
	r.Use(RequireSession(validator))
	r.GET("/people", func(c router.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	tests := []struct {
		name          string
		authorization string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic Zm9vOmJhcg=="},
		{"empty bearer", "Bearer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := doGet(r, tt.authorization); rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRequireSessionRejectsInvalidToken(t *testing.T) {
	validator := &stubValidator{token: "good"}
	r := router.NewGinRouter()
	r.Use(RequireSession(validator))
	r.GET("/people", func(c router.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	if rec := doGet(r, "Bearer bad"); rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireSessionStoresClaims(t *testing.T) {
	validator := &stubValidator{token: "good", claims: &auth.Claims{Subject: "staff-1"}}

	var seen *auth.Claims
	r := router.NewGinRouter()
	r.Use(RequireSession(validator))
	r.GET("/people", func(c router.Context) error {
		seen = auth.GetClaims(c.Request().Context())
		return c.String(http.StatusOK, "ok")
	})

	rec := doGet(r, "Bearer good")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if seen == nil || seen.Subject != "staff-1" {
		t.Errorf("claims = %+v", seen)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		claims     *auth.Claims
		wantStatus int
	}{
		{"no session", nil, http.StatusUnauthorized},
		{"missing role", &auth.Claims{Roles: []string{"viewer"}}, http.StatusForbidden},
		{"has role", &auth.Claims{Roles: []string{"Editor"}}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := router.NewGinRouter()
			if tt.claims != nil {
				r.Use(func(next router.HandlerFunc) router.HandlerFunc {
					return func(c router.Context) error {
						ctx := auth.WithClaims(c.Request().Context(), tt.claims)
						c.SetRequest(c.Request().WithContext(ctx))
						return next(c)
					}
				})
			}
			r.Use(RequireRole("editor"))
			r.POST("/people", func(c router.Context) error {
				return c.String(http.StatusOK, "ok")
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/people", nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Bearer  abc ", "abc"},
		{"Token abc", ""},
		{"Bearer", ""},
	}
	for _, tt := range tests {
		if got := bearerToken(tt.header); got != tt.want {
			t.Errorf("bearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
