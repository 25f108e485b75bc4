package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func adapters(t *testing.T) map[string]func() Router {
	t.Helper()
	return map[string]func() Router{
		"gin":     func() Router { return NewGinRouter() },
		"gorilla": func() Router { return NewGorillaRouter() },
	}
}

func TestRouter_RoutesAndParams(t *testing.T) {
	for name, newRouter := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			r := newRouter()
			r.GET("/people/:id", func(c Context) error {
				return c.JSON(http.StatusOK, map[string]string{"id": c.Param("id")})
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/people/42", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON response: %v", err)
			}
			if body["id"] != "42" {
				t.Errorf("param id = %q, want %q", body["id"], "42")
			}
		})
	}
}

func TestRouter_GroupPrefix(t *testing.T) {
	for name, newRouter := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			r := newRouter()
			api := r.Group("/api")
			api.GET("/ping", func(c Context) error {
				return c.String(http.StatusOK, "pong")
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

			if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
				t.Errorf("got %d %q, want 200 %q", rec.Code, rec.Body.String(), "pong")
			}
		})
	}
}

func TestRouter_MiddlewareOrder(t *testing.T) {
	for name, newRouter := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			r := newRouter()
			var order []string
			tag := func(label string) MiddlewareFunc {
				return func(next HandlerFunc) HandlerFunc {
					return func(c Context) error {
						order = append(order, label)
						return next(c)
					}
				}
			}

			r.Use(tag("global"))
			r.GET("/x", func(c Context) error {
				order = append(order, "handler")
				return c.String(http.StatusOK, "ok")
			}, tag("route"))

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

			want := "global,route,handler"
			if got := strings.Join(order, ","); got != want {
				t.Errorf("execution order = %s, want %s", got, want)
			}
		})
	}
}

func TestRouter_BindRejectsNonJSON(t *testing.T) {
	for name, newRouter := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			r := newRouter()
			r.POST("/y", func(c Context) error {
				var v map[string]string
				if err := c.Bind(&v); err != nil {
					return c.String(http.StatusBadRequest, err.Error())
				}
				return c.String(http.StatusOK, "ok")
			})

			req := httptest.NewRequest(http.MethodPost, "/y", strings.NewReader("a=b"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestRouter_OptionsRouteAutoRegistered(t *testing.T) {
	for name, newRouter := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			r := newRouter()
			var sawOptions bool
			r.Use(func(next HandlerFunc) HandlerFunc {
				return func(c Context) error {
					if c.Request().Method == http.MethodOptions {
						sawOptions = true
					}
					return next(c)
				}
			})
			r.GET("/people", func(c Context) error {
				return c.String(http.StatusOK, "ok")
			})
			r.POST("/people", func(c Context) error {
				return c.String(http.StatusCreated, "created")
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/people", nil))

			if rec.Code != http.StatusNoContent {
				t.Fatalf("status = %d, want 204", rec.Code)
			}
			if !sawOptions {
				t.Error("OPTIONS request did not pass through global middleware")
			}
		})
	}
}

func TestRouter_OptionsRouteInGroup(t *testing.T) {
	for name, newRouter := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			r := newRouter()
			api := r.Group("/api")
			api.GET("/people", func(c Context) error {
				return c.String(http.StatusOK, "ok")
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/people", nil))

			if rec.Code != http.StatusNoContent {
				t.Fatalf("status = %d, want 204", rec.Code)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		routerType string
		wantErr    bool
	}{
		{routerType: "", wantErr: false},
		{routerType: TypeGin, wantErr: false},
		{routerType: TypeGorilla, wantErr: false},
		{routerType: "echo", wantErr: true},
	}

	for _, tt := range tests {
		_, err := New(tt.routerType)
		if (err != nil) != tt.wantErr {
			t.Errorf("New(%q) error = %v, wantErr %v", tt.routerType, err, tt.wantErr)
		}
	}
}
