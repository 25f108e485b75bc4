package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	loader := NewViperLoader("", "TESTCFG")
	t.Setenv("TESTCFG_AUTH_SECRET", "unit-test-secret")

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.RouterType != "gin" {
		t.Errorf("router_type = %q, want gin", cfg.RouterType)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("http.port = %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.Service.Name != "caucusdesk" {
		t.Errorf("service.name = %q", cfg.Service.Name)
	}
	if !cfg.Auth.Enabled || cfg.Auth.EditorRole != "editor" {
		t.Errorf("auth defaults = %+v", cfg.Auth)
	}
	if cfg.Database.QueryTimeout != 30*time.Second {
		t.Errorf("database.query_timeout = %v", cfg.Database.QueryTimeout)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	content := `
http:
  port: 9000
auth:
  secret: file-secret
observability:
  log_level: debug
`
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TESTCFG_HTTP_PORT", "9100")

	cfg, err := NewViperLoader(file, "TESTCFG").Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTP.Port != 9100 {
		t.Errorf("http.port = %d, want env override 9100", cfg.HTTP.Port)
	}
	if cfg.Auth.Secret != "file-secret" {
		t.Errorf("auth.secret = %q, want file value", cfg.Auth.Secret)
	}
	if cfg.Observability.LogLevel != "debug" {
		t.Errorf("log_level = %q, want debug", cfg.Observability.LogLevel)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	if _, err := NewViperLoader("/nonexistent/config.yaml", "TESTCFG").Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	loader := NewViperLoader("", "TESTCFG")

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad router type",
			mutate:  func(c *Config) { c.RouterType = "express" },
			wantErr: true,
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.HTTP.Port = 0 },
			wantErr: true,
		},
		{
			name:    "auth enabled without secret",
			mutate:  func(c *Config) { c.Auth.Secret = "" },
			wantErr: true,
		},
		{
			name:    "idle conns exceed open conns",
			mutate:  func(c *Config) { c.Database.MaxIdleConns = 100 },
			wantErr: true,
		},
		{
			name:    "rate limit enabled without rate",
			mutate:  func(c *Config) { c.RateLimit.Enabled = true; c.RateLimit.RequestsPerSecond = 0 },
			wantErr: true,
		},
		{
			name:    "cors enabled without origins",
			mutate:  func(c *Config) { c.CORS.Enabled = true },
			wantErr: true,
		},
		{
			name: "cors enabled with origins",
			mutate: func(c *Config) {
				c.CORS.Enabled = true
				c.CORS.AllowOrigins = []string{"https://admin.example.org"}
			},
		},
		{
			name:    "tracing enabled without endpoint",
			mutate:  func(c *Config) { c.Observability.Tracing.Enabled = true },
			wantErr: true,
		},
		{
			name: "tracing sample rate out of range",
			mutate: func(c *Config) {
				c.Observability.Tracing.Enabled = true
				c.Observability.Tracing.Endpoint = "localhost:4317"
				c.Observability.Tracing.SampleRate = 2
			},
			wantErr: true,
		},
		{
			name: "tracing enabled with endpoint",
			mutate: func(c *Config) {
				c.Observability.Tracing.Enabled = true
				c.Observability.Tracing.Endpoint = "localhost:4317"
				c.Observability.Tracing.SampleRate = 0.25
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Auth.Secret = "s"
			tt.mutate(cfg)
			err := loader.Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNormalizesOrigins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Auth.Secret = "s"
	cfg.CORS.Enabled = true
	cfg.CORS.AllowOrigins = []string{" https://a.example.org ", "", "https://b.example.org"}

	if err := NewViperLoader("", "TESTCFG").Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.CORS.AllowOrigins) != 2 {
		t.Errorf("origins = %v, want 2 entries", cfg.CORS.AllowOrigins)
	}
	if cfg.CORS.AllowOrigins[0] != "https://a.example.org" {
		t.Errorf("origin[0] = %q, want trimmed", cfg.CORS.AllowOrigins[0])
	}
}
