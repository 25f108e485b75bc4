package tracing

import (
	"context"
	"testing"
)

func TestNewProviderDisabledIsNoop(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Tracer("test") == nil {
		t.Error("expected a usable tracer from the no-op provider")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestNewProviderValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{
			name: "missing service name",
			cfg:  Config{Enabled: true, Endpoint: "localhost:4317"},
		},
		{
			name: "missing endpoint",
			cfg:  Config{Enabled: true, ServiceName: "caucusdesk"},
		},
		{
			name: "sample rate out of range",
			cfg:  Config{Enabled: true, ServiceName: "caucusdesk", Endpoint: "localhost:4317", SampleRate: 1.5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewProvider(context.Background(), tt.cfg); err == nil {
				t.Error("expected configuration error")
			}
		})
	}
}
