package logger

import (
	"context"
	"testing"

	"github.com/caucusdesk/caucusdesk/pkg/middleware"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{input: "debug", want: DebugLevel},
		{input: "info", want: InfoLevel},
		{input: "warn", want: WarnLevel},
		{input: "warning", want: WarnLevel},
		{input: "error", want: ErrorLevel},
		{input: "verbose", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("level = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseLogFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    LogFormat
		wantErr bool
	}{
		{input: "json", want: JSONFormat},
		{input: "text", want: TextFormat},
		{input: "console", want: TextFormat},
		{input: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewZapLogger(t *testing.T) {
	for _, cfg := range []Config{
		DefaultConfig(),
		{Level: DebugLevel, Format: TextFormat},
		{Level: "bogus", Format: "bogus"}, // falls back to info/json
	} {
		log, err := NewZapLogger(cfg)
		if err != nil {
			t.Fatalf("NewZapLogger(%+v): %v", cfg, err)
		}
		if log == nil {
			t.Fatalf("NewZapLogger(%+v) returned nil", cfg)
		}
	}
}

func TestWithContextCarriesRequestID(t *testing.T) {
	log, err := NewZapLogger(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	ctx := middleware.WithRequestID(context.Background(), "req-123")
	child := log.WithContext(ctx)
	if child == log {
		t.Error("expected child logger when request ID is present")
	}

	same := log.WithContext(context.Background())
	if same != Logger(log) {
		t.Error("expected same logger when no request ID is present")
	}
}
