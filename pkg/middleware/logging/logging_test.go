package logging

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/caucusdesk/caucusdesk/pkg/observability/logger"
	"github.com/caucusdesk/caucusdesk/pkg/server/router"
)

type logEntry struct {
	msg    string
	fields map[string]any
}

type captureLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *captureLogger) record(msg string, args []any) {
	fields := map[string]any{}
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			fields[key] = args[i+1]
		}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{msg: msg, fields: fields})
}

func (l *captureLogger) Debug(msg string, args ...any) { l.record(msg, args) }
func (l *captureLogger) Info(msg string, args ...any)  { l.record(msg, args) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.record(msg, args) }
func (l *captureLogger) Error(msg string, args ...any) { l.record(msg, args) }
func (l *captureLogger) With(args ...any) logger.Logger {
	return l
}
func (l *captureLogger) WithContext(ctx context.Context) logger.Logger {
	return l
}

func (l *captureLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	msgs := make([]string, len(l.entries))
	for i, e := range l.entries {
		msgs[i] = e.msg
	}
	return msgs
}

func serve(r router.Router, path string) {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
}

func TestLoggingRecordsCompletion(t *testing.T) {
	log := &captureLogger{}
	r := router.NewGinRouter()
	r.Use(Logging(log))
	r.GET("/people", func(c router.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	serve(r, "/people")

	msgs := log.messages()
	if len(msgs) != 1 || msgs[0] != "request completed" {
		t.Fatalf("messages = %v", msgs)
	}
	entry := log.entries[0]
	if entry.fields["method"] != "GET" || entry.fields["path"] != "/people" {
		t.Errorf("fields = %v", entry.fields)
	}
	if entry.fields["status"] != http.StatusOK {
		t.Errorf("status field = %v", entry.fields["status"])
	}
}

func TestLoggingRecordsFailure(t *testing.T) {
	log := &captureLogger{}
	r := router.NewGinRouter()
	r.Use(Logging(log))
	r.GET("/broken", func(c router.Context) error {
		return errors.New("handler failure")
	})

	serve(r, "/broken")

	msgs := log.messages()
	if len(msgs) != 1 || msgs[0] != "request failed" {
		t.Fatalf("messages = %v", msgs)
	}
}

func TestLoggingExcludesProbePaths(t *testing.T) {
	log := &captureLogger{}
	r := router.NewGinRouter()
	r.Use(Logging(log))
	r.GET("/healthz", func(c router.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	serve(r, "/healthz")

	if msgs := log.messages(); len(msgs) != 0 {
		t.Errorf("messages = %v, want none for excluded path", msgs)
	}
}

func TestLoggingLogStart(t *testing.T) {
	log := &captureLogger{}
	cfg := DefaultConfig()
	cfg.LogStart = true

	r := router.NewGinRouter()
	r.Use(WithConfig(log, cfg))
	r.GET("/people", func(c router.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	serve(r, "/people")

	msgs := log.messages()
	if len(msgs) != 2 || msgs[0] != "request started" || msgs[1] != "request completed" {
		t.Fatalf("messages = %v", msgs)
	}
}

func TestLoggingDisabled(t *testing.T) {
	log := &captureLogger{}
	r := router.NewGinRouter()
	r.Use(WithConfig(log, Config{Enabled: false}))
	r.GET("/people", func(c router.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	serve(r, "/people")

	if msgs := log.messages(); len(msgs) != 0 {
		t.Errorf("messages = %v, want none while disabled", msgs)
	}
}
