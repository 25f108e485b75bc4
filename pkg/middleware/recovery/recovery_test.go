package recovery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/caucusdesk/caucusdesk/pkg/observability/logger"
	"github.com/caucusdesk/caucusdesk/pkg/server/router"
)

// captureLogger records error messages so tests can assert the panic was
// logged.
type captureLogger struct {
	mu       sync.Mutex
	errorMsg []string
}

func (l *captureLogger) Debug(msg string, args ...any) {}
func (l *captureLogger) Info(msg string, args ...any)  {}
func (l *captureLogger) Warn(msg string, args ...any)  {}
func (l *captureLogger) Error(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorMsg = append(l.errorMsg, msg)
}
func (l *captureLogger) With(args ...any) logger.Logger {
	return l
}
func (l *captureLogger) WithContext(ctx context.Context) logger.Logger {
	return l
}

func TestRecoveryConvertsPanicTo500(t *testing.T) {
	log := &captureLogger{}
	r := router.NewGinRouter()
	r.Use(Recovery(log))
	r.GET("/boom", func(c router.Context) error {
		panic("handler exploded")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["error"] != "internal_server_error" {
		t.Errorf("error = %v", body["error"])
	}

	if len(log.errorMsg) == 0 || log.errorMsg[0] != "panic recovered" {
		t.Errorf("logged errors = %v, want panic recovered", log.errorMsg)
	}
}

func TestRecoveryPassthrough(t *testing.T) {
	log := &captureLogger{}
	r := router.NewGinRouter()
	r.Use(Recovery(log))
	r.GET("/ok", func(c router.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
	if len(log.errorMsg) != 0 {
		t.Errorf("unexpected error logs: %v", log.errorMsg)
	}
}
