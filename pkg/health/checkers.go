package health

import (
	"context"
	"time"
)

// Checkable is implemented by components that can report their own health,
// such as the record store adapter.
type Checkable interface {
	HealthCheck(ctx context.Context) error
}

// AdapterChecker wraps a Checkable component as a named health check with a
// per-check timeout.
type AdapterChecker struct {
	name    string
	adapter Checkable
	timeout time.Duration
}

// NewAdapterChecker creates a health check for a Checkable component. A zero
// timeout defaults to 5 seconds.
func NewAdapterChecker(name string, adapter Checkable, timeout time.Duration) *AdapterChecker {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &AdapterChecker{name: name, adapter: adapter, timeout: timeout}
}

// NewRecordStoreChecker creates a health check for the record store.
func NewRecordStoreChecker(name string, store Checkable) *AdapterChecker {
	return NewAdapterChecker(name, store, 5*time.Second)
}

// Check runs the component's health check under the configured timeout.
func (c *AdapterChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.adapter.HealthCheck(checkCtx)
	duration := time.Since(start)

	if err != nil {
		return CheckResult{
			Name:      c.name,
			Status:    StatusUnhealthy,
			Error:     err.Error(),
			Timestamp: time.Now(),
			Duration:  duration,
		}
	}

	return CheckResult{
		Name:      c.name,
		Status:    StatusHealthy,
		Message:   "OK",
		Timestamp: time.Now(),
		Duration:  duration,
	}
}

// Name returns the check's name.
func (c *AdapterChecker) Name() string {
	return c.name
}

// PingChecker always reports healthy. The liveness endpoint uses it.
type PingChecker struct {
	name string
}

// NewPingChecker creates a ping checker.
func NewPingChecker(name string) *PingChecker {
	return &PingChecker{name: name}
}

// Check reports healthy unconditionally.
func (c *PingChecker) Check(_ context.Context) CheckResult {
	return CheckResult{
		Name:      c.name,
		Status:    StatusHealthy,
		Message:   "service is alive",
		Timestamp: time.Now(),
	}
}

// Name returns the check's name.
func (c *PingChecker) Name() string {
	return c.name
}
