package health

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

// stubStore implements Checkable with a configurable failure.
type stubStore struct {
	err   error
	delay time.Duration
}

func (s *stubStore) HealthCheck(ctx context.Context) error {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.err
}

func TestRegistryCheckAllHealthy(t *testing.T) {
	registry := NewRegistry()
	registry.Register(NewPingChecker("liveness"))
	registry.Register(NewRecordStoreChecker("record_store", &stubStore{}))

	result := registry.Check(context.Background())

	if !result.IsHealthy() {
		t.Fatalf("expected healthy, got %s", result.Status)
	}
	if len(result.Checks) != 2 {
		t.Errorf("checks = %d, want 2", len(result.Checks))
	}
}

func TestRegistryCheckUnhealthyDependency(t *testing.T) {
	registry := NewRegistry()
	registry.Register(NewPingChecker("liveness"))
	registry.Register(NewRecordStoreChecker("record_store", &stubStore{err: errors.New("connection refused")}))

	result := registry.Check(context.Background())

	if result.IsHealthy() {
		t.Fatal("expected unhealthy aggregate")
	}

	var storeResult CheckResult
	for _, check := range result.Checks {
		if check.Name == "record_store" {
			storeResult = check
		}
	}
	if storeResult.Status != StatusUnhealthy {
		t.Errorf("record_store status = %s, want unhealthy", storeResult.Status)
	}
	if storeResult.Error == "" {
		t.Error("expected error message on failing check")
	}
}

func TestRegistryRegisterReplacesAndUnregisters(t *testing.T) {
	registry := NewRegistry()
	registry.Register(NewPingChecker("dup"))
	registry.Register(NewPingChecker("dup"))
	registry.Register(NewPingChecker("other"))

	names := registry.List()
	sort.Strings(names)
	if len(names) != 2 || names[0] != "dup" || names[1] != "other" {
		t.Fatalf("names = %v", names)
	}

	registry.Unregister("dup")
	if names := registry.List(); len(names) != 1 || names[0] != "other" {
		t.Errorf("after unregister: %v", names)
	}
}

func TestAdapterCheckerTimeout(t *testing.T) {
	checker := NewAdapterChecker("slow", &stubStore{delay: time.Second}, 10*time.Millisecond)

	result := checker.Check(context.Background())

	if result.Status != StatusUnhealthy {
		t.Errorf("status = %s, want unhealthy on timeout", result.Status)
	}
}

func TestEmptyRegistryIsHealthy(t *testing.T) {
	result := NewRegistry().Check(context.Background())
	if !result.IsHealthy() {
		t.Errorf("empty registry status = %s, want healthy", result.Status)
	}
}
