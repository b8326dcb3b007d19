package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

// --- Mocks ---

type mockChecker struct {
	err error
}

func (m *mockChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(map[string]Checker{
		"firestore": &mockChecker{},
		"redis":     &mockChecker{},
	}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["firestore"] != CheckOK || r.Checks["redis"] != CheckOK {
		t.Errorf("unexpected checks: %v", r.Checks)
	}
}

func TestCheck_OneFails(t *testing.T) {
	svc := New(map[string]Checker{
		"firestore": &mockChecker{},
		"redis":     &mockChecker{err: errors.New("conn refused")},
	}, nil)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["redis"] != CheckError {
		t.Errorf("expected redis %q, got %q", CheckError, r.Checks["redis"])
	}
}

func TestCheck_AllFail(t *testing.T) {
	svc := New(map[string]Checker{
		"firestore": CheckerFunc(func(context.Context) error { return errors.New("timeout") }),
	}, nil)
	if r := svc.Check(context.Background()); r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

func TestCheck_NoCheckers(t *testing.T) {
	r := New(nil, nil).Check(context.Background())
	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if len(r.Checks) != 0 {
		t.Errorf("expected no checks, got %v", r.Checks)
	}
}

func TestCheck_ConfiguredFlags(t *testing.T) {
	svc := New(nil, map[string]bool{"identity": true, "email": false})
	fixed := time.Date(2026, 5, 27, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	r := svc.Check(context.Background())
	if !r.Configured["identity"] || r.Configured["email"] {
		t.Errorf("unexpected flags: %v", r.Configured)
	}
	if !r.Timestamp.Equal(fixed) {
		t.Errorf("timestamp = %v", r.Timestamp)
	}
}
