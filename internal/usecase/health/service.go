package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status     Status
	Checks     map[string]CheckResult
	Configured map[string]bool
	Timestamp  time.Time
}

// Service coordinates health checks.
type Service struct {
	checkers   map[string]Checker
	configured map[string]bool
	now        func() time.Time
}

// New creates a Service. configured lists optional backends and whether each
// was set up at startup.
func New(checkers map[string]Checker, configured map[string]bool) *Service {
	return &Service{checkers: checkers, configured: configured, now: time.Now}
}

// Check runs every checker.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.checkers))
	failed := 0
	for name, c := range s.checkers {
		if err := c.HealthCheck(ctx); err != nil {
			checks[name] = CheckError
			failed++
		} else {
			checks[name] = CheckOK
		}
	}

	status := Healthy
	switch {
	case failed > 0 && failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}

	configured := make(map[string]bool, len(s.configured))
	for k, v := range s.configured {
		configured[k] = v
	}
	return Report{Status: status, Checks: checks, Configured: configured, Timestamp: s.now().UTC()}
}
