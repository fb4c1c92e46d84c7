package health

import "context"

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
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	cache    Pinger
	roster   Pinger
	geocoder GeocoderChecker
}

// New creates a Service. geocoder can be nil.
func New(cache, roster Pinger, geocoder GeocoderChecker) *Service {
	return &Service{cache: cache, roster: roster, geocoder: geocoder}
}

// Check runs health checks against all components. A failing cache or
// geocoder only degrades distance ranking; every check failing is
// reported as unhealthy.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 3)

	checks["cache"] = result(s.cache.Ping(ctx))
	checks["roster"] = result(s.roster.Ping(ctx))
	if s.geocoder != nil {
		checks["geocoder"] = result(s.geocoder.HealthCheck(ctx))
	}

	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}

	status := Healthy
	switch {
	case failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
