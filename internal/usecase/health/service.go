package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the dataset is served but a dependency is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates no dataset can be served.
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
	Places int
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	data   DatasetProvider
	source SourcePinger
}

// New creates a Service. source can be nil for file and HTTP sources.
func New(data DatasetProvider, source SourcePinger) *Service {
	return &Service{data: data, source: source}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	report := Report{Status: Healthy, Checks: checks}

	if ds, ok := s.data.Current(); ok {
		checks["dataset"] = CheckOK
		report.Places = ds.Len()
	} else {
		checks["dataset"] = CheckError
		report.Status = Unhealthy
	}

	if s.source != nil {
		if err := s.source.Ping(ctx); err != nil {
			checks["source"] = CheckError
			if report.Status == Healthy {
				report.Status = Degraded
			}
		} else {
			checks["source"] = CheckOK
		}
	}

	return report
}
