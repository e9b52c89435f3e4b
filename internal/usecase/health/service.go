package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates a probed index is missing or failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the database is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckMissing indicates a probed index does not exist.
	CheckMissing CheckResult = "missing"
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
	db      DBPinger
	prober  IndexProber
	indexes []string
	keyFn   func(index string) string
}

// New creates a Service. prober may be nil, in which case no index is probed.
// keyFn maps an index name to its storage key (identity when nil).
func New(db DBPinger, prober IndexProber, indexes []string, keyFn func(string) string) *Service {
	if keyFn == nil {
		keyFn = func(s string) string { return s }
	}
	return &Service{db: db, prober: prober, indexes: indexes, keyFn: keyFn}
}

// Check pings the database, then probes every configured index.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
		return Report{Status: Unhealthy, Checks: checks}
	}
	checks["database"] = CheckOK

	status := Healthy
	if s.prober != nil {
		for _, name := range s.indexes {
			key := "index:" + name
			exists, err := s.prober.IndexExists(ctx, s.keyFn(name))
			switch {
			case err != nil:
				checks[key] = CheckError
				status = Degraded
			case !exists:
				checks[key] = CheckMissing
				status = Degraded
			default:
				checks[key] = CheckOK
			}
		}
	}

	return Report{Status: status, Checks: checks}
}
