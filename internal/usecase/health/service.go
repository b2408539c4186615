package health

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hadithsearch/internal/logger"
)

// Status represents the aggregated readiness status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates at least one failing component.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing check.
	CheckError CheckResult = "error"
)

// Component names used in readiness reports.
const (
	ComponentStore     = "store"
	ComponentEmbedding = "embedding"
	ComponentReranker  = "reranker"
)

// Report aggregates check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates readiness checks. Liveness needs no service: the
// process answering at all is the signal.
type Service struct {
	names    []string
	checkers map[string]Checker
}

// New creates a Service. Nil checkers are skipped.
func New(checkers map[string]Checker) *Service {
	s := &Service{checkers: make(map[string]Checker, len(checkers))}
	for name, c := range checkers {
		if c == nil {
			continue
		}
		s.names = append(s.names, name)
		s.checkers[name] = c
	}
	return s
}

// Check runs every registered check.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.checkers))
	status := Healthy

	for _, name := range s.names {
		if err := s.checkers[name].HealthCheck(ctx); err != nil {
			logger.FromContext(ctx).Warn("readiness check failed",
				zap.String("component", name), zap.Error(err))
			checks[name] = CheckError
			status = Degraded
			continue
		}
		checks[name] = CheckOK
	}

	return Report{Status: status, Checks: checks}
}
