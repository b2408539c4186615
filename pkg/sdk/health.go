package hadithsearch

import (
	"context"

	healthuc "github.com/kailas-cloud/hadithsearch/internal/usecase/health"
)

// HealthStatus represents the aggregated readiness of the pipeline.
type HealthStatus struct {
	Status string            // "ok" or "degraded"
	Checks map[string]string // store, embedding, reranker -> "ok"/"error"
}

// Health checks the document store, the embedder and the reranker.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
