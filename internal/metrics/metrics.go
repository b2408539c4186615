// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hadithsearch"

var registerOnce sync.Once

// Register adds every collector to reg. Safe to call more than once; only the
// first call registers.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			SearchRequestsTotal,
			SearchStageDuration,
			ProviderErrorsTotal,
			ResultCacheLookupsTotal,
			ResultCacheEvictionsTotal,
			ResultCacheEntries,
			EmbeddingRequestsTotal,
			EmbeddingRequestDuration,
			EmbeddingTokensTotal,
			EmbeddingErrorsTotal,
			EmbeddingCacheTotal,
			RerankRequestDuration,
		)
	})
}
