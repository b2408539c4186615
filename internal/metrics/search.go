package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search pipeline and result cache metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Completed searches by cache origin",
		},
		[]string{"cached"},
	)

	SearchStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_stage_duration_seconds",
			Help:      "Duration of each search pipeline stage",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"stage"}, // expand / retrieve / rerank
	)

	ProviderErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "Collaborator failures that aborted a search",
		},
		[]string{"provider"},
	)

	ResultCacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "result_cache_lookups_total",
			Help:      "Result cache lookups by outcome",
		},
		[]string{"result"}, // hit / miss / expired
	)

	ResultCacheEvictionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "result_cache_evictions_total",
			Help:      "Entries evicted from the result cache at capacity",
		},
	)

	ResultCacheEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "result_cache_entries",
			Help:      "Current number of result cache entries",
		},
	)
)

// Search feeds the pipeline collectors. The zero value is ready to use.
type Search struct{}

// ObserveStage records the duration of one pipeline stage.
func (Search) ObserveStage(stage string, d time.Duration) {
	SearchStageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ProviderFailed counts a collaborator failure.
func (Search) ProviderFailed(provider string) {
	ProviderErrorsTotal.WithLabelValues(provider).Inc()
}

// Served counts a completed search.
func (Search) Served(cached bool) {
	SearchRequestsTotal.WithLabelValues(strconv.FormatBool(cached)).Inc()
}

// ResultCache feeds the result cache collectors. The zero value is ready to use.
type ResultCache struct{}

// Lookup counts one Get by outcome.
func (ResultCache) Lookup(result string) {
	ResultCacheLookupsTotal.WithLabelValues(result).Inc()
}

// Evicted counts one capacity eviction.
func (ResultCache) Evicted() {
	ResultCacheEvictionsTotal.Inc()
}

// Size records the current entry count.
func (ResultCache) Size(n int) {
	ResultCacheEntries.Set(float64(n))
}
