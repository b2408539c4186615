package hadithsearch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/hadithsearch/internal/domain"
)

// Operation labels.
const (
	opSearch     = "search"
	opGet        = "get"
	opClearCache = "clear_cache"
)

// Status labels. A cache hit counts as its own status so hit rate can be
// read off operations_total without the server-side cache metrics.
const (
	statusOK       = "ok"
	statusCached   = "cached"
	statusInvalid  = "invalid"
	statusNotFound = "not_found"
	statusProvider = "provider_error"
	statusCanceled = "canceled"
	statusError    = "error"
)

type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	failures   *prometheus.CounterVec
	results    prometheus.Histogram
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hadithsearch",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "SDK calls by operation and outcome.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hadithsearch",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK call duration in seconds.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hadithsearch",
			Subsystem: "sdk",
			Name:      "provider_failures_total",
			Help:      "Searches aborted by a failing keyword, vector, embedding or reranker provider.",
		}, []string{"provider"}),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hadithsearch",
			Subsystem: "sdk",
			Name:      "search_results",
			Help:      "Hadiths returned per successful search.",
			Buckets:   []float64{0, 1, 5, 10, 20, 50},
		}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.failures); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.results); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("hadithsearch: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("hadithsearch: register metric: %w", err)
	}
	return nil
}

// statusOf maps an operation error onto a status label.
func statusOf(err error) string {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, ErrValidation):
		return statusInvalid
	case errors.Is(err, ErrDocumentNotFound):
		return statusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return statusCanceled
	case errors.Is(err, ErrProvider):
		return statusProvider
	}
	return statusError
}

func providerOf(err error) string {
	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return pe.Provider
	}
	return ""
}

type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

// observeSearch records a Search call, including cache hits and result count.
func (o *observer) observeSearch(start time.Time, resp *SearchResponse, err error) {
	if o == nil {
		return
	}
	status := statusOf(err)
	if err == nil && resp.Cached {
		status = statusCached
	}
	attrs := []any{"cached", err == nil && resp.Cached}
	if err == nil {
		attrs = append(attrs, "results", len(resp.Results))
		if o.metrics != nil {
			o.metrics.results.Observe(float64(len(resp.Results)))
		}
	}
	o.record(opSearch, status, start, err, attrs...)
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	o.record(op, statusOf(err), start, err)
}

func (o *observer) record(op, status string, start time.Time, err error, attrs ...any) {
	dur := time.Since(start)
	provider := providerOf(err)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
		if provider != "" && status == statusProvider {
			o.metrics.failures.WithLabelValues(provider).Inc()
		}
	}

	if o.logger == nil {
		return
	}
	attrs = append(attrs, "op", op, "status", status, "duration", dur)
	if provider != "" {
		attrs = append(attrs, "provider", provider)
	}
	switch status {
	case statusOK, statusCached:
		o.logger.Debug("operation completed", attrs...)
	case statusInvalid, statusNotFound, statusCanceled:
		o.logger.Debug("operation rejected", append(attrs, "error", err)...)
	default:
		o.logger.Warn("operation failed", append(attrs, "error", err)...)
	}
}
