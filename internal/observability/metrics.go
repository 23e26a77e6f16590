// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	DatasetLoadsTotal *prometheus.CounterVec
	FilesSkippedTotal prometheus.Counter
	TradesLoaded      prometheus.Gauge
	CacheLookupsTotal *prometheus.CounterVec

	// Analytics metrics
	MetricsComputeDuration *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequestDuration *prometheus.HistogramVec

	// Export metrics
	ExportsTotal *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "backtest_analytics"
	}

	return &Metrics{
		DatasetLoadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "dataset_loads_total",
			Help:      "Total number of dataset load attempts by status",
		}, []string{"status"}),
		FilesSkippedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "files_skipped_total",
			Help:      "Total number of source files skipped with warnings",
		}),
		TradesLoaded: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "trades_loaded",
			Help:      "Number of trades in the most recently built dataset",
		}),
		CacheLookupsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "cache_lookups_total",
			Help:      "Total number of dataset cache lookups by outcome",
		}, []string{"outcome"}),

		MetricsComputeDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "compute_duration_seconds",
			Help:      "Metrics computation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),

		ExportsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "exports_total",
			Help:      "Total number of store exports by sink and status",
		}, []string{"sink", "status"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordDatasetLoad increments the load counter for the given status.
func RecordDatasetLoad(status string) {
	DefaultMetrics.DatasetLoadsTotal.WithLabelValues(status).Inc()
}

// RecordLoadOutcome records the size of a successful load.
func RecordLoadOutcome(trades, skippedFiles int) {
	DefaultMetrics.TradesLoaded.Set(float64(trades))
	DefaultMetrics.FilesSkippedTotal.Add(float64(skippedFiles))
}

// RecordCacheLookup records a dataset cache hit or miss.
func RecordCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	DefaultMetrics.CacheLookupsTotal.WithLabelValues(outcome).Inc()
}

// RecordComputeDuration records a metrics computation duration.
func RecordComputeDuration(operation string, seconds float64) {
	DefaultMetrics.MetricsComputeDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordHTTPRequest records an HTTP request duration.
func RecordHTTPRequest(endpoint string, seconds float64) {
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(endpoint).Observe(seconds)
}

// RecordExport records a store export attempt.
func RecordExport(sink, status string) {
	DefaultMetrics.ExportsTotal.WithLabelValues(sink, status).Inc()
}
