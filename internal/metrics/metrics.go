// Package metrics provides the centralized Prometheus registry for the
// result sharing service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ResultsSharedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "quant_share",
		Name:      "results_shared_total",
		Help:      "Total number of shared results accepted",
	})
	ShareRejectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "quant_share",
		Name:      "share_rejections_total",
		Help:      "Total number of submissions rejected by validation",
	})
	ListQueriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "quant_share",
		Name:      "list_queries_total",
		Help:      "Total number of list queries served",
	})
	ArchiveExportsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "quant_share",
		Name:      "archive_exports_total",
		Help:      "Total number of results exported to the archive",
	})
	ArchiveSweepDeletionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "quant_share",
		Name:      "archive_sweep_deletions_total",
		Help:      "Total number of archive files removed by retention sweeps",
	})
)

// Gauge metrics
var (
	StoredResults = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "quant_share",
		Name:      "stored_results",
		Help:      "Number of results currently held by the store",
	})
)

// Histogram metrics
var (
	ShareDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "quant_share",
		Name:      "share_duration_seconds",
		Help:      "Duration of share operations in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	ListDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "quant_share",
		Name:      "list_duration_seconds",
		Help:      "Duration of list query evaluations in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(ResultsSharedTotal)
		registry.MustRegister(ShareRejectionsTotal)
		registry.MustRegister(ListQueriesTotal)
		registry.MustRegister(ArchiveExportsTotal)
		registry.MustRegister(ArchiveSweepDeletionsTotal)

		// Register gauge metrics
		registry.MustRegister(StoredResults)

		// Register histogram metrics
		registry.MustRegister(ShareDuration)
		registry.MustRegister(ListDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// UpdateStoredResults updates the stored results gauge.
func UpdateStoredResults(count float64) {
	StoredResults.Set(count)
}

// RecordArchiveExport records a completed archive export.
func RecordArchiveExport() {
	ArchiveExportsTotal.Inc()
}

// RecordArchiveSweep records files removed by one retention sweep.
func RecordArchiveSweep(deleted int) {
	ArchiveSweepDeletionsTotal.Add(float64(deleted))
}
