// Package metrics holds the Prometheus instruments shared by the index,
// resolver, evaluator and HTTP server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Index metrics
	IndexBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cook_index_build_duration_seconds",
			Help:    "Duration of full recipe index builds in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
	)
	IndexEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cook_index_entries",
			Help: "Number of recipe files in the current index snapshot",
		},
	)
	IndexWarnings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cook_index_warnings",
			Help: "Number of skipped subtrees in the current index snapshot",
		},
	)
	IndexRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cook_index_refreshes_total",
			Help: "Total number of index refreshes by outcome",
		},
		[]string{"outcome"},
	)

	// Resolver metrics
	Resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cook_resolutions_total",
			Help: "Total number of recipe resolutions by result kind",
		},
		[]string{"kind"},
	)

	// Report metrics
	ReportRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cook_report_runs_total",
			Help: "Total number of report evaluations by outcome",
		},
		[]string{"outcome"},
	)
	ReportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cook_report_duration_seconds",
			Help:    "Duration of report evaluations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cook_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cook_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
