// Package metrics provides Prometheus metrics for the focusframe service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled HTTP requests.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "focusframe_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTPRequestDuration tracks request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "focusframe_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// ItemMutations counts coordinator mutations by operation and outcome.
	ItemMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "focusframe_item_mutations_total",
			Help: "Total number of item mutations",
		},
		[]string{"operation", "result"},
	)

	// AdvisoryRequests counts recategorization checks by outcome.
	AdvisoryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "focusframe_advisory_requests_total",
			Help: "Total number of recategorization advisory calls",
		},
		[]string{"result"},
	)

	// AdvisoryDuration tracks the latency of the reasoning service.
	AdvisoryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "focusframe_advisory_duration_seconds",
			Help:    "Duration of recategorization advisory calls",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	// Transcriptions counts voice memo transcriptions by outcome.
	Transcriptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "focusframe_transcriptions_total",
			Help: "Total number of voice memo transcriptions",
		},
		[]string{"result"},
	)

	// ActiveSubscriptions tracks open live item subscriptions.
	ActiveSubscriptions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "focusframe_active_subscriptions",
			Help: "Number of live item subscriptions",
		},
		[]string{"transport"},
	)

	// SnapshotsDelivered counts snapshots pushed to clients.
	SnapshotsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "focusframe_snapshots_delivered_total",
			Help: "Total number of item snapshots pushed to clients",
		},
		[]string{"transport"},
	)

	// ChangeSignals counts published change signals per feed.
	ChangeSignals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "focusframe_change_signals_total",
			Help: "Total number of item change signals published",
		},
		[]string{"feed"},
	)

	// ChangeSignalErrors counts failed publishes.
	ChangeSignalErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "focusframe_change_signal_errors_total",
			Help: "Total number of change signals that failed to publish",
		},
	)
)

// RecordRequest records one HTTP request.
func RecordRequest(method, endpoint, status string, seconds float64) {
	HTTPRequests.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(seconds)
}

// RecordMutation records one coordinator mutation.
func RecordMutation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	ItemMutations.WithLabelValues(operation, result).Inc()
}
