// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "love_http_requests_total",
			Help: "Total HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "love_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	MoodCheckIns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "love_mood_checkins_total",
			Help: "Mood events recorded or edited, by mood and action",
		},
		[]string{"mood", "action"}, // action: "create", "edit"
	)

	PairingOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "love_pairing_operations_total",
			Help: "Couple pairing operations by operation and result",
		},
		[]string{"op", "result"},
	)

	StoreReconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "love_store_reconnects_total",
			Help: "Times the database pool was dropped and rebuilt after a failed health check",
		},
	)

	MediaUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "love_media_uploads_total",
			Help: "Media uploads by result",
		},
		[]string{"result"},
	)

	MediaBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "love_media_breaker_state",
			Help: "Media upload circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// RecordPairing counts one pairing operation
func RecordPairing(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	PairingOps.WithLabelValues(op, result).Inc()
}
