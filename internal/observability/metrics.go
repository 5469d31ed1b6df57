package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "commute_front", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "commute_front",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "commute_front", Name: "backend_requests_total", Help: "Outbound calls to the platform API"},
		[]string{"method", "resource", "status"},
	)
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "commute_front",
			Name:      "backend_request_duration_seconds",
			Help:      "Outbound platform API call latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "resource"},
	)

	AdvisoryFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "commute_front", Name: "advisory_failures_total", Help: "Failed price advisory lookups"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{Namespace: "commute_front", Name: "sessions_active", Help: "Signed-in sessions currently stored"},
	)
	TabsConnected = promauto.NewGauge(
		prometheus.GaugeOpts{Namespace: "commute_front", Name: "tabs_connected", Help: "Browser tabs holding a session event socket"},
	)
)
