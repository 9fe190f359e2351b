package checkout

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_gateway_requests_total",
			Help: "Total number of checkout gateway requests",
		},
		[]string{"endpoint", "status"},
	)

	gatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "checkout_gateway_request_duration_seconds",
			Help:    "Duration of checkout gateway requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

func observeRequest(endpoint, status string, elapsed time.Duration) {
	gatewayRequestsTotal.WithLabelValues(endpoint, status).Inc()
	gatewayRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}
