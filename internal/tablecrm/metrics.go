package tablecrm

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tablecrm_requests_total",
		Help: "TableCRM API requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tablecrm_request_duration_seconds",
		Help:    "TableCRM API request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)

func observe(endpoint, method, status string, started time.Time) {
	requestsTotal.WithLabelValues(endpoint, method, status).Inc()
	requestDuration.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
}
