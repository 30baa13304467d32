package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TagOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joestock_tag_operations_total",
		Help: "Tag lifecycle operations by operation and outcome.",
	}, []string{"operation", "outcome"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joestock_http_requests_total",
		Help: "HTTP requests by method and status code.",
	}, []string{"method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "joestock_http_request_duration_seconds",
		Help:    "Time from request receipt to response.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method"})
)
