package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequests tracks calls made to the rate provider
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rates_proxy_upstream_requests_total",
			Help: "Total number of requests sent to the upstream rate provider",
		},
		[]string{"operation", "status"}, // status is the HTTP code or "error"
	)

	// UpstreamDuration tracks rate provider latency
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rates_proxy_upstream_request_duration_seconds",
			Help:    "Duration of requests to the upstream rate provider",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)
