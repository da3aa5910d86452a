package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks rate lookups served from the cache
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rates_proxy_cache_hits_total",
			Help: "Total number of rate lookups served from cache",
		},
	)

	// CacheMisses tracks rate lookups not found in the cache
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rates_proxy_cache_misses_total",
			Help: "Total number of rate lookups not found in cache",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rates_proxy_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "incr", "ping"
	)
)
