package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(cacheRequestsTotal, cacheErrorsTotal) }

var cacheRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "console_cache_requests_total",
		Help: "Tracks cache hits and misses for various caches.",
	},
	[]string{"cache", "result"}, // e.g., cache="config_revision", result="hit"
)

var cacheErrorsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "console_cache_errors_total",
		Help: "Cache backend failures that fell through to the database.",
	},
	[]string{"cache"},
)

func IncCacheRequest(cacheName, result string) {
	cacheRequestsTotal.WithLabelValues(norm(cacheName), norm(result)).Inc()
}

func IncCacheError(cacheName string) {
	cacheErrorsTotal.WithLabelValues(norm(cacheName)).Inc()
}
