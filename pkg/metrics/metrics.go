// Package metrics exposes the Prometheus registry shared by the client,
// cache, rate limiter and front ends. Metrics themselves are declared with
// promauto in the packages that record them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer all procview metrics are created on.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the matching gatherer served by Handler.
var Gatherer = prometheus.DefaultGatherer

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - procapi_requests_total{endpoint, status} (Counter)
//   - procapi_request_duration_seconds{endpoint} (Histogram)
//   - procapi_errors_total{class} (Counter): client, server, rate_limit, network
//   - procapi_retries_total{error_class} (Counter)
//   - procapi_retry_backoff_seconds{error_class} (Histogram)
//   - procapi_retry_exhausted_total{error_class} (Counter)
//
// Cache Metrics (pkg/cache):
//   - procapi_cache_hits_total{layer="redis"}, procapi_cache_misses_total
//   - procapi_cache_size_bytes{layer="redis"} (Gauge)
//   - procapi_304_responses_total, procapi_conditional_requests_total
//   - procapi_cache_errors_total{operation}
//
// Rate Limit Metrics (pkg/ratelimit):
//   - procapi_rate_limit_remaining (Gauge)
//   - procapi_rate_limit_blocks_total, procapi_rate_limit_throttles_total
//
// View Metrics (pkg/procview, internal/web):
//   - procview_fetch_cycles_total{outcome} (Counter): ok, failed, stale, skipped
//   - procview_page_renders_total{route, status} (Counter)
//
// Example Prometheus Queries:
//
//   # Cache hit rate
//   sum(rate(procapi_cache_hits_total[5m])) /
//   (sum(rate(procapi_cache_hits_total[5m])) + sum(rate(procapi_cache_misses_total[5m])))
//
//   # Failed fetch cycles
//   rate(procview_fetch_cycles_total{outcome="failed"}[5m])
