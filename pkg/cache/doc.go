// Package cache provides a Redis-backed response cache for the compliance
// API client.
//
// The API's own cache layer answers list and count queries with an ETag
// and a Cache-Control max-age. The manager stores successful GET
// responses for that long and lets the client revalidate with
// If-None-Match once an entry is cached:
//
//   - TTL from Cache-Control max-age, then Expires, then DefaultTTL
//   - no-store / no-cache responses are never written
//   - ETag and Last-Modified conditional requests
//   - keys scoped by endpoint, sorted query and caller
//   - Prometheus metrics for hits, misses and revalidations
//
// # Basic Usage
//
//	manager := cache.NewManager(redisClient)
//
//	key := cache.CacheKey{
//		Endpoint:    "/proc/list",
//		QueryParams: url.Values{"phase": {"Design"}, "role": {"Other"}},
//		Principal:   cache.PrincipalFromToken(token),
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from the API
//	}
//
// # Metrics
//
//   - procapi_cache_hits_total{layer="redis"}
//   - procapi_cache_misses_total
//   - procapi_cache_size_bytes{layer="redis"}
//   - procapi_304_responses_total
//   - procapi_conditional_requests_total
//   - procapi_cache_errors_total{operation}
package cache
