package cache

import (
	"net/http"
	"time"
)

// CacheEntry is one stored compliance API response, scoped to the
// principal in its CacheKey. Only 200 responses to GET requests are kept.
type CacheEntry struct {
	Data []byte `json:"data"`

	// ETag and LastModified are the validators sent back on revalidation.
	ETag         string    `json:"etag"`
	LastModified time.Time `json:"last_modified"`

	// Expires comes from Cache-Control max-age, then Expires, then DefaultTTL.
	Expires time.Time `json:"expires"`

	StatusCode int         `json:"status_code"`
	Headers    http.Header `json:"headers"`
	CachedAt   time.Time   `json:"cached_at"`
}

// RemainingAt is how long the entry stays fresh as seen at now, never
// negative.
func (e *CacheEntry) RemainingAt(now time.Time) time.Duration {
	return max(e.Expires.Sub(now), 0)
}

// IsExpired reports whether the entry is stale now.
func (e *CacheEntry) IsExpired() bool {
	return !time.Now().Before(e.Expires)
}

// TTL is RemainingAt(time.Now()); Manager.Set uses it as the Redis expiry.
func (e *CacheEntry) TTL() time.Duration {
	return e.RemainingAt(time.Now())
}

// Revalidatable reports whether a conditional request can be built from
// the entry.
func (e *CacheEntry) Revalidatable() bool {
	return e.ETag != "" || !e.LastModified.IsZero()
}

// Refreshed returns a copy of the entry that stays fresh until expires.
// The body and validators are shared with e.
func (e *CacheEntry) Refreshed(expires time.Time) *CacheEntry {
	out := *e
	out.Expires = expires
	return &out
}
