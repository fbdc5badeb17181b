package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// KeyPrefix namespaces every cache key written by this package.
const KeyPrefix = "procapi"

// CacheKey represents a unique identifier for a cached API response.
type CacheKey struct {
	// Endpoint is the API path (e.g., "/proc/list")
	Endpoint string

	// QueryParams are the query parameters (e.g., {"phase": "Design"})
	QueryParams url.Values

	// Principal scopes the entry to one caller; empty for anonymous calls.
	// Use PrincipalFromToken rather than the raw token.
	Principal string
}

// String generates a deterministic cache key string. The query is
// encoded with url.Values.Encode, which sorts by key and escapes
// separators, so distinct filter sets never share a key.
// Format: procapi:endpoint:encoded-query:user=principal
//
// Example:
//
//	procapi:proc/count:phase=Design&role=Other:user=4f2a9c01d3e5b7a8
func (k CacheKey) String() string {
	parts := []string{KeyPrefix}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	if len(k.QueryParams) > 0 {
		parts = append(parts, k.QueryParams.Encode())
	}

	if k.Principal != "" {
		parts = append(parts, "user="+k.Principal)
	}

	return strings.Join(parts, ":")
}

// PrincipalFromToken derives a short, non-reversible principal from a
// bearer token. Returns "" for an empty token.
func PrincipalFromToken(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}
