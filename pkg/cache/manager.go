package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss is returned when no fresh entry exists for a key.
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry is returned when a stored value cannot be decoded.
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// rateLimitPrefix holds the shared rate-limit state, which lives under
// KeyPrefix but is not cached data.
const rateLimitPrefix = KeyPrefix + ":rate_limit:"

// Manager reads and writes cache entries in Redis.
type Manager struct {
	redis *redis.Client
}

// NewManager returns a Manager on rdb. It panics on a nil client; callers
// without Redis run uncached instead.
func NewManager(rdb *redis.Client) *Manager {
	if rdb == nil {
		panic("cache: nil redis client")
	}
	return &Manager{redis: rdb}
}

// Get returns the fresh entry stored under key. Stale or absent entries
// yield ErrCacheMiss; a stale one is removed on the way.
func (m *Manager) Get(ctx context.Context, key CacheKey) (*CacheEntry, error) {
	raw, err := m.redis.Get(ctx, key.String()).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	case err != nil:
		return nil, m.fail("get", fmt.Errorf("redis get: %w", err))
	}

	entry, err := decodeEntry(raw)
	if err != nil {
		return nil, m.fail("get", err)
	}
	if entry.IsExpired() {
		_ = m.Delete(ctx, key)
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues("redis").Inc()
	return entry, nil
}

// Set writes entry under key with its remaining freshness as the Redis
// expiry. An entry that is already stale is skipped without error.
func (m *Manager) Set(ctx context.Context, key CacheKey, entry *CacheEntry) error {
	if entry == nil {
		return errors.New("cache: nil entry")
	}
	ttl := entry.TTL()
	if ttl == 0 {
		return nil
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return m.fail("set", fmt.Errorf("encode entry: %w", err))
	}
	if err := m.redis.Set(ctx, key.String(), raw, ttl).Err(); err != nil {
		return m.fail("set", fmt.Errorf("redis set: %w", err))
	}
	CacheSize.WithLabelValues("redis").Add(float64(len(raw)))
	return nil
}

// Delete removes the entry under key; a missing key is not an error.
func (m *Manager) Delete(ctx context.Context, key CacheKey) error {
	if err := m.redis.Del(ctx, key.String()).Err(); err != nil {
		return m.fail("delete", fmt.Errorf("redis del: %w", err))
	}
	return nil
}

// UpdateTTL extends a still-fresh entry to expires after the API answered
// 304 Not Modified. It returns ErrCacheMiss when the entry is gone.
func (m *Manager) UpdateTTL(ctx context.Context, key CacheKey, expires time.Time) error {
	entry, err := m.Get(ctx, key)
	if err != nil {
		return err
	}
	return m.Set(ctx, key, entry.Refreshed(expires))
}

// Purge deletes every cached response under KeyPrefix and returns how
// many keys were removed. Rate-limit state is left in place.
func (m *Manager) Purge(ctx context.Context) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := m.redis.Scan(ctx, cursor, KeyPrefix+":*", 200).Result()
		if err != nil {
			return removed, m.fail("purge", fmt.Errorf("redis scan: %w", err))
		}
		if keys = cachedKeys(keys); len(keys) > 0 {
			n, err := m.redis.Del(ctx, keys...).Result()
			if err != nil {
				return removed, m.fail("purge", fmt.Errorf("redis del: %w", err))
			}
			removed += int(n)
		}
		if cursor = next; cursor == 0 {
			return removed, nil
		}
	}
}

func (m *Manager) fail(op string, err error) error {
	CacheErrors.WithLabelValues(op).Inc()
	return err
}

func decodeEntry(raw []byte) (*CacheEntry, error) {
	var entry CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return &entry, nil
}

// cachedKeys filters rate-limit keys out of a scan batch in place.
func cachedKeys(keys []string) []string {
	out := keys[:0]
	for _, k := range keys {
		if !strings.HasPrefix(k, rateLimitPrefix) {
			out = append(out, k)
		}
	}
	return out
}
