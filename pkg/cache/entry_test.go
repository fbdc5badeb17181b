package cache

import (
	"testing"
	"time"
)

func TestCacheEntry_Expiry(t *testing.T) {
	tests := []struct {
		name        string
		expires     time.Time
		wantExpired bool
		wantMinTTL  time.Duration
		wantMaxTTL  time.Duration
	}{
		{
			name:        "fresh",
			expires:     time.Now().Add(time.Hour),
			wantExpired: false,
			wantMinTTL:  59 * time.Minute,
			wantMaxTTL:  61 * time.Minute,
		},
		{
			name:        "stale",
			expires:     time.Now().Add(-time.Second),
			wantExpired: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &CacheEntry{Expires: tt.expires}
			if got := entry.IsExpired(); got != tt.wantExpired {
				t.Errorf("IsExpired() = %v, want %v", got, tt.wantExpired)
			}
			ttl := entry.TTL()
			if ttl < tt.wantMinTTL || ttl > tt.wantMaxTTL {
				t.Errorf("TTL() = %v, want between %v and %v", ttl, tt.wantMinTTL, tt.wantMaxTTL)
			}
		})
	}
}

func TestCacheEntry_RemainingAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := &CacheEntry{Expires: now.Add(90 * time.Second)}

	if got := entry.RemainingAt(now); got != 90*time.Second {
		t.Errorf("RemainingAt(now) = %v, want 90s", got)
	}
	if got := entry.RemainingAt(now.Add(time.Hour)); got != 0 {
		t.Errorf("RemainingAt after expiry = %v, want 0", got)
	}
}

func TestCacheEntry_Revalidatable(t *testing.T) {
	tests := []struct {
		name  string
		entry CacheEntry
		want  bool
	}{
		{name: "no validators", entry: CacheEntry{}, want: false},
		{name: "etag", entry: CacheEntry{ETag: `"v1"`}, want: true},
		{name: "last-modified", entry: CacheEntry{LastModified: time.Now()}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.Revalidatable(); got != tt.want {
				t.Errorf("Revalidatable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCacheEntry_RefreshedLeavesOriginal(t *testing.T) {
	old := time.Now().Add(-time.Minute)
	entry := &CacheEntry{Data: []byte(`[]`), ETag: `"v1"`, Expires: old}

	next := time.Now().Add(time.Hour)
	fresh := entry.Refreshed(next)

	if !entry.Expires.Equal(old) {
		t.Errorf("original Expires changed to %v", entry.Expires)
	}
	if !fresh.Expires.Equal(next) || fresh.ETag != `"v1"` || string(fresh.Data) != "[]" {
		t.Errorf("Refreshed() = %+v", fresh)
	}
	if fresh.IsExpired() {
		t.Error("refreshed entry should be fresh")
	}
}
