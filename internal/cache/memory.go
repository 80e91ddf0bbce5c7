// Package cache provides the time-expiring response cache used by the
// news read path. Entries hold the exact marshaled response bytes, so a
// cache hit returns output byte-identical to the computation it stored.
// Invalidation is coarse: any mutation clears the whole cache.
package cache

import (
	"context"
	"sync"
	"time"
)

// entry is a cached value with its expiration instant
type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is the process-local cache backend. Key count is unbounded
// but bounded in practice by the page/limit/search combinations actually
// requested; DeleteExpired is run on a schedule as the eviction fallback.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
}

// NewMemoryCache creates an in-memory cache whose entries expire ttl after insertion
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// Get returns the cached value for key, or false if absent or expired
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, expiring ttl from now
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// InvalidateAll clears the whole cache
func (c *MemoryCache) InvalidateAll(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
}

// DeleteExpired removes entries past their expiry and returns how many
// were dropped. Expired entries are already invisible to Get; this only
// reclaims memory.
func (c *MemoryCache) DeleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the current number of entries, expired or not
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
