// Package cache provides an in-process TTL response cache keyed by request
// fingerprints. It is a time-bounded optimization, not a source of truth:
// there is no persistence and no cross-process sharing.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// TTLs per lookup class. Quotes go stale quickly; search results are nearly
// static. Historical lookups are not cached at all: every call carries an
// explicit date range, so keys would be unbounded and rarely collide.
const (
	TTLQuote  = 5 * time.Minute
	TTLSearch = 30 * time.Minute
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache is a TTL map with lazy expiry on read and an optional background
// sweep. An expired entry is never returned.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Key builds a deterministic fingerprint from an operation name and its
// normalized argument parts. Callers sort order-independent parts first so
// logically identical requests collide.
func Key(operation string, parts ...string) string {
	if len(parts) == 0 {
		return operation
	}
	return operation + ":" + strings.Join(parts, ":")
}

// Get returns the value under key, or ok=false if absent or expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a fresher Set may have replaced it.
		if cur, ok := c.entries[key]; ok && time.Now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for ttl. Entries are replaced whole, never
// mutated in place.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// StartJanitor runs a background sweep every interval until ctx is done.
// The sweep is optional; lazy expiry on Get already guarantees correctness.
func (c *Cache) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep(time.Now())
			}
		}
	}()
}

func (c *Cache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
