// Package memcache is an in-process extraction result cache used when Redis
// is not configured. Entries expire lazily on read.
package memcache

import (
	"context"
	"sync"
	"time"
)

const defaultMaxEntries = 1024

// Cache is a TTL map safe for concurrent use. It favors clarity over
// performance; production deployments should point REDIS_URL at a real
// cache instead.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	maxEntries int
	now        func() time.Time
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

func New() *Cache {
	return &Cache{
		entries:    make(map[string]entry),
		maxEntries: defaultMaxEntries,
		now:        time.Now,
	}
}

// Get returns the cached value, or (nil, false, nil) when the key is absent
// or expired.
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores a value with the given TTL. When the cache is full, expired
// entries are swept first and an arbitrary entry is evicted if needed.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxEntries {
		c.sweep()
		if len(c.entries) >= c.maxEntries {
			for k := range c.entries {
				delete(c.entries, k)
				break
			}
		}
	}
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
	return nil
}

// sweep removes expired entries. Caller must hold the lock.
func (c *Cache) sweep() {
	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}
