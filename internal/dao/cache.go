package dao

import (
	"sync"
	"time"
)

// DefaultCacheTTL is the default time-to-live for cached lookup lists.
const DefaultCacheTTL = 30 * time.Second

type cacheEntry[T any] struct {
	value     DataResult[T]
	timestamp time.Time
}

// ResourceCache provides TTL based caching of query results.
type ResourceCache[T any] struct {
	data map[string]cacheEntry[T]
	ttl  time.Duration
	now  func() time.Time
	mx   sync.RWMutex
}

// NewResourceCache creates a new ResourceCache with the specified TTL.
func NewResourceCache[T any](ttl time.Duration) *ResourceCache[T] {
	return &ResourceCache[T]{
		data: make(map[string]cacheEntry[T]),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get retrieves a cached result. It returns false if the key is missing or expired.
func (c *ResourceCache[T]) Get(key string) (DataResult[T], bool) {
	c.mx.RLock()
	defer c.mx.RUnlock()

	entry, ok := c.data[key]
	if !ok || c.now().Sub(entry.timestamp) > c.ttl {
		return DataResult[T]{}, false
	}

	return entry.value, true
}

// Set stores a result under the given key.
func (c *ResourceCache[T]) Set(key string, v DataResult[T]) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.data[key] = cacheEntry[T]{
		value:     v,
		timestamp: c.now(),
	}
}

// Clear drops every entry.
func (c *ResourceCache[T]) Clear() {
	c.mx.Lock()
	defer c.mx.Unlock()

	for k := range c.data {
		delete(c.data, k)
	}
}
