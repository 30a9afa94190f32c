package cache

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2"
	"github.com/mbtanearby/backend-go/internal/metrics"
)

type clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// lruEntry wraps the cached data with its expiry
type lruEntry[V any] struct {
	Data      V
	ExpiresAt time.Time
}

// LRUCache is a size-bounded, thread-safe cache whose entries also expire after a TTL
type LRUCache[V any] struct {
	name   string
	lru    *lru.Cache[string, lruEntry[V]]
	ttl    time.Duration
	clock  clock
	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewLRUCache[V any](name string, size int, ttl time.Duration) (*LRUCache[V], error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("cache %s: ttl must be positive", name)
	}

	lruCache, err := lru.New[string, lruEntry[V]](size)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache %s: %w", name, err)
	}

	return &LRUCache[V]{
		name:  name,
		lru:   lruCache,
		ttl:   ttl,
		clock: systemClock{},
	}, nil
}

// Get returns the value for key when present and not expired
func (c *LRUCache[V]) Get(key string) (V, bool) {
	entry, ok := c.lru.Get(key)
	if ok && c.clock.Now().Before(entry.ExpiresAt) {
		c.hits.Add(1)
		metrics.CacheLookups.WithLabelValues(c.name, "hit").Inc()
		return entry.Data, true
	}
	if ok {
		c.lru.Remove(key)
	}

	c.misses.Add(1)
	metrics.CacheLookups.WithLabelValues(c.name, "miss").Inc()
	var zero V
	return zero, false
}

func (c *LRUCache[V]) Add(key string, value V) {
	c.lru.Add(key, lruEntry[V]{
		Data:      value,
		ExpiresAt: c.clock.Now().Add(c.ttl),
	})
}

func (c *LRUCache[V]) Len() int {
	return c.lru.Len()
}

// GetCacheStats returns statistics about cache hits and misses
func (c *LRUCache[V]) GetCacheStats() map[string]uint64 {
	return map[string]uint64{
		c.name + "_hits":   c.hits.Load(),
		c.name + "_misses": c.misses.Load(),
	}
}

// Clear removes all entries
func (c *LRUCache[V]) Clear() {
	c.lru.Purge()
}
