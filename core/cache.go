package core

import (
	"sync"
	"sync/atomic"
	"time"
)

// Cache is a keyed store for values that are cheap to lose.
//
// Sessions are cached by token hash, profiles by user ID.
type Cache[V any] interface {
	Get(key string) (V, error)
	Set(key string, value V) error
	Delete(key string) error
	Clear() error
}

type CacheWithStats[V any] interface {
	Cache[V]
	Stats() CacheStats
}

type CacheConfig struct {
	TTL     time.Duration
	MaxSize int
}

// CacheStats are simple counters for cache behavior.
// These are intended for diagnostics and monitoring.
type CacheStats struct {
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Sets      int64         `json:"sets"`
	Deletes   int64         `json:"deletes"`
	Evictions int64         `json:"evictions"`
	Size      int           `json:"size"`
	TTL       time.Duration `json:"ttl"`
}

type InMemoryCache[V any] struct {
	cache   map[string]*cachedRecord[V]
	mu      sync.RWMutex
	ttl     time.Duration
	maxSize int

	// counters
	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	deletes   atomic.Int64
	evictions atomic.Int64
}

type cachedRecord[V any] struct {
	value    V
	cachedAt time.Time
}

var _ CacheWithStats[*Session] = (*InMemoryCache[*Session])(nil)

func NewInMemoryCache[V any](c CacheConfig) *InMemoryCache[V] {
	if c.TTL == 0 {
		c.TTL = 5 * time.Minute
	}
	if c.MaxSize == 0 {
		c.MaxSize = 500
	}

	return &InMemoryCache[V]{
		cache:   make(map[string]*cachedRecord[V]),
		ttl:     c.TTL,
		maxSize: c.MaxSize,
	}
}

func (c *InMemoryCache[V]) Get(key string) (V, error) {
	var zero V

	c.mu.RLock()
	record, exists := c.cache[key]
	c.mu.RUnlock()

	if !exists {
		c.misses.Add(1)
		return zero, ErrCacheNotFound
	}

	if time.Since(record.cachedAt) > c.ttl {
		// expired
		c.misses.Add(1)
		if err := c.Delete(key); err != nil {
			return zero, err
		}
		return zero, ErrCacheNotFound
	}

	c.hits.Add(1)
	return record.value, nil
}

func (c *InMemoryCache[V]) Set(key string, value V) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Simple eviction if full
	if _, replacing := c.cache[key]; !replacing && len(c.cache) >= c.maxSize {
		for k := range c.cache {
			delete(c.cache, k)
			c.evictions.Add(1)
			break
		}
	}

	c.cache[key] = &cachedRecord[V]{
		value:    value,
		cachedAt: time.Now(),
	}

	c.sets.Add(1)
	return nil
}

func (c *InMemoryCache[V]) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, existed := c.cache[key]; existed {
		delete(c.cache, key)
		c.deletes.Add(1)
	}
	return nil
}

func (c *InMemoryCache[V]) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*cachedRecord[V])
	return nil
}

func (c *InMemoryCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *InMemoryCache[V]) Stats() CacheStats {
	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Sets:      c.sets.Load(),
		Deletes:   c.deletes.Load(),
		Evictions: c.evictions.Load(),
		Size:      c.Len(),
		TTL:       c.ttl,
	}
}
