package requestcache

import (
	"strings"
	"sync"
	"time"
)

type entry[T any] struct {
	value      T
	insertedAt time.Time
}

// Cache is a bounded in-process memo for expensive computations, with
// TTL expiry, oldest-inserted eviction and prefix invalidation. The
// lock is never held while a value is being computed; two concurrent
// misses for the same key may both compute, which is accepted bounded
// duplicate work - last writer wins and the state stays consistent.
type Cache[T any] struct {
	mutex   sync.Mutex
	maxSize int
	ttl     time.Duration

	entries map[string]entry[T]
	order   []string // insertion order, oldest first; pruned alongside entries

	now func() time.Time
}

func New[T any](maxSize int, ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		maxSize: maxSize,
		ttl:     ttl,
		entries: map[string]entry[T]{},
		now:     time.Now,
	}
}

func (c *Cache[T]) Get(key string) (T, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.getLocked(key)
}

func (c *Cache[T]) getLocked(key string) (T, bool) {
	var zero T

	cached, ok := c.entries[key]
	if !ok {
		return zero, false
	}

	if c.now().Sub(cached.insertedAt) > c.ttl {
		delete(c.entries, key)
		c.dropFromOrder(key)
		return zero, false
	}

	return cached.value, true
}

func (c *Cache[T]) Set(key string, value T) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.setLocked(key, value)
}

func (c *Cache[T]) setLocked(key string, value T) {
	if _, exists := c.entries[key]; !exists {
		// Evict oldest-inserted entries to stay within bounds.
		for len(c.entries) >= c.maxSize && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}

		c.order = append(c.order, key)
	}

	c.entries[key] = entry[T]{value: value, insertedAt: c.now()}
}

// GetOrCompute returns the cached value for key, or runs compute and
// caches its result. compute runs outside the lock; errors are
// returned uncached.
func (c *Cache[T]) GetOrCompute(key string, compute func() (T, error)) (T, error) {
	c.mutex.Lock()
	if value, ok := c.getLocked(key); ok {
		c.mutex.Unlock()
		return value, nil
	}
	c.mutex.Unlock()

	value, err := compute()
	if err != nil {
		return value, err
	}

	c.mutex.Lock()
	c.setLocked(key, value)
	c.mutex.Unlock()

	return value, nil
}

// InvalidateMatching removes every entry whose key starts with prefix.
func (c *Cache[T]) InvalidateMatching(prefix string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}

	// Compact the order slice in one pass so repeated invalidations do
	// not leave it growing with dead keys.
	kept := c.order[:0]
	for _, key := range c.order {
		if _, ok := c.entries[key]; ok {
			kept = append(kept, key)
		}
	}
	c.order = kept
}

func (c *Cache[T]) dropFromOrder(key string) {
	for i, candidate := range c.order {
		if candidate == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// Invalidate drops everything.
func (c *Cache[T]) Invalidate() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = map[string]entry[T]{}
	c.order = nil
}

func (c *Cache[T]) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return len(c.entries)
}
