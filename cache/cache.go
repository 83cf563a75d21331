package cache

import (
	"sync"
	"time"
)

type item[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiration
}

func (it item[V]) expired(now time.Time) bool {
	return !it.expiresAt.IsZero() && now.After(it.expiresAt)
}

// Cache is a concurrency-safe generic map whose entries expire after a TTL.
// Expired entries are dropped lazily on read and, when a janitor interval is
// configured, in the background.
type Cache[K comparable, V any] struct {
	mu         sync.RWMutex
	items      map[K]item[V]
	defaultTTL time.Duration
	now        func() time.Time

	janitorInterval time.Duration
	stop            chan struct{}
	closeOnce       sync.Once
}

// Option configures a Cache.
type Option[K comparable, V any] func(*Cache[K, V])

// WithDefaultTTL sets the TTL used by Set. 0 keeps entries until deleted.
func WithDefaultTTL[K comparable, V any](ttl time.Duration) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.defaultTTL = ttl
	}
}

// WithJanitorInterval starts a goroutine removing expired entries every interval.
func WithJanitorInterval[K comparable, V any](interval time.Duration) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.janitorInterval = interval
	}
}

// WithClock replaces time.Now, for tests.
func WithClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(c *Cache[K, V]) {
		if now != nil {
			c.now = now
		}
	}
}

func NewCache[K comparable, V any](opts ...Option[K, V]) *Cache[K, V] {
	c := &Cache[K, V]{
		items: make(map[K]item[V]),
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.janitorInterval > 0 {
		go c.janitor()
	}
	return c
}

func (c *Cache[K, V]) janitor() {
	ticker := time.NewTicker(c.janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.DeleteExpired()
		case <-c.stop:
			return
		}
	}
}

// Set stores v under k with the default TTL.
func (c *Cache[K, V]) Set(k K, v V) {
	c.SetWithTTL(k, v, c.defaultTTL)
}

// SetWithTTL stores v under k. A negative ttl removes k instead.
func (c *Cache[K, V]) SetWithTTL(k K, v V, ttl time.Duration) {
	if ttl < 0 {
		c.Delete(k)
		return
	}
	it := item[V]{value: v}
	if ttl > 0 {
		it.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.items[k] = it
	c.mu.Unlock()
}

// Get returns the value under k if present and not expired.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	c.mu.RLock()
	it, ok := c.items[k]
	c.mu.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}
	if it.expired(c.now()) {
		c.mu.Lock()
		// re-check: a writer may have refreshed k meanwhile
		if cur, ok := c.items[k]; ok && cur.expired(c.now()) {
			delete(c.items, k)
		}
		c.mu.Unlock()
		var zero V
		return zero, false
	}
	return it.value, true
}

// GetOrLoad returns the cached value under k, or calls load and caches its
// result when it succeeds.
func (c *Cache[K, V]) GetOrLoad(k K, load func() (V, error)) (V, error) {
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.Set(k, v)
	return v, nil
}

func (c *Cache[K, V]) Delete(k K) {
	c.mu.Lock()
	delete(c.items, k)
	c.mu.Unlock()
}

// DeleteExpired drops every expired entry.
func (c *Cache[K, V]) DeleteExpired() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, it := range c.items {
		if it.expired(now) {
			delete(c.items, k)
		}
	}
}

// Clean removes all entries.
func (c *Cache[K, V]) Clean() {
	c.mu.Lock()
	c.items = make(map[K]item[V])
	c.mu.Unlock()
}

// Len counts entries, including expired ones not collected yet.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the janitor. It is safe to call more than once.
func (c *Cache[K, V]) Close() {
	c.closeOnce.Do(func() {
		close(c.stop)
	})
}
