package dashboard

import (
	"sync"
	"time"
)

// Cache is a TTL map safe for concurrent use. When maxItems is positive
// it holds at most that many entries.
type Cache[K comparable, V any] struct {
	mu       sync.RWMutex
	items    map[K]*cacheItem[V]
	ttl      time.Duration
	maxItems int
	stop     chan struct{}
	once     sync.Once
}

type cacheItem[V any] struct {
	value      V
	expiration time.Time
}

// NewCache starts a cache whose entries live for ttl. maxItems <= 0 means
// unbounded. Close stops the background sweep.
func NewCache[K comparable, V any](ttl time.Duration, maxItems int) *Cache[K, V] {
	c := &Cache[K, V]{
		items:    make(map[K]*cacheItem[V]),
		ttl:      ttl,
		maxItems: maxItems,
		stop:     make(chan struct{}),
	}
	go c.cleanup()
	return c
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists || time.Now().After(item.expiration) {
		var zero V
		return zero, false
	}
	return item.value, true
}

// Set stores value under key. A full cache first drops expired entries,
// then the one closest to expiry.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if _, exists := c.items[key]; !exists && c.maxItems > 0 && len(c.items) >= c.maxItems {
		c.evictLocked(now)
	}
	c.items[key] = &cacheItem[V]{
		value:      value,
		expiration: now.Add(c.ttl),
	}
}

func (c *Cache[K, V]) evictLocked(now time.Time) {
	c.deleteExpiredLocked(now)
	if len(c.items) < c.maxItems {
		return
	}
	var oldest K
	var oldestExp time.Time
	first := true
	for key, item := range c.items {
		if first || item.expiration.Before(oldestExp) {
			oldest, oldestExp, first = key, item.expiration, false
		}
	}
	delete(c.items, oldest)
}

func (c *Cache[K, V]) deleteExpiredLocked(now time.Time) {
	for key, item := range c.items {
		if now.After(item.expiration) {
			delete(c.items, key)
		}
	}
}

// Purge drops every entry.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	c.items = make(map[K]*cacheItem[V])
	c.mu.Unlock()
}

// Len counts entries, expired ones included.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache[K, V]) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache[K, V]) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			c.deleteExpiredLocked(time.Now())
			c.mu.Unlock()
		}
	}
}
