package ratelimiter

import (
	"sync"
	"time"
)

type bucketState struct {
	tokens   int
	lastFill int64 // Unix milliseconds
}

type cacheEntry struct {
	state     bucketState
	expiresAt time.Time
}

// Cache is a TTL map of bucket states with background expiry.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry

	stopClean chan struct{}
	cleanOnce sync.Once
}

func NewCache() *Cache {
	c := &Cache{
		entries:   make(map[string]cacheEntry),
		stopClean: make(chan struct{}),
	}

	go c.cleanupExpired()

	return c
}

func (c *Cache) Get(key string) (bucketState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return bucketState{}, false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		return bucketState{}, false
	}

	return entry.state, true
}

func (c *Cache) Set(key string, state bucketState, ttl time.Duration) {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{state: state, expiresAt: expiresAt}
	c.mu.Unlock()
}

func (c *Cache) cleanupExpired() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopClean:
			return
		}
	}
}

func (c *Cache) removeExpired() {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *Cache) Close() {
	c.cleanOnce.Do(func() {
		close(c.stopClean)
	})
}
