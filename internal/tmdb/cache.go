package tmdb

import (
	"sync"
	"time"
)

type cacheItem struct {
	value   cachedResponse
	expTime time.Time
}

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

// responseCache is a TTL map for proxied TMDB responses, keyed by the
// upstream path+query.
type responseCache struct {
	mu    sync.RWMutex
	items map[string]cacheItem
	ttl   time.Duration
}

func newResponseCache(ttl time.Duration) *responseCache {
	return &responseCache{
		items: make(map[string]cacheItem),
		ttl:   ttl,
	}
}

func (c *responseCache) Get(key string) (cachedResponse, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(item.expTime) {
		return cachedResponse{}, false
	}
	return item.value, true
}

func (c *responseCache) Set(key string, value cachedResponse) {
	c.mu.Lock()
	c.items[key] = cacheItem{value: value, expTime: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Sweep drops expired entries. Called opportunistically on writes would be
// enough for correctness; the janitor keeps memory bounded on idle paths.
func (c *responseCache) Sweep() {
	now := time.Now()
	c.mu.Lock()
	for k, item := range c.items {
		if now.After(item.expTime) {
			delete(c.items, k)
		}
	}
	c.mu.Unlock()
}

func (c *responseCache) StartJanitor(interval time.Duration, stop <-chan struct{}) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				c.Sweep()
			case <-stop:
				return
			}
		}
	}()
}
