package cache

import (
	"sync"
	"time"

	"vidfetch-server/internal/extract"
)

type entry struct {
	meta    *extract.Metadata
	expires time.Time
}

// Cache keeps recently extracted video metadata so repeated renders of
// the quality menu do not hit the extractor again. Entries expire after
// the configured TTL; expired entries are dropped lazily on read.
type Cache struct {
	mu   sync.RWMutex
	ttl  time.Duration
	data map[string]entry
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:  ttl,
		data: make(map[string]entry),
	}
}

// Get returns the cached metadata for a URL, or nil when absent or
// expired.
func (c *Cache) Get(url string) *extract.Metadata {
	c.mu.RLock()
	e, ok := c.data[url]
	c.mu.RUnlock()
	if !ok {
		return nil
	}
	if time.Now().After(e.expires) {
		c.mu.Lock()
		delete(c.data, url)
		c.mu.Unlock()
		return nil
	}
	return e.meta
}

func (c *Cache) Set(url string, meta *extract.Metadata) {
	c.mu.Lock()
	c.data[url] = entry{meta: meta, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}
