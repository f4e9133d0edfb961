package client

import "sync"

// HistoryKey is the cache key of the history listing.
const HistoryKey = "/api/history"

// QueryCache holds fetched query results by key. The owner decides its lifetime; the
// Client only reads, fills and invalidates it.
type QueryCache struct {
	mu       sync.RWMutex
	entries  map[string]any
	versions map[string]uint64
}

// NewQueryCache returns an empty cache.
func NewQueryCache() *QueryCache {
	return &QueryCache{entries: make(map[string]any), versions: make(map[string]uint64)}
}

// Get returns the value stored under key.
func (c *QueryCache) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Set stores value under key unconditionally.
func (c *QueryCache) Set(key string, value any) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Version returns the invalidation counter of key. Read it before starting a fetch and
// pass it to SetIfVersion when the fetch completes.
func (c *QueryCache) Version(key string) uint64 {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.versions[key]
}

// SetIfVersion stores value only if key has not been invalidated since version was read.
// It reports whether the value was stored.
func (c *QueryCache) SetIfVersion(key string, version uint64, value any) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[key] != version {
		return false
	}
	c.entries[key] = value
	return true
}

// Invalidate drops key so the next read goes to the server. Fetches started before the
// call can no longer fill the entry.
func (c *QueryCache) Invalidate(key string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.versions[key]++
}
