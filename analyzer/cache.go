package analyzer

import "sync"

// lookupCache remembers the outcome of external lookups for the lifetime
// of one run. Misses are stored as explicit negative entries so a known
// bad key short-circuits without reissuing the network call.
type lookupCache[V any] struct {
	mu sync.RWMutex
	m  map[string]cacheEntry[V]
}

type cacheEntry[V any] struct {
	value V
	found bool
}

func newLookupCache[V any]() *lookupCache[V] {
	return &lookupCache[V]{m: make(map[string]cacheEntry[V])}
}

// get returns the cached value, whether the original lookup succeeded, and
// whether the key has been seen at all.
func (c *lookupCache[V]) get(key string) (V, bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.m[key]
	return e.value, e.found, ok
}

func (c *lookupCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = cacheEntry[V]{value: value, found: true}
}

func (c *lookupCache[V]) putNegative(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = cacheEntry[V]{}
}

func (c *lookupCache[V]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
