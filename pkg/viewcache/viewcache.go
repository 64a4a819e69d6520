// Package viewcache holds computed view payloads between reads and drops
// them when a mutation invalidates the views they were built from. It makes
// "the listing reflects the change on the next read" an explicit contract
// instead of a framework side effect.
package viewcache

import "sync"

// Cache is a tag-invalidated in-memory cache. A nil *Cache is valid and
// caches nothing.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]any
	byTag   map[string]map[string]struct{}
	tagsOf  map[string][]string
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]any),
		byTag:   make(map[string]map[string]struct{}),
		tagsOf:  make(map[string][]string),
	}
}

// Get returns the cached value for key, if still valid.
func (c *Cache) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.entries[key]
	return value, ok
}

// Set stores value under key and registers it with the given tags.
func (c *Cache) Set(key string, value any, tags ...string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.remove(key)
	c.entries[key] = value
	c.tagsOf[key] = tags
	for _, tag := range tags {
		if c.byTag[tag] == nil {
			c.byTag[tag] = make(map[string]struct{})
		}
		c.byTag[tag][key] = struct{}{}
	}
}

// Invalidate drops every entry registered under any of the given tags.
func (c *Cache) Invalidate(tags ...string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, tag := range tags {
		for key := range c.byTag[tag] {
			c.remove(key)
		}
	}
}

// remove drops one entry and all its tag registrations. Callers must hold
// the write lock.
func (c *Cache) remove(key string) {
	for _, tag := range c.tagsOf[key] {
		delete(c.byTag[tag], key)
		if len(c.byTag[tag]) == 0 {
			delete(c.byTag, tag)
		}
	}
	delete(c.tagsOf, key)
	delete(c.entries, key)
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
