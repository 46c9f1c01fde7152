package songcache

import (
	"sync"

	"navisync/internal/metrics"
	"navisync/internal/models"
	"navisync/internal/pathnorm"
)

// Cache maps normalized server paths to catalog entries. It is safe for
// concurrent readers; Replace swaps the whole index under the write lock.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]models.CatalogEntry
}

// New returns a cache over entries. Keys are normalized on the way in.
func New(entries map[string]models.CatalogEntry) *Cache {
	c := &Cache{}
	c.Replace(entries)
	return c
}

// Lookup finds the entry stored under path, in either separator style. A nil
// cache holds nothing.
func (c *Cache) Lookup(path string) (models.CatalogEntry, bool) {
	if c == nil {
		return models.CatalogEntry{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[pathnorm.Path(path)]
	return e, ok
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Replace installs a new index.
func (c *Cache) Replace(entries map[string]models.CatalogEntry) {
	next := make(map[string]models.CatalogEntry, len(entries))
	for k, v := range entries {
		next[pathnorm.Path(k)] = v
	}

	c.mu.Lock()
	c.entries = next
	c.mu.Unlock()
	metrics.CacheEntries.Set(float64(len(next)))
}

// Entries returns a copy of the index, suitable for persisting.
func (c *Cache) Entries() map[string]models.CatalogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]models.CatalogEntry, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}
