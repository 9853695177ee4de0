package ingest

import (
	"sync"
	"time"

	"github.com/linkedingest/linkedingest/internal/transform"
)

type cacheEntry struct {
	doc       *transform.ProfileDocument
	createdAt time.Time
}

// Cache maps profile identifiers to previously computed documents with a
// fixed TTL. Eviction is lazy: an expired entry is removed by the next Get
// that finds it; there is no background sweep and no capacity bound.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewCache creates an empty cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached document for id if present and fresh. A stale entry
// is evicted and reported as absent.
func (c *Cache) Get(id string) (*transform.ProfileDocument, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.createdAt.Add(c.ttl)) {
		delete(c.entries, id)
		return nil, false
	}
	return entry.doc, true
}

// Put stores a document for id, stamped with the current time.
func (c *Cache) Put(id string, doc *transform.ProfileDocument) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = cacheEntry{doc: doc, createdAt: c.now()}
}

// Len reports the number of live and stale entries still held.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
