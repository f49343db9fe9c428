package memory

import (
	"context"
	"sync"
)

// Cache implements ports.ResultCache in process memory. Entries never expire.
type Cache struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewCache creates an empty in-memory cache.
func NewCache() *Cache {
	return &Cache{items: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores a copy of value under key.
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = append([]byte(nil), value...)
	return nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
