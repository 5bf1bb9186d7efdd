package service

import (
	"sync"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/domain"
)

// ProductCache is an in-memory id -> catalog item lookup used for display.
// It is read-mostly; writers replace the whole map, never individual
// entries, so readers always observe a consistent catalog generation.
type ProductCache struct {
	mu    sync.RWMutex
	items map[string]domain.CatalogItem
}

func NewProductCache() *ProductCache {
	return &ProductCache{items: make(map[string]domain.CatalogItem)}
}

// Replace swaps in a new catalog generation wholesale.
func (c *ProductCache) Replace(items []domain.CatalogItem) {
	next := make(map[string]domain.CatalogItem, len(items))
	for _, item := range items {
		next[item.ID] = item
	}

	c.mu.Lock()
	c.items = next
	c.mu.Unlock()
}

// Get returns the cached item for an id, if present.
func (c *ProductCache) Get(id string) (domain.CatalogItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	return item, ok
}

// Len returns the number of cached items.
func (c *ProductCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear empties the cache.
func (c *ProductCache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]domain.CatalogItem)
	c.mu.Unlock()
}
