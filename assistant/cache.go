package assistant

import (
	"context"
	"sync"
	"time"

	"github.com/cogitex/rfbooking/models"
)

// CatalogCache memoizes the active-equipment catalog for a bounded duration
// so /api/ai requests avoid a table scan. It lives for the process lifetime
// only. Equipment CRUD must call Invalidate before returning to its caller,
// so readers always observe the latest completed invalidation. Concurrent
// readers never block each other outside a reload.
type CatalogCache struct {
	ttl  time.Duration
	load func(ctx context.Context) ([]models.Equipment, error)

	mu       sync.RWMutex
	items    []models.Equipment
	loadedAt time.Time
}

func NewCatalogCache(ttl time.Duration, load func(ctx context.Context) ([]models.Equipment, error)) *CatalogCache {
	return &CatalogCache{ttl: ttl, load: load}
}

func (c *CatalogCache) Get(ctx context.Context) ([]models.Equipment, error) {
	c.mu.RLock()
	if c.items != nil && time.Since(c.loadedAt) < c.ttl {
		items := c.items
		c.mu.RUnlock()
		return items, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another goroutine may have reloaded while we waited.
	if c.items != nil && time.Since(c.loadedAt) < c.ttl {
		return c.items, nil
	}
	items, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	c.items = items
	c.loadedAt = time.Now()
	return items, nil
}

func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}
