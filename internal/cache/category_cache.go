package cache

import (
	"context"
	"sync"
	"time"

	"estatehub_backend/internal/models"
)

const DefaultCategoryTTL = 60 * time.Second

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

// ActiveCategoryLoader loads the active categories, already sorted by
// (sortOrder asc, createdAt desc).
type ActiveCategoryLoader interface {
	ListActive(ctx context.Context) ([]models.Category, error)
}

type Result struct {
	FromCache bool
	Data      []models.Category
}

// CategoryCache keeps the last active-category list for ttl.
//
// The mutex only guards the stored value; it is not held while loading, so two
// callers that both see an expired entry may both hit the database. Both store
// the same result, so whichever write lands last is harmless.
type CategoryCache struct {
	loader ActiveCategoryLoader
	ttl    time.Duration
	now    Clock

	mu       sync.RWMutex
	data     []models.Category
	storedAt time.Time
	valid    bool
	// gen is bumped by Invalidate so a load that started before it is not stored.
	gen uint64
}

func NewCategoryCache(loader ActiveCategoryLoader, ttl time.Duration, clock Clock) *CategoryCache {
	if ttl <= 0 {
		ttl = DefaultCategoryTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &CategoryCache{loader: loader, ttl: ttl, now: clock}
}

// Get returns the cached list while it is younger than the TTL, otherwise it
// reloads. Loader errors are returned as-is and leave the cache untouched.
func (c *CategoryCache) Get(ctx context.Context) (Result, error) {
	now := c.now()

	c.mu.RLock()
	if c.valid && now.Sub(c.storedAt) < c.ttl {
		data := c.data
		c.mu.RUnlock()
		return Result{FromCache: true, Data: data}, nil
	}
	gen := c.gen
	c.mu.RUnlock()

	data, err := c.loader.ListActive(ctx)
	if err != nil {
		return Result{}, err
	}
	if data == nil {
		data = []models.Category{}
	}

	c.mu.Lock()
	if c.gen == gen {
		c.data = data
		c.storedAt = now
		c.valid = true
	}
	c.mu.Unlock()

	return Result{FromCache: false, Data: data}, nil
}

// Invalidate drops the cached list; the next Get reloads.
func (c *CategoryCache) Invalidate() {
	c.mu.Lock()
	c.data = nil
	c.storedAt = time.Time{}
	c.valid = false
	c.gen++
	c.mu.Unlock()
}

func (c *CategoryCache) TTL() time.Duration {
	return c.ttl
}
