package shop

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// topSellersKeyPrefix keys the cache by the full parameter tuple so distinct
// windows can never collide on one entry.
const topSellersKeyPrefix = "top_selling_products"

func CacheKey(days, limit int) string {
	return fmt.Sprintf("%s:%dd:%d", topSellersKeyPrefix, days, limit)
}

// Cache memoizes aggregation results under a TTL. A cached empty slice is a
// hit (found=true); absence and emptiness are distinct. Implementations must
// treat expired entries as absent.
type Cache interface {
	Get(ctx context.Context, key string) ([]TopSeller, bool, error)
	Set(ctx context.Context, key string, rows []TopSeller, ttl time.Duration) error
}

type memEntry struct {
	rows    []TopSeller
	expires time.Time
}

// MemCache is a process-wide TTL cache with lazy expiry. Constructed at
// startup and injected; there is no package-level instance.
type MemCache struct {
	mu  sync.RWMutex
	m   map[string]memEntry
	now func() time.Time
}

func NewMemCache() *MemCache {
	return &MemCache{
		m:   map[string]memEntry{},
		now: time.Now,
	}
}

func (c *MemCache) Get(ctx context.Context, key string) ([]TopSeller, bool, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if c.now().After(e.expires) {
		c.mu.Lock()
		// Recheck under the write lock; a Set may have raced the expiry.
		if cur, ok := c.m[key]; ok && c.now().After(cur.expires) {
			delete(c.m, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.rows, true, nil
}

func (c *MemCache) Set(ctx context.Context, key string, rows []TopSeller, ttl time.Duration) error {
	cp := make([]TopSeller, len(rows))
	copy(cp, rows)

	c.mu.Lock()
	c.m[key] = memEntry{rows: cp, expires: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}
