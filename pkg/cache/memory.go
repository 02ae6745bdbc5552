package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"caseport/core"
)

// InMemoryRoleCache implements an in-memory role cache with a hard TTL.
//
// Entries expire after the configured TTL so a role downgrade made by an
// administrator becomes visible within that window at the latest.
type InMemoryRoleCache struct {
	cache   map[string]*cachedRecord
	mu      sync.RWMutex
	ttl     time.Duration
	maxSize int

	// counters
	hits      int64
	misses    int64
	sets      int64
	deletes   int64
	evictions int64
}

type cachedRecord struct {
	role     core.Role
	cachedAt time.Time
}

var _ core.RoleCache = (*InMemoryRoleCache)(nil)

// NewInMemoryRoleCache creates a new in-memory role cache.
func NewInMemoryRoleCache(c core.CacheConfig) *InMemoryRoleCache {
	if c.TTL == 0 {
		c.TTL = 5 * time.Minute
	}
	if c.MaxSize == 0 {
		c.MaxSize = 500
	}

	return &InMemoryRoleCache{
		cache:   make(map[string]*cachedRecord),
		ttl:     c.TTL,
		maxSize: c.MaxSize,
	}
}

// Get retrieves a role from cache. Expired entries are dropped and
// reported as misses.
func (c *InMemoryRoleCache) Get(identityID string) (core.Role, error) {
	c.mu.RLock()
	record, exists := c.cache[identityID]
	c.mu.RUnlock()

	if !exists {
		atomic.AddInt64(&c.misses, 1)
		return "", core.ErrCacheNotFound
	}

	if time.Since(record.cachedAt) > c.ttl {
		atomic.AddInt64(&c.misses, 1)
		_ = c.Delete(identityID)
		return "", core.ErrCacheNotFound
	}

	atomic.AddInt64(&c.hits, 1)
	return record.role, nil
}

// Set stores a role in cache.
func (c *InMemoryRoleCache) Set(identityID string, role core.Role) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Simple eviction if full
	if len(c.cache) >= c.maxSize {
		for k := range c.cache {
			delete(c.cache, k)
			atomic.AddInt64(&c.evictions, 1)
			break
		}
	}

	c.cache[identityID] = &cachedRecord{
		role:     role,
		cachedAt: time.Now(),
	}

	atomic.AddInt64(&c.sets, 1)
	return nil
}

// Delete removes a role from cache.
func (c *InMemoryRoleCache) Delete(identityID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, existed := c.cache[identityID]; existed {
		delete(c.cache, identityID)
		atomic.AddInt64(&c.deletes, 1)
	}
	return nil
}

// Clear removes all roles from cache.
func (c *InMemoryRoleCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*cachedRecord)
	return nil
}

// Len returns the number of cached roles.
func (c *InMemoryRoleCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Stats returns cache statistics.
func (c *InMemoryRoleCache) Stats() core.CacheStats {
	return core.CacheStats{
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Sets:      atomic.LoadInt64(&c.sets),
		Deletes:   atomic.LoadInt64(&c.deletes),
		Evictions: atomic.LoadInt64(&c.evictions),
		Size:      c.Len(),
		TTL:       c.ttl,
	}
}
