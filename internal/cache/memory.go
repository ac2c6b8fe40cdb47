package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/symptom-diagnosis-server/internal/domain"
)

// memoryEntry wraps a cached result with its expiry deadline.
type memoryEntry struct {
	result    *domain.DiagnosisResult
	expiresAt time.Time
}

// MemoryCache is an in-process LRU cache with per-entry TTL.
type MemoryCache struct {
	entries *lru.Cache[string, memoryEntry]
	ttl     time.Duration

	statsMu sync.Mutex
	stats   Stats
}

// NewMemoryCache creates an in-memory cache holding at most maxEntries
// results. A non-positive ttl disables expiry.
func NewMemoryCache(maxEntries int, ttl time.Duration) (*MemoryCache, error) {
	if maxEntries <= 0 {
		maxEntries = 1000
	}

	entries, err := lru.New[string, memoryEntry](maxEntries)
	if err != nil {
		return nil, err
	}

	return &MemoryCache{entries: entries, ttl: ttl}, nil
}

// Get retrieves a cached result if present and not expired.
func (c *MemoryCache) Get(_ context.Context, key string) (*domain.DiagnosisResult, bool) {
	entry, ok := c.entries.Get(key)
	if ok && !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.entries.Remove(key)
		ok = false
	}

	c.statsMu.Lock()
	if ok {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	c.statsMu.Unlock()

	if !ok {
		return nil, false
	}
	return entry.result, true
}

// Set stores a result, evicting the least recently used entry if full.
func (c *MemoryCache) Set(_ context.Context, key string, result *domain.DiagnosisResult) error {
	entry := memoryEntry{result: result}
	if c.ttl > 0 {
		entry.expiresAt = time.Now().Add(c.ttl)
	}
	c.entries.Add(key, entry)
	return nil
}

// Stats returns hit/miss counters.
func (c *MemoryCache) Stats() Stats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.stats
}

// Close clears the cache.
func (c *MemoryCache) Close() error {
	c.entries.Purge()
	return nil
}
