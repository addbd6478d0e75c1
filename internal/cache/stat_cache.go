// Package cache provides in-memory caching for the aggregated stat table.
package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/set-predictor/internal/metrics"
	"github.com/yourusername/set-predictor/internal/models"
)

const aggregatedKey = "stats:aggregated"

// Entry is a cached stat table together with how it was built
type Entry struct {
	Table   models.StatTable
	Source  string
	Records int
	BuiltAt time.Time
}

// StatCache holds the aggregated table with a TTL. The most recent table is
// also kept past expiry so callers can fall back to it when a refresh fails.
type StatCache struct {
	cache     *gocache.Cache
	ttl       time.Duration
	mu        sync.RWMutex
	last      *Entry
	hitCount  uint64
	missCount uint64
}

// NewStatCache creates a new stat cache
func NewStatCache(ttl, cleanupInterval time.Duration) *StatCache {
	if cleanupInterval <= 0 {
		cleanupInterval = ttl * 2
	}
	return &StatCache{
		cache: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Get returns the cached table if it has not expired
func (sc *StatCache) Get() (*Entry, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if item, found := sc.cache.Get(aggregatedKey); found {
		if entry, ok := item.(*Entry); ok {
			sc.hitCount++
			sc.updateMetrics(true)
			return entry, true
		}
	}

	sc.missCount++
	sc.updateMetrics(false)
	return nil, false
}

// Set stores a freshly built table
func (sc *StatCache) Set(entry *Entry) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.cache.Set(aggregatedKey, entry, sc.ttl)
	sc.last = entry
}

// Stale returns the most recent table regardless of expiry
func (sc *StatCache) Stale() (*Entry, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.last, sc.last != nil
}

// Invalidate expires the cached table but keeps the stale copy
func (sc *StatCache) Invalidate() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.cache.Delete(aggregatedKey)
}

// Clear removes everything, including the stale copy
func (sc *StatCache) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.cache.Flush()
	sc.last = nil
}

// Stats returns cache statistics
func (sc *StatCache) Stats() (hits, misses uint64, hitRatio float64) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.hitCount, sc.missCount, ratio(sc.hitCount, sc.missCount)
}

// ExpiresAt reports when the cached table expires, if one is cached
func (sc *StatCache) ExpiresAt() (time.Time, bool) {
	_, expiration, found := sc.cache.GetWithExpiration(aggregatedKey)
	return expiration, found
}

// updateMetrics must be called with sc.mu held
func (sc *StatCache) updateMetrics(hit bool) {
	metrics.RecordCacheLookup(hit, ratio(sc.hitCount, sc.missCount))
}

func ratio(hits, misses uint64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
