package service

import (
	"context"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// DefaultFactorCacheTTL keeps Climatiq answers for a day; factors rarely change
const DefaultFactorCacheTTL = 24 * time.Hour

// FactorCache stores successful Climatiq results
type FactorCache interface {
	Get(ctx context.Context, key string) (float64, bool, error)
	Set(ctx context.Context, key string, value float64, ttl time.Duration) error
}

// FactorCacheKey builds a stable key from a factor ID and its parameters
func FactorCacheKey(factorID string, params map[string]any) string {
	// Map keys are encoded in sorted order
	encoded, err := json.Marshal(params)
	if err != nil {
		return ""
	}
	return "factor:" + factorID + ":" + string(encoded)
}

// CachedFactorClient serves repeated lookups from a cache.
// Only successes are stored; cache failures fall through to the client.
type CachedFactorClient struct {
	next  FactorClient
	cache FactorCache
	ttl   time.Duration
}

// NewCachedFactorClient wraps next with cache
func NewCachedFactorClient(next FactorClient, cache FactorCache, ttl time.Duration) *CachedFactorClient {
	if ttl <= 0 {
		ttl = DefaultFactorCacheTTL
	}
	return &CachedFactorClient{next: next, cache: cache, ttl: ttl}
}

// Estimate implements FactorClient
func (c *CachedFactorClient) Estimate(ctx context.Context, factorID string, params map[string]any) (float64, error) {
	key := FactorCacheKey(factorID, params)
	if key == "" {
		return c.next.Estimate(ctx, factorID, params)
	}

	value, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Factor cache read failed")
	} else if ok {
		return value, nil
	}

	value, err = c.next.Estimate(ctx, factorID, params)
	if err != nil {
		return 0, err
	}

	if err := c.cache.Set(ctx, key, value, c.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Factor cache write failed")
	}
	return value, nil
}

// memorySweepInterval is the minimum gap between full expiry sweeps
const memorySweepInterval = time.Minute

type cacheEntry struct {
	value     float64
	expiresAt time.Time
}

// MemoryFactorCache is an in-process FactorCache with per-entry expiry.
// Expired entries are dropped on read and by a periodic sweep in Set.
type MemoryFactorCache struct {
	mu        sync.Mutex
	entries   map[string]cacheEntry
	nextSweep time.Time
	now       func() time.Time
}

// NewMemoryFactorCache creates an empty in-memory cache
func NewMemoryFactorCache() *MemoryFactorCache {
	return &MemoryFactorCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get implements FactorCache
func (m *MemoryFactorCache) Get(_ context.Context, key string) (float64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return 0, false, nil
	}
	if m.now().After(entry.expiresAt) {
		delete(m.entries, key)
		return 0, false, nil
	}
	return entry.value, true, nil
}

// Set implements FactorCache
func (m *MemoryFactorCache) Set(_ context.Context, key string, value float64, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if !now.Before(m.nextSweep) {
		m.sweep(now)
		m.nextSweep = now.Add(memorySweepInterval)
	}

	m.entries[key] = cacheEntry{value: value, expiresAt: now.Add(ttl)}
	return nil
}

// Len returns the number of stored entries, expired or not
func (m *MemoryFactorCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// sweep drops every expired entry; callers hold mu
func (m *MemoryFactorCache) sweep(now time.Time) {
	for key, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, key)
		}
	}
}
