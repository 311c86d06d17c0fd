package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultTTL is used when TTLConfig.DefaultTTL is zero.
const DefaultTTL = 5 * time.Minute

type entry struct {
	value    interface{}
	storedAt time.Time
	ttl      time.Duration
}

// live reports whether the entry may still be served at now.
func (e *entry) live(now time.Time) bool {
	return now.Sub(e.storedAt) < e.ttl
}

// TTLCache is an in-memory cache with per-entry expiration.
// Expired entries are removed when they are next read; there is no sweeper.
type TTLCache struct {
	mu         sync.Mutex
	entries    map[string]*entry
	defaultTTL time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

// TTLConfig holds configuration for the TTL cache.
type TTLConfig struct {
	DefaultTTL time.Duration
	Logger     *zap.Logger
	Now        func() time.Time // defaults to time.Now
}

// NewTTLCache creates an empty TTL cache.
func NewTTLCache(cfg *TTLConfig) *TTLCache {
	defaultTTL := cfg.DefaultTTL
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &TTLCache{
		entries:    make(map[string]*entry),
		defaultTTL: defaultTTL,
		now:        now,
		logger:     logger,
	}
}

// DefaultTTL returns the TTL applied when Set is called with ttl <= 0.
func (c *TTLCache) DefaultTTL() time.Duration {
	return c.defaultTTL
}

// Get returns the value for key if it has not expired.
func (c *TTLCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		CacheMissesTotal.Inc()
		c.logger.Debug("cache-miss", zap.String("key", key))
		return nil, false
	}

	if !e.live(c.now()) {
		delete(c.entries, key)
		CacheEntries.Set(float64(len(c.entries)))
		CacheExpirationsTotal.Inc()
		CacheMissesTotal.Inc()
		c.logger.Debug("cache-expired",
			zap.String("key", key),
			zap.Duration("ttl", e.ttl))
		return nil, false
	}

	CacheHitsTotal.Inc()
	c.logger.Debug("cache-hit", zap.String("key", key))
	return e.value, true
}

// Set stores value under key, overwriting any existing entry.
func (c *TTLCache) Set(key string, value interface{}, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	c.entries[key] = &entry{
		value:    value,
		storedAt: c.now(),
		ttl:      ttl,
	}
	CacheEntries.Set(float64(len(c.entries)))
	c.mu.Unlock()

	CacheSetsTotal.Inc()
	c.logger.Debug("cache-set",
		zap.String("key", key),
		zap.Duration("ttl", ttl))
	return true
}

// Delete removes key from the cache.
func (c *TTLCache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	CacheEntries.Set(float64(len(c.entries)))
	c.mu.Unlock()

	CacheDeletesTotal.Inc()
	c.logger.Debug("cache-delete", zap.String("key", key))
}

// Clear removes all entries.
func (c *TTLCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	CacheEntries.Set(0)
	c.mu.Unlock()

	c.logger.Info("cache-cleared")
}

// Len returns the number of stored entries, including expired entries
// that have not been read since they expired.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close is a no-op; the TTL cache holds no background resources.
func (c *TTLCache) Close() {
	c.logger.Info("cache-closed")
}
