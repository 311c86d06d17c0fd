package cache

import "time"

// Cache is the interface for caching market data responses.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns (value, true) if found and not expired, (nil, false) otherwise.
	Get(key string) (interface{}, bool)

	// Set stores a value in the cache, replacing any existing entry.
	// A ttl <= 0 selects the cache's default TTL.
	Set(key string, value interface{}, ttl time.Duration) bool

	// Delete removes a value from the cache.
	Delete(key string)

	// Clear removes all values from the cache.
	Clear()

	// Len returns the number of stored entries.
	Len() int

	// Close closes the cache and releases resources.
	Close()
}
