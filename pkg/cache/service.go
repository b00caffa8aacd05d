package cache

import "time"

// CacheService defines the behavior for caching mechanisms.
// The admin authorizer and stats usecase depend on this interface so a
// test double can stand in for the real store, and so TTL policy stays
// with the caller instead of being buried inside an implementation.
type CacheService interface {
	// Get retrieves a value from the cache.
	// Returns value, true if found; nil, false if not found or expired.
	Get(key string) (interface{}, bool)

	// Set adds a value to the cache with a duration
	Set(key string, value interface{}, duration time.Duration)

	// Delete removes a value from the cache
	Delete(key string)

	// Flush removes all items
	Flush()
}
