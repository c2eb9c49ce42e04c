package cache

import (
	"context"
	"time"
)

// Cache is the read-through cache used in front of search queries.
// Implementations: Redis (infrastructure/cache) and Memory.
type Cache interface {
	// Get unmarshals the value at key into dest.
	// Returns found=false on a miss and leaves dest untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value at key with ttl
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern
	DeletePattern(ctx context.Context, pattern string) error

	// Ping checks the connection
	Ping(ctx context.Context) error
}
