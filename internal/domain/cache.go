package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the cache.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the cache.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache is the key/value port used for the leaderboard snapshot and the
// pending-results queue.
type Cache interface {
	// Get returns ErrCacheMiss if the key is not present.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value; zero expiration keeps it until deleted.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	// Delete is a no-op for missing keys.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error

	HSet(ctx context.Context, key string, field string, value string) error
	// HGetAll returns an empty map (not ErrCacheMiss) for a missing hash.
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error
	Expire(ctx context.Context, key string, expiration time.Duration) error
}

// HealthChecker is implemented by dependencies reported on /api/health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
