// Package cache provides caching for deterministic generation runs.
//
// A seeded run is a pure function of its parameters, so its serialized
// network can be cached and replayed. Unseeded runs must stay random and
// are never cached. Backends:
//   - file: XDG cache directory storage for CLI usage
//   - redis: shared cache for the HTTP service
//   - null: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is the interface for cache backends.
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TTLNetwork is how long generated networks stay cached. Seeded output
// never goes stale, so the TTL only bounds disk usage.
const TTLNetwork = 30 * 24 * time.Hour
