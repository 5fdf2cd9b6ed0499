// Package cache stores encoded wiring plans between runs.
//
// Plans are a pure function of the terminal count and output format, so
// entries never go stale; TTLs only bound the space they occupy. Three
// backends implement [Cache]:
//
//   - [NullCache] disables caching
//   - [MemoryCache] keeps entries in process, for the CLI and tests
//   - [RedisCache] shares entries across server instances
//
// Keys come from a [Keyer] so deployments can namespace them with
// [ScopedKeyer].
package cache

import (
	"context"
	"time"
)

// TTLPlan is the default lifetime of a cached plan.
const TTLPlan = 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. The boolean is false on a miss; a miss
	// is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// PlanKey returns the key of the encoded plan for the given terminal
	// count and output format.
	PlanKey(terminals int, format string) string
}

// PlanSchema versions the encoded plan. Bumping it invalidates every cached
// plan.
const PlanSchema = 1

// DefaultKeyer hashes key components into "plan:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PlanKey implements Keyer.
func (DefaultKeyer) PlanKey(terminals int, format string) string {
	return hashKey("plan", PlanSchema, terminals, format)
}
