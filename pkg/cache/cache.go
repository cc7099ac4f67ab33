// Package cache stores layout results and derived asset data behind a small
// key/value interface.
//
// Three backends are provided: [FileCache] for the CLI, [RedisCache] for the
// HTTP server and [NullCache] when caching is disabled. Keys are produced by
// a [Keyer] so that callers never build them by hand.
package cache

import (
	"context"
	"time"
)

// Default lifetimes for cached entries.
const (
	// LayoutTTL bounds how long a laid-out scene is reused. Layout is
	// deterministic, so the limit only keeps the store from growing forever.
	LayoutTTL = 7 * 24 * time.Hour

	// AssetTTL applies to values derived from image content, such as the
	// ambient colour. Keys include a content hash, so entries never go stale.
	AssetTTL = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with ok=false and a nil error. Implementations must be
// safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
