// Package cache stores fetched artifacts, chiefly the rendering engine
// bundle, so the engine is downloaded once per machine or deployment rather
// than once per process.
//
// Three backends implement [Cache]:
//   - [FileCache]: files under ~/.cache/graphwidget/ for CLI use
//   - [RedisCache]: a shared Redis instance for multi-instance servers
//   - [NullCache]: caching disabled
//
// Keys are produced by [BundleKey]; callers never build raw keys.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
