// Package cache stores opaque byte payloads under string keys.
//
// The renderer uses it to remember downloaded image bytes between runs when
// the user opts in with --cache. Two persistent backends exist: [FileCache]
// for a single machine and [RedisCache] for a shared server. [NullCache] is
// the default and stores nothing.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store with per-entry expiry.
//
// Get reports a miss with (nil, false, nil). Errors are reserved for backend
// failures; callers may treat them as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys for cached resources.
type Keyer interface {
	// ImageKey returns the key for the raw bytes fetched from url.
	ImageKey(url string) string
}

// DefaultKeyer hashes the URL together with the fetch limits so that a
// payload cached under a larger byte cap is not reused under a smaller one.
type DefaultKeyer struct {
	maxBytes int64
}

// NewDefaultKeyer returns a keyer scoped to the given byte cap.
func NewDefaultKeyer(maxBytes int64) Keyer {
	return &DefaultKeyer{maxBytes: maxBytes}
}

// ImageKey implements Keyer.
func (k *DefaultKeyer) ImageKey(url string) string {
	return hashKey("image", url, k.maxBytes)
}
