// Package cache stores generated study material so repeated requests skip the LLM.
package cache

import (
	"context"
	"time"
)

// CacheService is the byte-level cache used by the tutor.
type CacheService interface {
	// Get returns the cached bytes and whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value for ttl. A non-positive ttl uses the implementation default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Invalidate removes entries. A trailing * matches by prefix (explain:*).
	Invalidate(ctx context.Context, pattern string) error
}
