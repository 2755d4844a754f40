// Package cache provides response caching for the expensive external calls
// voice2map makes: transcript structuring, search enrichment, and raw HTTP
// fetches.
//
// Three backends implement [Cache]: file-based (the CLI default, under the
// XDG cache directory), Redis (the serve deployment), and a null cache for
// tests or --no-cache runs. Keys are produced by a [Keyer] so every caller
// hashes its inputs the same way.
package cache

import (
	"context"
	"time"
)

// Cache is the interface all cache backends implement.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports a hit; a miss is
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
