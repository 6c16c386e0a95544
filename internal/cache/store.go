// internal/cache/store.go
package cache

import (
	"context"
	"errors"
	"fmt"
)

// MaxValueBytes is the largest serialized value Set accepts. The backing
// stores this service has been deployed on cap values at 64KiB; we enforce
// half of that so a cache entry never gets anywhere near the hard limit.
const MaxValueBytes = 32 * 1024

// ErrTooLarge is returned by Set when a value exceeds MaxValueBytes.
// Callers are expected to log and carry on; the store is left untouched.
var ErrTooLarge = errors.New("cache: value too large")

// Store is a minimal key-value cache. Get on a missing key returns
// (nil, nil) rather than an error. Implementations must be safe for
// concurrent use; each call is a single get or set with no client-side
// read-modify-write transaction.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// checkSize enforces MaxValueBytes before anything is written.
func checkSize(key string, value []byte) error {
	if len(value) > MaxValueBytes {
		return fmt.Errorf("%w: key %q is %d bytes (max %d)", ErrTooLarge, key, len(value), MaxValueBytes)
	}
	return nil
}
