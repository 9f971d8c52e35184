// Package cache provides the checkpoint store used by the pipeline.
//
// Plugin executions persist their intermediate results as JSON blobs so
// that re-running a protocol skips work that already happened. Several
// backends are available:
//   - file: JSON entries under a directory, the default for CLI runs
//   - null: discards everything, used with --force and in tests
//   - redis: shared store for cluster runs where many array tasks report
//     into one experiment
//   - mongo: durable store for long-lived experiment collections
package cache

import (
	"context"
	"time"
)

// Cache stores opaque blobs under string keys with optional expiration.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// CheckpointKey builds the store key for one plugin execution over one
// case. Keys are stable across runs so checkpoints survive restarts.
func CheckpointKey(caseName, plugin string) string {
	return hashKey("checkpoint", caseName, plugin)
}
