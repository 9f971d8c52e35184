package cache

import (
	"context"
	"time"
)

// Scoped wraps a store with a key prefix so separate experiments sharing
// one backend (a redis instance serving several protocol runs, say) cannot
// collide.
type Scoped struct {
	inner  Cache
	prefix string
}

// NewScoped creates a prefixed view over an existing store.
func NewScoped(inner Cache, prefix string) Cache {
	return &Scoped{inner: inner, prefix: prefix}
}

// Get retrieves a value under the scoped key.
func (c *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.inner.Get(ctx, c.prefix+key)
}

// Set stores a value under the scoped key.
func (c *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, c.prefix+key, data, ttl)
}

// Delete removes a value under the scoped key.
func (c *Scoped) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, c.prefix+key)
}

// Close closes the underlying store.
func (c *Scoped) Close() error {
	return c.inner.Close()
}

var _ Cache = (*Scoped)(nil)
