package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/luskyqi1995/topobuilder/pkg/cache"
	"github.com/luskyqi1995/topobuilder/pkg/observability"
)

// Checkpoint persists intermediate plugin results through the cache layer
// so interrupted runs resume where they stopped.
type Checkpoint struct {
	cache  cache.Cache
	forced bool
}

// NewCheckpoint creates a checkpoint store. With forced set, Load always
// misses and plugins recompute from scratch.
func NewCheckpoint(c cache.Cache, forced bool) *Checkpoint {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Checkpoint{cache: c, forced: forced}
}

// Load retrieves a previous result into v. It reports false on a miss.
func (c *Checkpoint) Load(ctx context.Context, caseName, plugin string, v any) (bool, error) {
	key := cache.CheckpointKey(caseName, plugin)
	if c.forced {
		observability.Checkpoint().OnMiss(ctx, key)
		return false, nil
	}
	data, hit, err := c.cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Checkpoint().OnMiss(ctx, key)
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode checkpoint %s/%s: %w", caseName, plugin, err)
	}
	observability.Checkpoint().OnHit(ctx, key)
	return true, nil
}

// Save stores a plugin result.
func (c *Checkpoint) Save(ctx context.Context, caseName, plugin string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode checkpoint %s/%s: %w", caseName, plugin, err)
	}
	key := cache.CheckpointKey(caseName, plugin)
	observability.Checkpoint().OnSave(ctx, key, len(data))
	return c.cache.Set(ctx, key, data, 0)
}
