// Package observability provides hooks for metrics, tracing, and logging.
//
// Consumers register hooks at startup to receive events about pipeline
// execution and checkpoint operations, without the core packages depending
// on any particular observability backend. Hooks default to no-ops, so
// libraries can call them unconditionally.
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCheckpointHooks(&myCheckpointHooks{})
//	    // ... run application
//	}
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from protocol pipeline execution.
type PipelineHooks interface {
	// OnRunStart fires when a pipeline run begins.
	OnRunStart(ctx context.Context, runID string, cases, protocols int)

	// OnNodeStart fires before a node executes.
	OnNodeStart(ctx context.Context, runID, node string)

	// OnNodeComplete fires after a node executes.
	OnNodeComplete(ctx context.Context, runID, node string, duration time.Duration, err error)

	// OnRunComplete fires when a pipeline run ends.
	OnRunComplete(ctx context.Context, runID string, executed, skipped int, duration time.Duration, err error)
}

// CheckpointHooks receives events from checkpoint operations.
type CheckpointHooks interface {
	// OnHit records a checkpoint hit.
	OnHit(ctx context.Context, key string)

	// OnMiss records a checkpoint miss.
	OnMiss(ctx context.Context, key string)

	// OnSave records a checkpoint write.
	OnSave(ctx context.Context, key string, size int)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnRunStart(context.Context, string, int, int)                        {}
func (NoopPipelineHooks) OnNodeStart(context.Context, string, string)                         {}
func (NoopPipelineHooks) OnNodeComplete(context.Context, string, string, time.Duration, error) {
}
func (NoopPipelineHooks) OnRunComplete(context.Context, string, int, int, time.Duration, error) {
}

// NoopCheckpointHooks is a no-op implementation of CheckpointHooks.
type NoopCheckpointHooks struct{}

func (NoopCheckpointHooks) OnHit(context.Context, string)       {}
func (NoopCheckpointHooks) OnMiss(context.Context, string)      {}
func (NoopCheckpointHooks) OnSave(context.Context, string, int) {}

var (
	pipelineHooks   PipelineHooks   = NoopPipelineHooks{}
	checkpointHooks CheckpointHooks = NoopCheckpointHooks{}
	hooksMu         sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. This should be called
// once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCheckpointHooks registers custom checkpoint hooks. This should be
// called once at application startup before any checkpoint operations.
func SetCheckpointHooks(h CheckpointHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		checkpointHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Checkpoint returns the registered checkpoint hooks.
func Checkpoint() CheckpointHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return checkpointHooks
}

// Reset restores all hooks to their no-op defaults. This is primarily
// useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	checkpointHooks = NoopCheckpointHooks{}
}
