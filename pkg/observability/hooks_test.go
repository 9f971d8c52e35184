package observability

import (
	"context"
	"testing"
	"time"
)

type recordingPipelineHooks struct {
	events []string
}

func (r *recordingPipelineHooks) OnRunStart(_ context.Context, runID string, cases, protocols int) {
	r.events = append(r.events, "run-start")
}

func (r *recordingPipelineHooks) OnNodeStart(_ context.Context, runID, node string) {
	r.events = append(r.events, "node-start:"+node)
}

func (r *recordingPipelineHooks) OnNodeComplete(_ context.Context, runID, node string, d time.Duration, err error) {
	r.events = append(r.events, "node-complete:"+node)
}

func (r *recordingPipelineHooks) OnRunComplete(_ context.Context, runID string, executed, skipped int, d time.Duration, err error) {
	r.events = append(r.events, "run-complete")
}

type countingCheckpointHooks struct {
	hits, misses, saves int
}

func (c *countingCheckpointHooks) OnHit(context.Context, string)       { c.hits++ }
func (c *countingCheckpointHooks) OnMiss(context.Context, string)      { c.misses++ }
func (c *countingCheckpointHooks) OnSave(context.Context, string, int) { c.saves++ }

func TestPipelineHookRegistration(t *testing.T) {
	t.Cleanup(Reset)

	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)

	ctx := context.Background()
	Pipeline().OnRunStart(ctx, "run", 1, 2)
	Pipeline().OnNodeStart(ctx, "run", "builder")
	Pipeline().OnNodeComplete(ctx, "run", "builder", time.Second, nil)
	Pipeline().OnRunComplete(ctx, "run", 2, 0, time.Second, nil)

	want := []string{"run-start", "node-start:builder", "node-complete:builder", "run-complete"}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v", rec.events)
	}
	for i, e := range want {
		if rec.events[i] != e {
			t.Errorf("event[%d] = %s, want %s", i, rec.events[i], e)
		}
	}
}

func TestCheckpointHookRegistration(t *testing.T) {
	t.Cleanup(Reset)

	counter := &countingCheckpointHooks{}
	SetCheckpointHooks(counter)

	ctx := context.Background()
	Checkpoint().OnMiss(ctx, "k")
	Checkpoint().OnSave(ctx, "k", 10)
	Checkpoint().OnHit(ctx, "k")

	if counter.hits != 1 || counter.misses != 1 || counter.saves != 1 {
		t.Errorf("counts = %+v", *counter)
	}
}

func TestNilRegistrationKeepsCurrent(t *testing.T) {
	t.Cleanup(Reset)

	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)
	SetPipelineHooks(nil)

	Pipeline().OnRunStart(context.Background(), "run", 0, 0)
	if len(rec.events) != 1 {
		t.Error("nil registration replaced the active hooks")
	}
}

func TestResetRestoresNoops(t *testing.T) {
	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset did not restore the no-op pipeline hooks")
	}
	if _, ok := Checkpoint().(NoopCheckpointHooks); !ok {
		t.Error("Reset did not restore the no-op checkpoint hooks")
	}
}
