package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/luskyqi1995/topobuilder/pkg/cache"
	"github.com/luskyqi1995/topobuilder/pkg/form"
	"github.com/luskyqi1995/topobuilder/pkg/observability"
)

// Runner executes protocol lists over cases.
//
// The Runner is stateless except for the registry, cache, and logger, so a
// single instance serves any number of runs.
type Runner struct {
	Registry *Registry
	Cache    cache.Cache
	Logger   *log.Logger
}

// NewRunner creates a runner. A nil cache disables checkpointing, a nil
// logger falls back to the default.
func NewRunner(reg *Registry, c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Registry: reg, Cache: c, Logger: logger}
}

// Stats summarizes a finished run.
type Stats struct {
	RunID    string
	Executed int
	Skipped  int
	Cases    int
	Duration time.Duration
}

// Run executes the pending protocols in order over the case list and
// returns the transformed cases. Every executed protocol is marked done on
// every surviving case.
func (r *Runner) Run(ctx context.Context, cases []form.Case, protocols []form.Protocol) ([]form.Case, Stats, error) {
	stats := Stats{RunID: uuid.NewString(), Cases: len(cases)}
	start := time.Now()

	if err := Validate(r.Registry, protocols); err != nil {
		return nil, stats, err
	}

	cases = append([]form.Case(nil), cases...)
	for i := range cases {
		cases[i] = cases[i].AssignProtocols(protocols)
	}
	observability.Pipeline().OnRunStart(ctx, stats.RunID, len(cases), len(protocols))

	for i, p := range protocols {
		if p.Status {
			r.Logger.Debug("protocol already done", "index", i, "name", p.Name)
			stats.Skipped++
			continue
		}

		node, err := r.Registry.Build(p)
		if err != nil {
			return nil, stats, err
		}

		logger := r.Logger.WithPrefix(fmt.Sprintf("%02d-%s", i, p.Name))
		logger.Info("running node", "cases", len(cases))

		if err := node.Check(cases); err != nil {
			return nil, stats, err
		}

		nodeStart := time.Now()
		observability.Pipeline().OnNodeStart(ctx, stats.RunID, p.Name)
		cases, err = node.Execute(ctx, cases)
		observability.Pipeline().OnNodeComplete(ctx, stats.RunID, p.Name, time.Since(nodeStart), err)
		if err != nil {
			return nil, stats, fmt.Errorf("node %s: %w", p.Name, err)
		}

		for j := range cases {
			done, err := cases[j].SetProtocolDone(i)
			if err != nil {
				return nil, stats, err
			}
			cases[j] = done
		}
		stats.Executed++
		logger.Info("node finished", "cases", len(cases), "duration", time.Since(nodeStart).Round(time.Millisecond))
	}

	stats.Cases = len(cases)
	stats.Duration = time.Since(start)
	observability.Pipeline().OnRunComplete(ctx, stats.RunID, stats.Executed, stats.Skipped, stats.Duration, nil)
	r.Logger.Info("protocol run finished",
		"run", stats.RunID,
		"executed", stats.Executed,
		"skipped", stats.Skipped,
		"cases", stats.Cases,
		"duration", stats.Duration.Round(time.Millisecond))
	return cases, stats, nil
}
