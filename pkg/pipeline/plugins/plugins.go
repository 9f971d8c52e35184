// Package plugins provides the built-in pipeline nodes.
//
// Every plugin implements [pipeline.Node] and registers through
// [RegisterAll]: nomenclator, corrector, ranger, topologies, builder,
// plotter, graph, funfoldes, loopmaster, and motifpicker. Nodes that drive
// external tools (Rosetta, MASTER, the scheduler) take their executables
// and cluster settings from [Config] rather than per-protocol options.
package plugins

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/luskyqi1995/topobuilder/pkg/pipeline"
	"github.com/luskyqi1995/topobuilder/pkg/rosetta"
	"github.com/luskyqi1995/topobuilder/pkg/slurm"
)

// MasterConfig points at the MASTER toolkit and its PDS database.
type MasterConfig struct {
	// Master is the master executable path.
	Master string `toml:"master"`
	// Create is the createPDS executable path.
	Create string `toml:"create"`
	// PDS is either a list file of PDS paths or a database directory
	// searched with the */*.pds pattern.
	PDS string `toml:"pds"`
}

// Config carries the shared infrastructure handed to every node.
type Config struct {
	Rosetta    rosetta.Config
	Slurm      slurm.Config
	Master     MasterConfig
	Checkpoint *pipeline.Checkpoint
	Submitter  *slurm.Submitter
	Runner     slurm.Runner
	Logger     *log.Logger
	Overwrite  bool
}

func (cfg Config) logger() *log.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return log.Default()
}

func (cfg Config) checkpoint() *pipeline.Checkpoint {
	if cfg.Checkpoint != nil {
		return cfg.Checkpoint
	}
	return pipeline.NewCheckpoint(nil, false)
}

func (cfg Config) runner() slurm.Runner {
	if cfg.Runner != nil {
		return cfg.Runner
	}
	return slurm.ExecRunner
}

// RegisterAll registers every built-in node under its plugin name.
func RegisterAll(reg *pipeline.Registry, cfg Config) {
	reg.Register("nomenclator", NewNomenclator)
	reg.Register("corrector", NewCorrector)
	reg.Register("ranger", NewRanger)
	reg.Register("topologies", NewTopologies)
	reg.Register("builder", builderBuilder(cfg))
	reg.Register("plotter", plotterBuilder(cfg))
	reg.Register("graph", graphBuilder(cfg))
	reg.Register("funfoldes", funfoldesBuilder(cfg))
	reg.Register("loopmaster", loopmasterBuilder(cfg))
	reg.Register("motifpicker", NewMotifPicker)

	// Long-form aliases accepted in older protocol files.
	reg.Register("layer_ranger", NewRanger)
	reg.Register("make_topologies", NewTopologies)
	reg.Register("loop_master", loopmasterBuilder(cfg))
	reg.Register("motif_picker", NewMotifPicker)
}

// Option map readers. Protocol files come in through YAML or JSON, so
// numbers may arrive as int, int64, or float64.

func optString(opts map[string]any, key, def string) string {
	if v, ok := opts[key].(string); ok {
		return v
	}
	return def
}

func optBool(opts map[string]any, key string, def bool) bool {
	if v, ok := opts[key].(bool); ok {
		return v
	}
	return def
}

// toInt converts the numeric types the YAML and JSON decoders produce.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func optInt(opts map[string]any, key string, def int) int {
	if n, ok := toInt(opts[key]); ok {
		return n
	}
	return def
}

func optFloat(opts map[string]any, key string, def float64) float64 {
	switch v := opts[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

// optStrings accepts a single string or a list of strings.
func optStrings(opts map[string]any, key string) ([]string, error) {
	switch v := opts[key].(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%s: expected string entries, got %T", key, e)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s: expected string or list of strings, got %T", key, v)
	}
}
