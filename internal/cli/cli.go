// Package cli implements the topo command-line interface.
//
// Commands cover the full design workflow: creating case files, casting them
// to absolute coordinates, running protocol pipelines, building sketches,
// plotting, graphing, submitting scheduler jobs and serving the HTTP API.
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/luskyqi1995/topobuilder/internal/config"
	"github.com/luskyqi1995/topobuilder/pkg/buildinfo"
	"github.com/luskyqi1995/topobuilder/pkg/cache"
	"github.com/luskyqi1995/topobuilder/pkg/pipeline"
	"github.com/luskyqi1995/topobuilder/pkg/pipeline/plugins"
	"github.com/luskyqi1995/topobuilder/pkg/slurm"
)

// appName is the application name used for directories and display.
const appName = "topobuilder"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	// ConfigPath is the discovered settings file, empty when defaults apply.
	ConfigPath string

	// SlurmRunner replaces the sbatch runner when set. Tests use it to
	// fake the scheduler.
	SlurmRunner slurm.Runner
}

// New creates a new CLI instance with a default logger and discovered
// settings.
func New(w io.Writer, level log.Level) *CLI {
	cfg, path, err := config.Load(".")
	c := &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		Config:     cfg,
		ConfigPath: path,
	}
	if err != nil {
		c.Logger.Warn("settings file ignored", "err", err)
	}
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "topo",
		Short:        "TopoBuilder designs protein topologies from sketch forms",
		Long:         `TopoBuilder builds protein backbones from layered topology descriptions, manages the design pipeline around them, and drives the external folding and matching tools.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose || c.Config.System.Verbose || c.Config.System.Debug {
			c.SetLogLevel(LogDebug)
		}
	}

	root.AddCommand(c.caseCommand())
	root.AddCommand(c.absoluteCommand())
	root.AddCommand(c.protocolCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.plotCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.submitCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// NormalizeArgs rewrites single-dash long flags to their double-dash form,
// so invocations written for the classic interface ("-name x -architecture
// 2H.4E.2H") keep working. Without it pflag reads "-name" as the shorthand
// cluster "-n ame". Only flags registered somewhere under root are
// rewritten; shorthand clusters and everything after "--" pass through.
func NormalizeArgs(root *cobra.Command, args []string) []string {
	long := map[string]bool{}
	var collect func(cmd *cobra.Command)
	collect = func(cmd *cobra.Command) {
		visit := func(f *pflag.Flag) { long[f.Name] = true }
		cmd.PersistentFlags().VisitAll(visit)
		cmd.Flags().VisitAll(visit)
		for _, sub := range cmd.Commands() {
			collect(sub)
		}
	}
	collect(root)

	out := make([]string, 0, len(args))
	for i, a := range args {
		if a == "--" {
			return append(out, args[i:]...)
		}
		if strings.HasPrefix(a, "-") && !strings.HasPrefix(a, "--") && len(a) > 2 {
			name := a[1:]
			if eq := strings.IndexByte(name, '='); eq >= 0 {
				name = name[:eq]
			}
			if long[name] {
				a = "-" + a
			}
		}
		out = append(out, a)
	}
	return out
}

// pluginConfig assembles the shared plugin settings from the loaded
// configuration.
func (c *CLI) pluginConfig(overwrite bool, store cache.Cache) plugins.Config {
	return plugins.Config{
		Rosetta:    c.Config.Rosetta,
		Slurm:      c.Config.Slurm,
		Master:     c.Config.Master,
		Checkpoint: pipeline.NewCheckpoint(store, c.Config.System.Forced),
		Logger:     c.Logger,
		Overwrite:  overwrite || c.Config.System.Overwrite,
	}
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(overwrite, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	reg := pipeline.NewRegistry()
	plugins.RegisterAll(reg, c.pluginConfig(overwrite, store))
	return pipeline.NewRunner(reg, store, c.Logger), nil
}

// newCache opens the checkpoint store named in the settings file. File is
// the default; redis and mongo serve cluster runs where many jobs share
// checkpoints.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cc := c.Config.Cache
	switch cc.Backend {
	case "", "file":
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	case "null":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(context.Background(), cache.RedisConfig{
			Addr:     cc.Addr,
			Password: cc.Password,
			DB:       cc.DB,
		})
	case "mongo":
		return cache.NewMongoCache(context.Background(), cache.MongoConfig{
			URI:        cc.URI,
			Database:   cc.Database,
			Collection: cc.Collection,
		})
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cc.Backend)
	}
}

// cacheDir returns the checkpoint directory using the XDG standard
// (~/.cache/topobuilder/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
