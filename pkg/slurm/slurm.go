package slurm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the scheduler settings rendered into submission headers.
type Config struct {
	// Use toggles cluster execution. When false callers run commands locally.
	Use bool `toml:"use"`

	Nodes         int    `toml:"nodes"`
	Partition     string `toml:"partition"`
	NTasksPerNode int    `toml:"ntasks_per_node"`
	CPUsPerTask   int    `toml:"cpus_per_task"`
	Memory        int    `toml:"memory"` // MB
	Time          string `toml:"time"`

	// Array is the number of tasks in an array job. Zero renders a plain
	// single-task header.
	Array int `toml:"array"`

	// Logs is the path prefix for scheduler output and error logs. When it
	// names a directory, logs land inside it under "_output".
	Logs string `toml:"logs"`
}

// DefaultConfig returns the stock scheduler settings.
func DefaultConfig() Config {
	return Config{
		Nodes:         1,
		Partition:     "serial",
		NTasksPerNode: 1,
		CPUsPerTask:   1,
		Memory:        4096,
		Time:          "10:00:00",
		Array:         700,
		Logs:          ".",
	}
}

// Header renders the #SBATCH preamble for cfg. Array jobs get an
// --array=1-N line and a .%a sublog component in their log names so each
// task writes its own pair of files.
func Header(cfg Config) string {
	logpath := cfg.Logs
	if info, err := os.Stat(logpath); err == nil && info.IsDir() {
		logpath = filepath.Join(logpath, "_output")
	}

	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	fmt.Fprintf(&b, "#SBATCH --nodes %d\n", cfg.Nodes)
	fmt.Fprintf(&b, "#SBATCH --partition=%s\n", cfg.Partition)
	fmt.Fprintf(&b, "#SBATCH --ntasks-per-node %d\n", cfg.NTasksPerNode)
	fmt.Fprintf(&b, "#SBATCH --cpus-per-task %d\n", cfg.CPUsPerTask)
	fmt.Fprintf(&b, "#SBATCH --mem %d\n", cfg.Memory)
	fmt.Fprintf(&b, "#SBATCH --time %s\n", cfg.Time)

	sublog := ""
	if cfg.Array > 0 {
		fmt.Fprintf(&b, "#SBATCH --array=1-%d\n", cfg.Array)
		sublog = ".%a"
	}
	fmt.Fprintf(&b, "#SBATCH --output=%s.%%A%s.out\n", logpath, sublog)
	fmt.Fprintf(&b, "#SBATCH --error=%s.%%A%s.err\n", logpath, sublog)
	return b.String()
}

// JobTemplate carries the values substituted into an array job script:
// the scratch directory the job runs in, the run name used to prefix
// outputs, the array fan-out, the external binary, and how many structures
// each task produces.
type JobTemplate struct {
	ScratchDir string
	RunPrefix  string
	ArraySize  int
	Binary     string
	NStruct    int
}

// ArrayScript assembles a complete submission file for a folding array job:
// header, cd into scratch, and the templated invocation line. Each array
// task writes its own prefixed silent file under out/.
func ArrayScript(cfg Config, tpl JobTemplate) string {
	cfg.Array = tpl.ArraySize

	var b strings.Builder
	b.WriteString(Header(cfg))
	b.WriteString("\n")
	fmt.Fprintf(&b, "cd %s\n", tpl.ScratchDir)
	b.WriteString("mkdir -p out\n\n")
	fmt.Fprintf(&b, "%s -parser:protocol funfoldes.xml -in:file:s sketch_0001.pdb"+
		" -out:nstruct %d -out:prefix %s_$SLURM_ARRAY_TASK_ID"+
		" -out:file:silent out/%s_$SLURM_ARRAY_TASK_ID"+
		" -out:mute protocols.abinitio protocols.abinitio.foldconstraints\n",
		tpl.Binary, tpl.NStruct, tpl.RunPrefix, tpl.RunPrefix)
	return b.String()
}

// ControlScript renders a single-task job that records completion by
// writing the condition file. Submitted with an afterany dependency on the
// main job, it fires once every array task has finished or failed.
func ControlScript(cfg Config, conditionFile string) string {
	cfg.Array = 0
	cfg.Memory = 2046

	var b strings.Builder
	b.WriteString(Header(cfg))
	b.WriteString("\n")
	fmt.Fprintf(&b, "echo 'finished' > %s\n", conditionFile)
	return b.String()
}
