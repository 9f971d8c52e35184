// Package slurm renders SLURM submission scripts and drives sbatch.
//
// Long-running external steps (Rosetta folding, MASTER searches) fan out as
// array jobs: a header built from [Config], a body of per-task commands, and a
// dependent control job that touches a condition file once the array drains.
// [Submitter.SubmitAndWait] wires those three together and polls the condition
// file until the work is done or the context is cancelled.
//
// Nothing here talks to a scheduler directly. Commands go through an injected
// [Runner], so tests exercise submission logic without a cluster.
package slurm
