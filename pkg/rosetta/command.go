package rosetta

import (
	"fmt"
	"os"
)

// Config points at the local Rosetta installation.
type Config struct {
	// Scripts is the path to the rosetta_scripts executable.
	Scripts string `toml:"scripts"`
}

// CheckExecutable verifies the configured rosetta_scripts binary exists and
// is runnable.
func (c Config) CheckExecutable() error {
	info, err := os.Stat(c.Scripts)
	if err != nil {
		return fmt.Errorf("rosetta_scripts executable %s: %w", c.Scripts, err)
	}
	if info.IsDir() || info.Mode()&0111 == 0 {
		return fmt.Errorf("rosetta_scripts executable %s: not an executable file", c.Scripts)
	}
	return nil
}

// commonFlags are shared by folding and design runs.
func commonFlags() []string {
	return []string{
		"-overwrite",
		"-in:ignore_unrecognized_res",
		"-in:ignore_waters",
		"-out:file:silent_struct_type", "binary",
		"-out:mute", "protocols.abinitio", "protocols.abinitio.foldconstraints",
	}
}

// FoldingCommand builds the argument vector for a folding run reading the
// template sketch PDB and writing a silent file of decoys.
func (c Config) FoldingCommand(protocol, pdb, prefix, silent string, nstruct int) []string {
	args := []string{
		c.Scripts,
		"-parser:protocol", protocol,
		"-in:file:s", pdb,
		"-out:prefix", prefix,
		"-out:file:silent", silent,
		"-out:nstruct", fmt.Sprintf("%d", nstruct),
	}
	return append(args, commonFlags()...)
}

// DesignCommand builds the argument vector for a design run consuming the
// folded decoys.
func (c Config) DesignCommand(protocol, inSilent, prefix, outSilent string, nstruct int) []string {
	args := []string{
		c.Scripts,
		"-parser:protocol", protocol,
		"-in:file:silent", inSilent,
		"-out:prefix", prefix,
		"-out:file:silent", outSilent,
		"-out:nstruct", fmt.Sprintf("%d", nstruct),
	}
	return append(args, commonFlags()...)
}
