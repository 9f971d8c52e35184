// Package rosetta generates RosettaScripts XML and rosetta_scripts command
// lines for the FunFolDes folding and design runs.
//
// Rosetta itself is an external tool. This package only renders the protocol
// scripts (secondary structure selectors, loop-building PeptideStubMover
// inserts, folding constraints, the NubInitio folding mover) and assembles
// the argument vectors the pipeline hands to the executor or to a SLURM
// array script.
package rosetta
