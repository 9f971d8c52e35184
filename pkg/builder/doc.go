// Package builder turns placed secondary structure elements into idealized
// backbone coordinates.
//
// Each SSE type has a parametric description: a canonical monomer (the
// backbone atoms of one residue, centered at the local origin), a rise per
// residue along the element axis and a rotation per residue around it. An
// element is built by stamping the monomer once per residue along the axis,
// rotating it into the local twist, and finally applying the tilt and
// translation recorded in the case.
//
// The package also assembles whole-case sketches: every SSE of an absolute
// case built and concatenated into a single PDB chain, the entry artifact
// for downstream folding jobs.
package builder
