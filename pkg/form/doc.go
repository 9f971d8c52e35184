// Package form implements the case data model of topobuilder.
//
// A case describes a target protein FORM: an idealized lattice of secondary
// structure elements (SSEs) organized in layers, where each layer holds a
// fixed count of alpha-helices (H) or hydrogen-bonded beta-strands (E).
//
// # Architectures and topologies
//
// A FORM can be declared at two levels of detail. An architecture string
// names the layers and how many SSEs each contains, without connectivity:
//
//	2H.4E.2H
//
// describes a three-layer FORM with two helices, four strands and two more
// helices. Residue lengths may be attached per SSE with colons
// (2H:13:10.4E:5:5:5:5.2H:7:13). A topology string additionally fixes the
// sequence order of the SSEs using the grid naming system, where layers are
// letters and in-layer positions are numbers:
//
//	B2E.C1H.B1E.A1H.B3E.A2H.B4E.C2H
//
// Cases parsed from either representation start out with relative
// coordinates; CastAbsolute resolves them into explicit 3D placements using
// the per-type default lengths and inter-SSE distances carried in the case
// configuration.
//
// # Files
//
// Cases serialize to YAML (default) or JSON. Both formats are accepted when
// reading; a case written by name lands in <name>.yml.
package form
