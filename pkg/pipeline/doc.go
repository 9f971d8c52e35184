// Package pipeline executes case protocols as an ordered list of nodes.
//
// A protocol names a sequence of plugins (nomenclator, corrector, builder,
// funfoldes, ...). Each plugin is a [Node]: Check validates the shape of the
// incoming cases without side effects, Execute transforms them. Nodes come
// out of a [Registry] keyed by plugin name, built from the per-protocol
// option map.
//
// The [Runner] walks the pending protocols of a case list in order, skipping
// entries already marked done, and marks each one done after its node
// finishes. Long plugins checkpoint through the cache layer so interrupted
// runs resume instead of recomputing.
package pipeline
