package pipeline

import (
	"context"
	"fmt"

	"github.com/luskyqi1995/topobuilder/pkg/form"
)

// Node is one step of a protocol.
type Node interface {
	// Name returns the plugin name the node registers under.
	Name() string

	// Check validates that the cases carry the data the node needs. It
	// must not mutate anything; runners call it across the whole protocol
	// list before executing the first node.
	Check(cases []form.Case) error

	// Execute transforms the cases. Nodes may fan cases out (topologies,
	// ranger) or annotate them in place.
	Execute(ctx context.Context, cases []form.Case) ([]form.Case, error)
}

// Builder constructs a node from its protocol options.
type Builder func(opts map[string]any) (Node, error)

// Registry maps plugin names to node builders.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// Register adds a builder under a plugin name, replacing any previous one.
func (r *Registry) Register(name string, b Builder) {
	r.builders[name] = b
}

// Known reports whether a plugin name is registered.
func (r *Registry) Known(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Build constructs the node for a protocol entry.
func (r *Registry) Build(p form.Protocol) (Node, error) {
	b, ok := r.builders[p.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, p.Name)
	}
	return b(p.Options)
}
