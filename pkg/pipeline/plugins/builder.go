package plugins

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/luskyqi1995/topobuilder/pkg/builder"
	"github.com/luskyqi1995/topobuilder/pkg/form"
	"github.com/luskyqi1995/topobuilder/pkg/pipeline"
)

// Builder turns the placed FORM into parametric backbone coordinates: one
// atom set per SSE, stored in the SSE metadata, plus a chained sketch PDB
// in the case working tree.
type Builder struct {
	connectivity bool
	overwrite    bool
	write        bool
	log          *log.Logger
}

func builderBuilder(cfg Config) pipeline.Builder {
	return func(opts map[string]any) (pipeline.Node, error) {
		return &Builder{
			connectivity: optBool(opts, "connectivity", true),
			overwrite:    optBool(opts, "overwrite", cfg.Overwrite),
			write:        optBool(opts, "write", true),
			log:          cfg.logger(),
		}, nil
	}
}

func (n *Builder) Name() string { return "builder" }

func (n *Builder) Check(cases []form.Case) error {
	for _, c := range cases {
		if !c.HasArchitecture() {
			return &pipeline.DataError{Node: "builder", Reason: "case has no architecture"}
		}
		if c.ConnectivityCount() > 1 {
			return &pipeline.DataError{Node: "builder",
				Reason: fmt.Sprintf("case %s has %d connectivities, can only build one", c.Name(), c.ConnectivityCount())}
		}
	}
	return nil
}

func (n *Builder) Execute(ctx context.Context, cases []form.Case) ([]form.Case, error) {
	for i := range cases {
		built, err := n.caseApply(cases[i])
		if err != nil {
			return nil, err
		}
		cases[i] = built
	}
	return cases, nil
}

func (n *Builder) caseApply(c form.Case) (form.Case, error) {
	var err error
	if n.connectivity && c.ConnectivityCount() == 1 && !c.IsReoriented() {
		expanded, err := c.ApplyTopologies()
		if err != nil {
			return form.Case{}, err
		}
		c = expanded[0]
	}
	c, err = c.CastAbsolute()
	if err != nil {
		return form.Case{}, err
	}

	for li, layer := range c.Topology.Architecture {
		for si, sse := range layer {
			if sse.Metadata != nil && len(sse.Metadata.Atoms) > 0 && !n.overwrite {
				n.log.Debug("atoms already defined", "case", c.Name(), "sse", sse.ID)
				continue
			}
			structure, err := builder.Build(sse)
			if err != nil {
				return form.Case{}, fmt.Errorf("building %s.%s: %w", c.Name(), sse.ID, err)
			}
			if sse.Metadata == nil {
				sse.Metadata = &form.StructureMeta{}
			}
			sse.Metadata.Atoms = structure.Atoms
			c.Topology.Architecture[li][si] = sse
		}
	}

	if n.write {
		ws, err := builder.Setup(c, false)
		if err != nil {
			return form.Case{}, err
		}
		if _, err := builder.WriteSketch(c, ws); err != nil {
			return form.Case{}, err
		}
	}
	return c, nil
}

var _ pipeline.Node = (*Builder)(nil)
