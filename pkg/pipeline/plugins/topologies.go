package plugins

import (
	"context"

	"github.com/luskyqi1995/topobuilder/pkg/form"
	"github.com/luskyqi1995/topobuilder/pkg/pipeline"
)

// Topologies fans each case out into one case per connectivity, reoriented
// for that connectivity.
type Topologies struct{}

func NewTopologies(opts map[string]any) (pipeline.Node, error) {
	return &Topologies{}, nil
}

func (n *Topologies) Name() string { return "topologies" }

func (n *Topologies) Check(cases []form.Case) error {
	for _, c := range cases {
		if c.ConnectivityCount() == 0 {
			return &pipeline.DataError{Node: "topologies",
				Reason: "case " + c.Name() + " has no connectivities to apply"}
		}
	}
	return nil
}

func (n *Topologies) Execute(ctx context.Context, cases []form.Case) ([]form.Case, error) {
	var out []form.Case
	for _, c := range cases {
		expanded, err := c.ApplyTopologies()
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}

var _ pipeline.Node = (*Topologies)(nil)
