package plugins

import (
	"context"

	"gopkg.in/yaml.v3"

	"github.com/luskyqi1995/topobuilder/pkg/form"
	"github.com/luskyqi1995/topobuilder/pkg/pipeline"
)

// Corrector applies placement corrections to the SSEs of a FORM, both from
// protocol options and from correction sets embedded in the case itself.
type Corrector struct {
	corrections []form.CorrectionSet
}

// NewCorrector builds the node from its "corrections" option: a file path,
// a list of file paths, or an inline correction map.
func NewCorrector(opts map[string]any) (pipeline.Node, error) {
	node := &Corrector{}

	switch v := opts["corrections"].(type) {
	case nil:
	case map[string]any:
		cs, err := decodeCorrectionSet(v)
		if err != nil {
			return nil, &pipeline.OptionsError{Node: "corrector", Reason: err.Error()}
		}
		node.corrections = append(node.corrections, cs)
	default:
		files, err := optStrings(opts, "corrections")
		if err != nil {
			return nil, &pipeline.OptionsError{Node: "corrector", Reason: err.Error()}
		}
		for _, f := range files {
			cs, err := form.LoadCorrections(f)
			if err != nil {
				return nil, &pipeline.OptionsError{Node: "corrector", Reason: err.Error()}
			}
			node.corrections = append(node.corrections, cs)
		}
	}
	return node, nil
}

// decodeCorrectionSet converts an inline protocol option map into a typed
// correction set by way of YAML.
func decodeCorrectionSet(v map[string]any) (form.CorrectionSet, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	var cs form.CorrectionSet
	if err := yaml.Unmarshal(data, &cs); err != nil {
		return nil, err
	}
	return cs, nil
}

func (n *Corrector) Name() string { return "corrector" }

func (n *Corrector) Check(cases []form.Case) error {
	for _, c := range cases {
		if !c.HasArchitecture() {
			return &pipeline.DataError{Node: "corrector", Reason: "case has no architecture"}
		}
	}
	return nil
}

// Execute applies the protocol-provided sets first, then any sets the case
// carries in its SSE metadata, in architecture order.
func (n *Corrector) Execute(ctx context.Context, cases []form.Case) ([]form.Case, error) {
	for i := range cases {
		c := cases[i]
		sets := append([]form.CorrectionSet(nil), n.corrections...)
		for _, layer := range c.Topology.Architecture {
			for _, sse := range layer {
				if sse.Metadata != nil {
					sets = append(sets, sse.Metadata.Corrections...)
				}
			}
		}

		var err error
		for _, cs := range sets {
			c, err = c.ApplyCorrections(cs)
			if err != nil {
				return nil, err
			}
		}
		cases[i] = c
	}
	return cases, nil
}

var _ pipeline.Node = (*Corrector)(nil)
