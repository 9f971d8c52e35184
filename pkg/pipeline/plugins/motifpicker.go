package plugins

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/luskyqi1995/topobuilder/pkg/form"
	"github.com/luskyqi1995/topobuilder/pkg/pipeline"
)

var sseIDPattern = regexp.MustCompile(`^[A-Z]\d+[HE]$`)

// MotifPicker attaches binding-motif segments from a source structure to
// SSEs of the FORM. Each selection segment maps to one SSE, recorded in the
// SSE metadata as source:segment.
type MotifPicker struct {
	source    string
	selection []string
	attach    []string
}

// NewMotifPicker builds the node from its options: "source" names the
// structure file, "selection" the comma-separated residue segments, and
// "attach" the SSE ids receiving them.
func NewMotifPicker(opts map[string]any) (pipeline.Node, error) {
	source := optString(opts, "source", "")
	if source == "" {
		return nil, &pipeline.OptionsError{Node: "motifpicker", Reason: "source structure is required"}
	}
	if _, err := os.Stat(source); err != nil {
		return nil, &pipeline.OptionsError{Node: "motifpicker",
			Reason: fmt.Sprintf("source structure %s cannot be found", source)}
	}

	selection := strings.Split(optString(opts, "selection", ""), ",")
	if len(selection) == 1 && selection[0] == "" {
		return nil, &pipeline.OptionsError{Node: "motifpicker", Reason: "selection is required"}
	}

	attach, err := optStrings(opts, "attach")
	if err != nil {
		return nil, &pipeline.OptionsError{Node: "motifpicker", Reason: err.Error()}
	}
	if len(attach) != len(selection) {
		return nil, &pipeline.OptionsError{Node: "motifpicker",
			Reason: fmt.Sprintf("%d selection segments assigned to %d structures", len(selection), len(attach))}
	}
	for _, id := range attach {
		if !sseIDPattern.MatchString(id) {
			return nil, &pipeline.OptionsError{Node: "motifpicker",
				Reason: "unrecognized SSE identifier " + id}
		}
	}

	return &MotifPicker{source: source, selection: selection, attach: attach}, nil
}

func (n *MotifPicker) Name() string { return "motifpicker" }

func (n *MotifPicker) Check(cases []form.Case) error {
	for _, c := range cases {
		for _, id := range n.attach {
			if _, ok := c.StructureByID(id); !ok {
				return &pipeline.DataError{Node: "motifpicker",
					Reason: fmt.Sprintf("case %s has no SSE %s", c.Name(), id)}
			}
		}
	}
	return nil
}

func (n *MotifPicker) Execute(ctx context.Context, cases []form.Case) ([]form.Case, error) {
	for ci := range cases {
		c := cases[ci]
		for k, id := range n.attach {
			for li, layer := range c.Topology.Architecture {
				for si, sse := range layer {
					if sse.ID != id {
						continue
					}
					if sse.Metadata == nil {
						sse.Metadata = &form.StructureMeta{}
					}
					sse.Metadata.Motif = n.source + ":" + n.selection[k]
					c.Topology.Architecture[li][si] = sse
				}
			}
		}
		cases[ci] = c
	}
	return cases, nil
}

var _ pipeline.Node = (*MotifPicker)(nil)
