package plugins

import (
	"context"
	"fmt"
	"sort"

	"github.com/luskyqi1995/topobuilder/pkg/form"
	"github.com/luskyqi1995/topobuilder/pkg/pipeline"
)

// Ranger expands cases over per-layer SSE count ranges: a range of 2-4 on
// one layer turns each case into three, one per count. Ranges on multiple
// layers multiply.
type Ranger struct {
	layers []layerRange
}

type layerRange struct {
	layer    string
	min, max int
}

// NewRanger builds the node from its "layers" option, a map of layer
// letter to [min, max] count.
func NewRanger(opts map[string]any) (pipeline.Node, error) {
	raw, ok := opts["layers"].(map[string]any)
	if !ok {
		return nil, &pipeline.OptionsError{Node: "ranger", Reason: "layers map is required"}
	}

	node := &Ranger{}
	for letter, bounds := range raw {
		pair, ok := bounds.([]any)
		if !ok || len(pair) != 2 {
			return nil, &pipeline.OptionsError{Node: "ranger",
				Reason: fmt.Sprintf("layer %s: range must be [min, max]", letter)}
		}
		lr := layerRange{layer: letter}
		var okMin, okMax bool
		lr.min, okMin = toInt(pair[0])
		lr.max, okMax = toInt(pair[1])
		if !okMin || !okMax || lr.min < 1 || lr.max < lr.min {
			return nil, &pipeline.OptionsError{Node: "ranger",
				Reason: fmt.Sprintf("layer %s: invalid range %v", letter, pair)}
		}
		node.layers = append(node.layers, lr)
	}
	sort.Slice(node.layers, func(i, j int) bool { return node.layers[i].layer < node.layers[j].layer })
	return node, nil
}

func (n *Ranger) Name() string { return "ranger" }

// Check rejects cases that already fixed a connectivity, since changing
// layer counts would invalidate it.
func (n *Ranger) Check(cases []form.Case) error {
	for _, c := range cases {
		if c.ConnectivityCount() != 0 {
			return &pipeline.DataError{Node: "ranger",
				Reason: "cannot range layers of a case with defined connectivity"}
		}
		for _, lr := range n.layers {
			if _, err := c.LayerType(layerIndex(lr.layer)); err != nil {
				return &pipeline.DataError{Node: "ranger",
					Reason: fmt.Sprintf("case %s has no layer %s", c.Name(), lr.layer)}
			}
		}
	}
	return nil
}

func (n *Ranger) Execute(ctx context.Context, cases []form.Case) ([]form.Case, error) {
	out := append([]form.Case(nil), cases...)
	for _, lr := range n.layers {
		var next []form.Case
		for count := lr.min; count <= lr.max; count++ {
			for _, c := range out {
				ranged, err := c.WithLayerCount(layerIndex(lr.layer), count)
				if err != nil {
					return nil, err
				}
				next = append(next, ranged)
			}
		}
		out = next
	}
	return out, nil
}

func layerIndex(letter string) int {
	if len(letter) != 1 {
		return -1
	}
	return int(letter[0] - 'A')
}

var _ pipeline.Node = (*Ranger)(nil)
