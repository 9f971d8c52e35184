package plugins

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/luskyqi1995/topobuilder/pkg/form"
	"github.com/luskyqi1995/topobuilder/pkg/pipeline"
	"github.com/luskyqi1995/topobuilder/pkg/render"
)

// Graph exports the connectivity network of each case as DOT, SVG, or PNG.
type Graph struct {
	format    string
	detailed  bool
	overwrite bool
	log       *log.Logger
}

func graphBuilder(cfg Config) pipeline.Builder {
	return func(opts map[string]any) (pipeline.Node, error) {
		format := optString(opts, "format", "svg")
		switch format {
		case "svg", "dot", "png":
		default:
			return nil, &pipeline.OptionsError{Node: "graph", Reason: "unknown format " + format}
		}
		return &Graph{
			format:    format,
			detailed:  optBool(opts, "detailed", false),
			overwrite: optBool(opts, "overwrite", cfg.Overwrite),
			log:       cfg.logger(),
		}, nil
	}
}

func (n *Graph) Name() string { return "graph" }

func (n *Graph) Check(cases []form.Case) error {
	for _, c := range cases {
		if c.ConnectivityCount() == 0 {
			return &pipeline.DataError{Node: "graph",
				Reason: "case " + c.Name() + " has no connectivity to draw"}
		}
	}
	return nil
}

func (n *Graph) Execute(ctx context.Context, cases []form.Case) ([]form.Case, error) {
	for _, c := range cases {
		outfile := fmt.Sprintf("%s.graph.%s", c.Name(), n.format)
		if _, err := os.Stat(outfile); err == nil && !n.overwrite {
			n.log.Warn("unable to overwrite existing graph", "file", outfile)
			continue
		}

		dot := render.ToDOT(c, render.GraphOptions{Detailed: n.detailed})
		var data []byte
		var err error
		switch n.format {
		case "dot":
			data = []byte(dot)
		case "svg":
			data, err = render.RenderSVG(dot)
		case "png":
			data, err = render.RenderPNG(dot)
		}
		if err != nil {
			return nil, fmt.Errorf("rendering graph of %s: %w", c.Name(), err)
		}
		if err := os.WriteFile(outfile, data, 0644); err != nil {
			return nil, err
		}
		n.log.Info("graph created", "file", outfile)
	}
	return cases, nil
}

var _ pipeline.Node = (*Graph)(nil)
