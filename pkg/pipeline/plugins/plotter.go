package plugins

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/luskyqi1995/topobuilder/pkg/form"
	"github.com/luskyqi1995/topobuilder/pkg/pipeline"
	"github.com/luskyqi1995/topobuilder/pkg/render"
)

var plotTypes = map[string]func(form.Case, ...render.SketchOption) ([]byte, error){
	"sketchXZ": render.SketchXZ,
	"sketchXY": render.SketchXY,
}

// Plotter renders 2D sketches of the cases as SVG files.
type Plotter struct {
	prefix    string
	types     []string
	overwrite bool
	log       *log.Logger
}

func plotterBuilder(cfg Config) pipeline.Builder {
	return func(opts map[string]any) (pipeline.Node, error) {
		types, err := optStrings(opts, "types")
		if err != nil {
			return nil, &pipeline.OptionsError{Node: "plotter", Reason: err.Error()}
		}
		if len(types) == 0 {
			types = []string{"sketchXZ"}
		}
		for _, t := range types {
			if _, ok := plotTypes[t]; !ok {
				return nil, &pipeline.OptionsError{Node: "plotter",
					Reason: "unknown plot type " + t}
			}
		}
		return &Plotter{
			prefix:    optString(opts, "prefix", ""),
			types:     types,
			overwrite: optBool(opts, "overwrite", cfg.Overwrite),
			log:       cfg.logger(),
		}, nil
	}
}

func (n *Plotter) Name() string { return "plotter" }

func (n *Plotter) Check(cases []form.Case) error {
	for _, c := range cases {
		if !c.HasArchitecture() {
			return &pipeline.DataError{Node: "plotter", Reason: "case has no architecture"}
		}
	}
	return nil
}

// Execute writes one file per case and plot type, named
// <prefix><case>.<type>.svg. Existing files are kept unless overwrite.
func (n *Plotter) Execute(ctx context.Context, cases []form.Case) ([]form.Case, error) {
	for _, c := range cases {
		for _, t := range n.types {
			outfile := fmt.Sprintf("%s%s.%s.svg", n.prefix, c.Name(), t)
			if _, err := os.Stat(outfile); err == nil && !n.overwrite {
				n.log.Warn("unable to overwrite existing image", "file", outfile)
				continue
			}
			svg, err := plotTypes[t](c)
			if err != nil {
				return nil, fmt.Errorf("plotting %s of %s: %w", t, c.Name(), err)
			}
			if dir := filepath.Dir(outfile); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return nil, err
				}
			}
			if err := os.WriteFile(outfile, svg, 0644); err != nil {
				return nil, err
			}
			n.log.Info("image created", "file", outfile)
		}
	}
	return cases, nil
}

var _ pipeline.Node = (*Plotter)(nil)
