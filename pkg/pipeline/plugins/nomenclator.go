package plugins

import (
	"context"
	"strings"

	"github.com/luskyqi1995/topobuilder/pkg/form"
	"github.com/luskyqi1995/topobuilder/pkg/pipeline"
)

// reservedKeywords are names plugins use for their own first-level
// subfolders; allowing them as subnames would nest working trees into each
// other on re-runs.
var reservedKeywords = map[string]bool{
	"architecture": true,
	"connectivity": true,
	"images":       true,
	"summary":      true,
}

// Nomenclator appends subnames to the case name, which prefixes every
// working folder the rest of the pipeline creates.
type Nomenclator struct {
	subnames []string
}

// NewNomenclator builds the node from its "subnames" option.
func NewNomenclator(opts map[string]any) (pipeline.Node, error) {
	subnames, err := optStrings(opts, "subnames")
	if err != nil {
		return nil, &pipeline.OptionsError{Node: "nomenclator", Reason: err.Error()}
	}
	if len(subnames) == 0 {
		return nil, &pipeline.OptionsError{Node: "nomenclator", Reason: "at least one subname is required"}
	}
	for _, sn := range subnames {
		if reservedKeywords[sn] {
			return nil, &pipeline.OptionsError{Node: "nomenclator",
				Reason: "subname " + sn + " is a reserved keyword"}
		}
	}
	return &Nomenclator{subnames: subnames}, nil
}

func (n *Nomenclator) Name() string { return "nomenclator" }

func (n *Nomenclator) Check(cases []form.Case) error {
	for _, c := range cases {
		if c.Name() == "" {
			return &pipeline.DataError{Node: "nomenclator", Reason: "case has no name"}
		}
	}
	return nil
}

// Execute renames the cases. A case whose name already ends with the
// subname suffix is left alone so re-running a pipeline does not stack
// suffixes.
func (n *Nomenclator) Execute(ctx context.Context, cases []form.Case) ([]form.Case, error) {
	suffix := strings.Join(n.subnames, "_")
	for i := range cases {
		if strings.HasSuffix(cases[i].Name(), "_"+suffix) || cases[i].Name() == suffix {
			continue
		}
		cases[i].Configuration.Name = cases[i].Name() + "_" + suffix
	}
	return cases, nil
}

var _ pipeline.Node = (*Nomenclator)(nil)
