package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luskyqi1995/topobuilder/pkg/form"
)

// caseOpts holds the command-line flags for the case command.
type caseOpts struct {
	name         string
	architecture string
	topology     string
	format       string
	corrections  []string
}

// caseCommand creates the case command. It writes a new case file from an
// architecture or topology description.
func (c *CLI) caseCommand() *cobra.Command {
	opts := caseOpts{format: form.FormatYAML}

	cmd := &cobra.Command{
		Use:   "case",
		Short: "Create a new case file",
		Long: `Create a new case file from a FORM description.

An architecture fixes the layers without connectivity ("2H.4E.2H"), a
topology fixes the connectivity too ("A1H.B2E.B1E..."). Per-element lengths
ride along after colons ("2H:13:13.4E").

Examples:
  topo case -n 2H4E2H -a 2H.4E.2H
  topo case -n sandwich -t B1E.B2E.A1H.B3E -f json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			built, err := buildCase(opts.name, opts.architecture, opts.topology)
			if err != nil {
				return err
			}
			for _, path := range opts.corrections {
				cs, err := form.LoadCorrections(path)
				if err != nil {
					return err
				}
				if built, err = built.ApplyCorrections(cs); err != nil {
					return fmt.Errorf("apply corrections %s: %w", path, err)
				}
			}

			path, err := built.Save("", opts.format)
			if err != nil {
				return err
			}
			printSuccess("Case %s created", StyleHighlight.Render(built.Name()))
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "case name (required)")
	cmd.Flags().StringVarP(&opts.architecture, "architecture", "a", "", "architecture description, e.g. 2H.4E.2H")
	cmd.Flags().StringVarP(&opts.topology, "topology", "t", "", "topology description, e.g. A1H.B2E.B1E")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: yaml or json")
	cmd.Flags().StringSliceVar(&opts.corrections, "corrections", nil, "correction files to apply")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// buildCase constructs a case from exactly one of the two descriptions.
func buildCase(name, architecture, topology string) (form.Case, error) {
	switch {
	case architecture != "" && topology != "":
		return form.Case{}, errors.New("-architecture and -topology are mutually exclusive")
	case architecture != "":
		return form.New(name).AddArchitecture(architecture)
	case topology != "":
		return form.New(name).AddTopology(topology)
	default:
		return form.Case{}, errors.New("one of -architecture or -topology is required")
	}
}
