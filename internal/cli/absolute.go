package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luskyqi1995/topobuilder/pkg/form"
)

// absoluteCommand creates the absolute command. It reads a relative case,
// applies corrections and writes the absolute version next to it.
func (c *CLI) absoluteCommand() *cobra.Command {
	var (
		caseFile    string
		caseOut     string
		corrections []string
		format      string
		overwrite   bool
	)

	cmd := &cobra.Command{
		Use:   "absolute",
		Short: "Cast a case file to absolute coordinates",
		Long: `Cast a relative case file to absolute coordinates.

The output name defaults to "<name>.absolute". When the output file already
exists the command does nothing, so it is safe to re-run inside workflows.

Example:
  topo absolute -c 2H4E2H.yml --corrections corrections.yml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := form.Load(caseFile)
			if err != nil {
				return err
			}

			out := caseOut
			if out == "" {
				out = loaded.Name() + ".absolute"
			}
			target := out + "." + extension(format)
			if _, err := os.Stat(target); err == nil && !overwrite && !c.Config.System.Overwrite {
				printInfo("Output %s already exists, nothing to do", StyleValue.Render(target))
				return nil
			}

			for _, path := range corrections {
				cs, err := form.LoadCorrections(path)
				if err != nil {
					return err
				}
				if loaded, err = loaded.ApplyCorrections(cs); err != nil {
					return fmt.Errorf("apply corrections %s: %w", path, err)
				}
			}

			abs, err := loaded.CastAbsolute()
			if err != nil {
				return err
			}
			path, err := abs.Save(out, format)
			if err != nil {
				return err
			}
			printSuccess("Case %s cast to absolute coordinates", StyleHighlight.Render(abs.Name()))
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&caseFile, "case", "c", "", "case file to cast (required)")
	cmd.Flags().StringVar(&caseOut, "caseout", "", "output prefix (default <name>.absolute)")
	cmd.Flags().StringSliceVar(&corrections, "corrections", nil, "correction files to apply before casting")
	cmd.Flags().StringVarP(&format, "format", "f", form.FormatYAML, "output format: yaml or json")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing output file")
	_ = cmd.MarkFlagRequired("case")

	return cmd
}

func extension(format string) string {
	if format == form.FormatJSON {
		return "json"
	}
	return "yml"
}
