package cli

import (
	"github.com/spf13/cobra"

	"github.com/luskyqi1995/topobuilder/pkg/builder"
	"github.com/luskyqi1995/topobuilder/pkg/form"
)

// buildCommand creates the build command. It materializes atoms for every
// secondary structure of a case and writes the sketch PDB.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		caseFile     string
		connectivity bool
		overwrite    bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the parametric sketch for a case",
		Long: `Build parametric backbones for every secondary structure of a case.

The case directory is set up next to the case file and the full sketch is
written as architecture/sketch.pdb. With --connectivity the single declared
connectivity is applied first, flipping every second element.

Example:
  topo build -c 2H4E2H.absolute.yml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := form.Load(caseFile)
			if err != nil {
				return err
			}

			if connectivity && loaded.ConnectivityCount() == 1 && !loaded.IsReoriented() {
				expanded, err := loaded.ApplyTopologies()
				if err != nil {
					return err
				}
				loaded = expanded[0]
			}

			prog := newProgress(c.Logger)
			ws, err := builder.Setup(loaded, overwrite || c.Config.System.Overwrite)
			if err != nil {
				return err
			}
			path, err := builder.WriteSketch(loaded, ws)
			if err != nil {
				return err
			}
			prog.done("Sketch built")

			printSuccess("Case %s built", StyleHighlight.Render(loaded.Name()))
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&caseFile, "case", "c", "", "case file to build (required)")
	cmd.Flags().BoolVar(&connectivity, "connectivity", true, "apply the declared connectivity before building")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "rebuild over an existing case directory")
	_ = cmd.MarkFlagRequired("case")

	return cmd
}
