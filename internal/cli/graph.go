package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luskyqi1995/topobuilder/pkg/form"
	"github.com/luskyqi1995/topobuilder/pkg/render"
)

// graphCommand creates the graph command. It renders the connectivity of a
// case as a directed graph.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		caseFile string
		format   string
		detailed bool
		output   string
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the connectivity graph of a case",
		Long: `Render the connectivity of a case as a directed graph.

Each secondary structure is a node and each connectivity contributes the
edges walked along it. With more than one connectivity the edges carry the
connectivity index as label.

Example:
  topo graph -c 2H4E2H.yml --format svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := form.Load(caseFile)
			if err != nil {
				return err
			}
			if loaded.ConnectivityCount() == 0 {
				return fmt.Errorf("case %s declares no connectivity", loaded.Name())
			}

			dot := render.ToDOT(loaded, render.GraphOptions{Detailed: detailed})

			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case "svg":
				data, err = render.RenderSVG(dot)
			case "png":
				data, err = render.RenderPNG(dot)
			default:
				return fmt.Errorf("unknown format %s, available: svg, dot, png", format)
			}
			if err != nil {
				return err
			}

			outfile := output
			if outfile == "" {
				outfile = fmt.Sprintf("%s.graph.%s", loaded.Name(), format)
			}
			if err := os.WriteFile(outfile, data, 0644); err != nil {
				return err
			}
			printFile(outfile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&caseFile, "case", "c", "", "case file to graph (required)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg, dot or png")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with type and length")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <name>.graph.<format>)")
	_ = cmd.MarkFlagRequired("case")

	return cmd
}
