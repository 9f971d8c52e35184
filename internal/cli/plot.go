package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luskyqi1995/topobuilder/pkg/form"
	"github.com/luskyqi1995/topobuilder/pkg/render"
)

// plotViews maps view names to render functions.
var plotViews = map[string]func(form.Case, ...render.SketchOption) ([]byte, error){
	"sketchXZ": render.SketchXZ,
	"sketchXY": render.SketchXY,
}

// plotCommand creates the plot command. It draws schematic SVG views of a
// case.
func (c *CLI) plotCommand() *cobra.Command {
	var (
		caseFiles []string
		views     []string
		prefix    string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Plot schematic views of case files",
		Long: `Plot schematic SVG views of one or more case files.

sketchXZ looks down the layers from the top, sketchXY faces them from the
front. Files are written as <prefix><name>.<view>.svg.

Example:
  topo plot -c 2H4E2H.yml --type sketchXZ,sketchXY`,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, view := range views {
				if _, ok := plotViews[view]; !ok {
					return fmt.Errorf("unknown plot type %s", view)
				}
			}
			for _, path := range caseFiles {
				loaded, err := form.Load(path)
				if err != nil {
					return err
				}
				for _, view := range views {
					outfile := fmt.Sprintf("%s%s.%s.svg", prefix, loaded.Name(), view)
					if _, err := os.Stat(outfile); err == nil && !overwrite && !c.Config.System.Overwrite {
						printWarning("%s already exists, skipping", outfile)
						continue
					}
					svg, err := plotViews[view](loaded)
					if err != nil {
						return err
					}
					if err := os.WriteFile(outfile, svg, 0644); err != nil {
						return err
					}
					printFile(outfile)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&caseFiles, "case", "c", nil, "case files to plot (required)")
	cmd.Flags().StringSliceVar(&views, "type", []string{"sketchXZ"}, "plot types: sketchXZ, sketchXY")
	cmd.Flags().StringVar(&prefix, "prefix", "", "output filename prefix")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace existing images")
	_ = cmd.MarkFlagRequired("case")

	return cmd
}
