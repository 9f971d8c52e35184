package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/luskyqi1995/topobuilder/pkg/form"
	"github.com/luskyqi1995/topobuilder/pkg/pipeline"
)

// protocolCommand creates the protocol command. It loads cases and runs the
// configured plugin pipeline over them.
func (c *CLI) protocolCommand() *cobra.Command {
	var (
		caseFiles    []string
		protocolFile string
		overwrite    bool
		noCache      bool
	)

	cmd := &cobra.Command{
		Use:   "protocol",
		Short: "Run a protocol pipeline over case files",
		Long: `Run a protocol pipeline over one or more case files.

Protocols come either from the case files themselves or from a separate
protocol file, never both. Protocols already marked done are skipped unless
the checkpoint cache is bypassed.

Examples:
  topo protocol -c 2H4E2H.yml
  topo protocol -c 2H4E2H.yml -p protocols.yml --overwrite`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(caseFiles) == 0 {
				return errors.New("at least one case file is required")
			}
			cases := make([]form.Case, 0, len(caseFiles))
			for _, path := range caseFiles {
				loaded, err := form.Load(path)
				if err != nil {
					return err
				}
				cases = append(cases, loaded)
			}

			protocols, err := pipeline.LoadProtocols(cases[0], protocolFile)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(overwrite, noCache)
			if err != nil {
				return err
			}

			printBanner("protocol run")
			done, stats, err := runner.Run(cmd.Context(), cases, protocols)
			if err != nil {
				return err
			}

			for _, d := range done {
				path, err := d.Save("", form.FormatYAML)
				if err != nil {
					return err
				}
				printFile(path)
			}
			printSuccess("Executed %d protocols over %d cases in %s",
				stats.Executed, stats.Cases, stats.Duration.Round(timeRound))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&caseFiles, "case", "c", nil, "case files to process (required)")
	cmd.Flags().StringVarP(&protocolFile, "protocol", "p", "", "protocol file (defaults to the case's own protocols)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace files written by earlier runs")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the checkpoint cache")
	_ = cmd.MarkFlagRequired("case")

	return cmd
}
