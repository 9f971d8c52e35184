package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luskyqi1995/topobuilder/pkg/slurm"
)

// submitCommand creates the submit command. It hands a script to the
// scheduler configured in the settings file, or generates one first from
// the folding array template.
func (c *CLI) submitCommand() *cobra.Command {
	var (
		wait bool
		out  string
		tpl  slurm.JobTemplate
	)

	cmd := &cobra.Command{
		Use:   "submit [script]",
		Short: "Submit a script to the scheduler",
		Long: `Submit a script to the SLURM scheduler.

Without a script argument the command renders the folding array template
instead: --scratch, --prefix and --binary fill in where the job runs, how
outputs are prefixed and which executable folds. The rendered script is
written to --out and then submitted.

With --wait a control job is chained behind the submission and the command
blocks until it finishes.

Examples:
  topo submit demo/connectivity/funfoldes/submit_funfoldes.sh --wait
  topo submit --scratch /scratch/user/demo --prefix demo --binary /apps/rosetta_scripts --nstruct 4`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script := ""
			if len(args) == 1 {
				script = args[0]
			}
			if script == "" {
				if tpl.ScratchDir == "" || tpl.RunPrefix == "" || tpl.Binary == "" {
					return errors.New("either a script argument or --scratch, --prefix and --binary are required")
				}
				if tpl.ArraySize == 0 {
					tpl.ArraySize = c.Config.Slurm.Array
				}
				script = out
				if script == "" {
					script = tpl.RunPrefix + ".funfoldes.sh"
				}
				if err := os.WriteFile(script, []byte(slurm.ArrayScript(c.Config.Slurm, tpl)), 0755); err != nil {
					return err
				}
				printFile(script)
			}

			opts := []slurm.Option{slurm.WithLogger(c.Logger)}
			if c.SlurmRunner != nil {
				opts = append(opts, slurm.WithRunner(c.SlurmRunner))
			}
			submitter := slurm.NewSubmitter(c.Config.Slurm, opts...)

			if !wait {
				id, err := submitter.Submit(cmd.Context(), script)
				if err != nil {
					return err
				}
				printSuccess("Job %s submitted", StyleHighlight.Render(fmt.Sprintf("%d", id)))
				return nil
			}

			spinner := newSpinnerWithContext(cmd.Context(), "waiting for scheduler jobs")
			spinner.Start()
			err := submitter.SubmitAndWait(cmd.Context(), script)
			if err != nil {
				spinner.StopWithError("submission failed")
				return err
			}
			if spinner.Cancelled() {
				spinner.Stop()
				return cmd.Context().Err()
			}
			spinner.StopWithSuccess("all jobs finished")
			return nil
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "block until the submitted jobs finish")
	cmd.Flags().StringVar(&tpl.ScratchDir, "scratch", "", "scratch directory the array job runs in")
	cmd.Flags().StringVar(&tpl.RunPrefix, "prefix", "", "run name prefixing outputs and silent files")
	cmd.Flags().StringVar(&tpl.Binary, "binary", "", "rosetta_scripts executable for the array job")
	cmd.Flags().IntVar(&tpl.ArraySize, "array", 0, "array fan-out (default from settings)")
	cmd.Flags().IntVar(&tpl.NStruct, "nstruct", 2000, "structures per array task")
	cmd.Flags().StringVar(&out, "out", "", "path for the rendered script (default <prefix>.funfoldes.sh)")

	return cmd
}
