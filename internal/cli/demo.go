package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/collect"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/demo"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/orchestrate"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/scenario"
)

// demoFlags holds the flag values for the demo command.
type demoFlags struct {
	Scenarios []string
	NoSetup   bool
	LogFile   string
	JSON      bool
}

var demoOpts demoFlags

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the built-in demo scenarios",
	Long: `Run a self-contained pack of two scenarios, base and advanced, and two
tests. attr_a runs under both scenarios with params 1, 2 and 3; attr_b runs
under base only. Every hook and test appends a line to the demo log file, so
the file shows the execution order.

No configuration file is read.`,
	Example: `  scenarist demo
  scenarist demo --scenarios advanced
  scenarist demo --scenarios=
  scenarist demo --scenarios base --no-setup --log-file /tmp/demo.log`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd)
		defer stop()

		pack := demo.New(demoOpts.LogFile)
		reg := scenario.NewRegistry()
		if err := pack.Register(reg); err != nil {
			return err
		}
		tests, err := collect.Collect(reg, pack.Declarations())
		if err != nil {
			return err
		}

		cfg := orchestrate.RunConfig{Selection: orchestrate.All(), NoSetup: demoOpts.NoSetup}
		if cmd.Flags().Changed("scenarios") {
			cfg.Selection = orchestrate.Only(demoOpts.Scenarios...)
		}

		plan, err := orchestrate.BuildPlan(tests, cfg, reg)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if plan.ListMode {
			return orchestrate.WriteListing(out, plan.Scenarios)
		}

		report, err := executePlan(ctx, cmd.ErrOrStderr(), plan.Order, false)
		if report == nil {
			return err
		}
		report.Fingerprint = orchestrate.FormatFingerprint(plan.Fingerprint)
		if outErr := writeReport(out, report, demoOpts.JSON); outErr != nil {
			return outErr
		}
		if !demoOpts.JSON && !report.DryRun {
			fmt.Fprintf(out, "\nDemo log: %s\n", pack.LogPath())
		}

		if err != nil {
			return err
		}
		if report.Failed() {
			return errTestsFailed
		}
		return nil
	},
}

func init() {
	f := demoCmd.Flags()
	f.StringSliceVar(&demoOpts.Scenarios, "scenarios", nil, `Comma-separated demo scenarios to run; empty ("--scenarios=") lists them`)
	f.BoolVar(&demoOpts.NoSetup, "no-setup", false, "Skip setup and teardown of the single selected scenario")
	f.StringVar(&demoOpts.LogFile, "log-file", demo.DefaultLogFile, "File the demo hooks and tests append to")
	f.BoolVar(&demoOpts.JSON, "json", false, "Print the run report as JSON instead of the summary")
	rootCmd.AddCommand(demoCmd)
}
