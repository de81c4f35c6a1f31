package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/config"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/orchestrate"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/testcase"
)

// planOutput is the JSON shape of the plan command.
type planOutput struct {
	Fingerprint string              `json:"fingerprint"`
	NoSetup     bool                `json:"no_setup"`
	Tests       []testcase.TestCase `json:"tests"`
}

// planFlags holds the flag values for the plan command.
type planFlags struct {
	Scenarios []string
	NoSetup   bool
	JSON      bool
}

var planOpts planFlags

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the execution order without running anything",
	Long: `Collect and reorder the tests exactly as "scenarist run" would, then
print the execution order grouped by scenario with its fingerprint. Two runs
with the same fingerprint execute the same tests in the same order.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd)
		defer stop()

		overrides := &config.CLIOverrides{}
		if cmd.Flags().Changed("scenarios") {
			scenarios := planOpts.Scenarios
			if scenarios == nil {
				scenarios = []string{}
			}
			overrides.Scenarios = &scenarios
		}
		if cmd.Flags().Changed("no-setup") {
			overrides.NoSetup = &planOpts.NoSetup
		}

		p, err := loadProject(ctx, overrides)
		if err != nil {
			return err
		}
		plan, err := orchestrate.BuildPlan(p.tests, p.runConfig(), p.registry)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if plan.ListMode {
			return orchestrate.WriteListing(out, plan.Scenarios)
		}
		if !planOpts.JSON {
			_, err := fmt.Fprint(out, renderPlan(plan))
			return err
		}
		data, err := json.MarshalIndent(planOutput{
			Fingerprint: orchestrate.FormatFingerprint(plan.Fingerprint),
			NoSetup:     plan.NoSetup,
			Tests:       plan.Order,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding plan: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	},
}

func init() {
	f := planCmd.Flags()
	f.StringSliceVar(&planOpts.Scenarios, "scenarios", nil, `Comma-separated scenarios to plan; empty ("--scenarios=") lists them`)
	f.BoolVar(&planOpts.NoSetup, "no-setup", false, "Plan without setup and teardown for the single selected scenario")
	f.BoolVar(&planOpts.JSON, "json", false, "Print the plan as JSON")
	_ = planCmd.RegisterFlagCompletionFunc("scenarios", completeScenarioNames)
	rootCmd.AddCommand(planCmd)
}
