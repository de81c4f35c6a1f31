package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/config"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/orchestrate"
)

// listScenarioOutput is the JSON shape of one listed scenario.
type listScenarioOutput struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Attributes  map[string]any `json:"attributes"`
}

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered scenarios",
	Long: `Print every registered scenario in registration order with its
description. Same as "scenarist run --scenarios=".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd)
		defer stop()

		p, err := loadProject(ctx, listOverrides())
		if err != nil {
			return err
		}

		plan, err := orchestrate.BuildPlan(p.tests, orchestrate.RunConfig{Selection: orchestrate.Only()}, p.registry)
		if err != nil {
			return err
		}

		if !listJSON {
			return orchestrate.WriteListing(cmd.OutOrStdout(), plan.Scenarios)
		}
		out := make([]listScenarioOutput, 0, len(plan.Scenarios))
		for _, s := range plan.Scenarios {
			out = append(out, listScenarioOutput{
				Name:        s.Name(),
				Description: s.Description(),
				Attributes:  s.Attributes(),
			})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding scenarios: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print the scenarios as JSON")
	rootCmd.AddCommand(listCmd)
}

// listOverrides forces list mode so a run.no_setup left in the file or
// environment never fails validation of a listing.
func listOverrides() *config.CLIOverrides {
	empty := []string{}
	noSetup := false
	return &config.CLIOverrides{Scenarios: &empty, NoSetup: &noSetup}
}
