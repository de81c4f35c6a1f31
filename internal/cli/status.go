package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/runner"
)

// statusFlags holds the flag values for the status command.
type statusFlags struct {
	Report   string // --report <path>, defaults to run.report_file
	Scenario string // --scenario <name>, empty means all scenarios
	JSON     bool   // --json for structured output
	Verbose  bool   // --verbose for per-test details
}

// scenarioProgress tallies the results of one scenario in a saved report.
type scenarioProgress struct {
	Scenario    string  `json:"scenario"`
	Total       int     `json:"total"`
	Passed      int     `json:"passed"`
	Failed      int     `json:"failed"`
	Skipped     int     `json:"skipped"`
	SetupFailed bool    `json:"setup_failed"`
	Percent     float64 `json:"percent"`

	results []runner.Result
}

// statusOutput is the top-level JSON output type for the status command.
type statusOutput struct {
	RunID       string             `json:"run_id"`
	Fingerprint string             `json:"fingerprint,omitempty"`
	DryRun      bool               `json:"dry_run"`
	Summary     runner.Summary     `json:"summary"`
	Scenarios   []scenarioProgress `json:"scenarios"`
}

// newStatusCmd creates the "scenarist status" command.
func newStatusCmd() *cobra.Command {
	var flags statusFlags

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the last saved run report per scenario",
		Long: `Read the JSON report written by "scenarist run" and show, for every
scenario in run order, a progress bar of passed tests with the failed and
skipped counts.

The report is read from --report, or from run.report_file when the flag is
not given. Use --verbose to list every test. Use --json for structured
output suitable for scripting.`,
		Example: `  # Show every scenario of the last run
  scenarist status

  # Show only the advanced scenario with per-test details
  scenarist status --scenario advanced --verbose

  # Structured JSON output
  scenarist status --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Report, "report", "", "Report file to read (defaults to run.report_file)")
	cmd.Flags().StringVar(&flags.Scenario, "scenario", "", "Filter to a single scenario")
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "Output structured JSON to stdout")
	cmd.Flags().BoolVar(&flags.Verbose, "verbose", false, "Show per-test status details within each scenario")

	return cmd
}

func init() {
	rootCmd.AddCommand(newStatusCmd())
}

func runStatus(cmd *cobra.Command, flags statusFlags) error {
	path := flags.Report
	if path == "" {
		resolved, _, err := loadAndResolveConfig(nil)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		path = resolved.Config.Run.ReportFile
	}
	if path == "" {
		return errors.New("no report file: pass --report or set run.report_file")
	}

	report, err := runner.ReadReport(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(cmd.ErrOrStderr(), "No report found at %s. Run \"scenarist run\" first.\n", path)
			return nil
		}
		return err
	}

	groups := groupByScenario(report)
	if flags.Scenario != "" {
		groups = filterScenario(groups, flags.Scenario)
		if len(groups) == 0 {
			return fmt.Errorf("scenario %q has no results in %s", flags.Scenario, path)
		}
	}

	if flags.JSON {
		return renderStatusJSON(cmd.OutOrStdout(), report, groups)
	}

	out := cmd.OutOrStdout()
	for _, g := range groups {
		fmt.Fprint(out, renderScenarioProgress(g))
		if flags.Verbose {
			fmt.Fprint(out, renderTestDetails(g.results))
		}
		fmt.Fprintln(out)
	}
	sum := report.Summary()
	fmt.Fprintf(out, "Run %s: %d passed, %d failed, %d skipped\n", report.RunID, sum.Passed, sum.Failed, sum.Skipped)
	return nil
}

// groupByScenario tallies report results per scenario, in the order each
// scenario first appears in the run.
func groupByScenario(report *runner.Report) []scenarioProgress {
	setupFailed := make(map[string]bool, len(report.SetupFailed))
	for _, name := range report.SetupFailed {
		setupFailed[name] = true
	}

	index := make(map[string]int)
	var groups []scenarioProgress
	for _, res := range report.Results {
		i, ok := index[res.Scenario]
		if !ok {
			i = len(groups)
			index[res.Scenario] = i
			groups = append(groups, scenarioProgress{
				Scenario:    res.Scenario,
				SetupFailed: setupFailed[res.Scenario],
			})
		}
		g := &groups[i]
		g.Total++
		switch res.Status {
		case runner.StatusPassed:
			g.Passed++
		case runner.StatusFailed:
			g.Failed++
		case runner.StatusSkipped:
			g.Skipped++
		}
		g.results = append(g.results, res)
	}

	for i := range groups {
		if groups[i].Total > 0 {
			groups[i].Percent = float64(groups[i].Passed) / float64(groups[i].Total) * 100
		}
	}
	return groups
}

func filterScenario(groups []scenarioProgress, name string) []scenarioProgress {
	for _, g := range groups {
		if g.Scenario == name {
			return []scenarioProgress{g}
		}
	}
	return nil
}

// renderScenarioProgress returns a styled block for one scenario with a
// progress bar of passed tests and the non-zero counts.
//
//	Scenario base (setup failed)
//	████████░░░░░░░░░░░░ 40% (2/5)
//	2 passed, 3 skipped
func renderScenarioProgress(g scenarioProgress) string {
	const progressBarWidth = 40

	header := "Scenario " + g.Scenario
	if g.SetupFailed {
		header += " (setup failed)"
	}

	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(progressBarWidth),
		progress.WithoutPercentage(),
	)

	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render(header))
	sb.WriteString("\n")
	sb.WriteString(bar.ViewAs(g.Percent / 100))
	fmt.Fprintf(&sb, " %.0f%% (%d/%d)\n", g.Percent, g.Passed, g.Total)

	var parts []string
	if g.Passed > 0 {
		parts = append(parts, stylePassed.Render(fmt.Sprintf("%d passed", g.Passed)))
	}
	if g.Failed > 0 {
		parts = append(parts, styleFailed.Render(fmt.Sprintf("%d failed", g.Failed)))
	}
	if g.Skipped > 0 {
		parts = append(parts, styleSkipped.Render(fmt.Sprintf("%d skipped", g.Skipped)))
	}
	if len(parts) > 0 {
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderTestDetails lists each result with its status and reason or error.
func renderTestDetails(results []runner.Result) string {
	var sb strings.Builder
	for _, res := range results {
		var label string
		switch res.Status {
		case runner.StatusPassed:
			label = stylePassed.Render("PASS")
		case runner.StatusFailed:
			label = styleFailed.Render("FAIL")
		default:
			label = styleSkipped.Render("SKIP")
		}
		fmt.Fprintf(&sb, "  %s %s", label, res.ID)
		switch {
		case res.Error != "":
			sb.WriteString(styleDim.Render(" " + firstLine(res.Error)))
		case res.Reason != "":
			sb.WriteString(styleDim.Render(" " + res.Reason))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderStatusJSON(w io.Writer, report *runner.Report, groups []scenarioProgress) error {
	if groups == nil {
		groups = []scenarioProgress{}
	}
	data, err := json.MarshalIndent(statusOutput{
		RunID:       report.RunID,
		Fingerprint: report.Fingerprint,
		DryRun:      report.DryRun,
		Summary:     report.Summary(),
		Scenarios:   groups,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding status: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
