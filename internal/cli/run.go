package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/config"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/logging"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/orchestrate"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/runner"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/testcase"
)

// eventBufferSize is the capacity of the progress event channel. The runner
// waits on a full channel, so every event reaches the progress output.
const eventBufferSize = 64

// runFlags holds the flag values for the run command.
type runFlags struct {
	Scenarios []string // --scenarios; "--scenarios=" lists scenarios
	NoSetup   bool     // --no-setup
	Pick      bool     // --pick: choose scenarios interactively
	JSON      bool     // --json: print the report as JSON
	Report    string   // --report: write the JSON report to a file
	Manifests []string // --manifest
	Shell     string   // --shell
	Live      bool     // --live: interactive progress view
}

var runOpts runFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run tests grouped by scenario",
	Long: `Collect the tests declared by the manifests, group them into one suite
per selected scenario and run the suites in registration order. Each suite
runs its setup, its tests in discovery order, then its teardown.

When a scenario's setup fails, its tests are reported as skipped with the
reason "Setup for <scenario> failed, skipping..." and its teardown still runs.

Scenario selection:
  (no flag)              run every registered scenario
  --scenarios a,b        run only the named scenarios
  --scenarios=           list the available scenarios and run nothing
  --pick                 choose scenarios interactively

--no-setup skips setup and teardown and requires exactly one scenario.`,
	Example: `  scenarist run
  scenarist run --scenarios base
  scenarist run --scenarios=
  scenarist run --scenarios advanced --no-setup
  scenarist run --json --report .scenarist/report.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRun(cmd, runOpts)
	},
}

func init() {
	f := runCmd.Flags()
	f.StringSliceVar(&runOpts.Scenarios, "scenarios", nil, `Comma-separated scenarios to run; empty ("--scenarios=") lists them (env: SCENARIST_SCENARIOS)`)
	f.BoolVar(&runOpts.NoSetup, "no-setup", false, "Skip setup and teardown of the single selected scenario (env: SCENARIST_NO_SETUP)")
	f.BoolVar(&runOpts.Pick, "pick", false, "Choose the scenarios to run interactively")
	f.BoolVar(&runOpts.JSON, "json", false, "Print the run report as JSON instead of the summary")
	f.StringVar(&runOpts.Report, "report", "", "Write the JSON run report to this file (env: SCENARIST_REPORT_FILE)")
	f.StringSliceVar(&runOpts.Manifests, "manifest", nil, "Manifest glob, relative to the config directory; repeatable")
	f.StringVar(&runOpts.Shell, "shell", "", "Shell used for hook and test commands (env: SCENARIST_SHELL)")
	f.BoolVar(&runOpts.Live, "live", false, "Show a live progress view while tests run")
	runCmd.MarkFlagsMutuallyExclusive("scenarios", "pick")
	_ = runCmd.RegisterFlagCompletionFunc("scenarios", completeScenarioNames)
	rootCmd.AddCommand(runCmd)
}

// runOverrides maps the changed run flags onto config overrides. With
// --pick the selection and no-setup flags are applied after picking.
func runOverrides(cmd *cobra.Command, flags runFlags) *config.CLIOverrides {
	o := &config.CLIOverrides{}
	if cmd.Flags().Changed("scenarios") {
		scenarios := flags.Scenarios
		if scenarios == nil {
			scenarios = []string{}
		}
		o.Scenarios = &scenarios
	}
	if cmd.Flags().Changed("no-setup") && !flags.Pick {
		o.NoSetup = &flags.NoSetup
	}
	if cmd.Flags().Changed("report") {
		o.ReportFile = &flags.Report
	}
	if cmd.Flags().Changed("manifest") {
		o.Manifests = &flags.Manifests
	}
	if cmd.Flags().Changed("shell") {
		o.Shell = &flags.Shell
	}
	return o
}

func runRun(cmd *cobra.Command, flags runFlags) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	p, err := loadProject(ctx, runOverrides(cmd, flags))
	if err != nil {
		return err
	}

	runCfg := p.runConfig()
	if flags.Pick {
		names, err := pickScenarios(p.registry.All())
		if err != nil {
			return err
		}
		runCfg.Selection = orchestrate.Only(names...)
		runCfg.NoSetup = flags.NoSetup
	}

	plan, err := orchestrate.BuildPlan(p.tests, runCfg, p.registry)
	if err != nil {
		return err
	}
	if plan.ListMode {
		return orchestrate.WriteListing(cmd.OutOrStdout(), plan.Scenarios)
	}

	report, err := executePlan(ctx, cmd.ErrOrStderr(), plan.Order, flags.Live && !flagQuiet)
	if report == nil {
		return err
	}
	report.Fingerprint = orchestrate.FormatFingerprint(plan.Fingerprint)

	if outErr := writeReport(cmd.OutOrStdout(), report, flags.JSON); outErr != nil {
		return outErr
	}
	if path := p.resolved.Config.Run.ReportFile; path != "" {
		if wErr := report.WriteJSON(path); wErr != nil {
			return wErr
		}
	}

	if err != nil {
		return err
	}
	if report.Failed() {
		return errTestsFailed
	}
	return nil
}

// executePlan runs order and streams per-test progress lines to progressOut
// while it runs. Progress lines are suppressed with --quiet. With live set
// the events drive a bubbletea view instead.
func executePlan(ctx context.Context, progressOut io.Writer, order []testcase.TestCase, live bool) (*runner.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan runner.Event, eventBufferSize)
	logger := logging.New("runner")

	var wg sync.WaitGroup
	wg.Add(1)
	if live {
		prog := tea.NewProgram(newLiveModel(len(order), events, cancel), tea.WithOutput(progressOut))
		go func() {
			defer wg.Done()
			if _, err := prog.Run(); err != nil {
				logger.Debug("live view stopped", "error", err)
			}
			// The runner blocks on sends until the channel is closed.
			for range events {
			}
		}()
	} else {
		go func() {
			defer wg.Done()
			for ev := range events {
				if flagQuiet {
					continue
				}
				if line := formatEvent(ev); line != "" {
					fmt.Fprintln(progressOut, line)
				}
			}
		}()
	}

	r := runner.New(
		runner.WithLogger(logger),
		runner.WithDryRun(flagDryRun),
		runner.WithEventChannel(events),
		runner.WithBlockingEvents(),
	)
	report, err := r.Run(ctx, order)
	close(events)
	wg.Wait()

	return report, err
}

// writeReport prints report as indented JSON or as the styled summary.
func writeReport(out io.Writer, report *runner.Report, asJSON bool) error {
	if !asJSON {
		_, err := fmt.Fprint(out, renderSummary(report))
		return err
	}
	data, err := json.MarshalIndent(struct {
		Summary runner.Summary `json:"summary"`
		*runner.Report
	}{Summary: report.Summary(), Report: report}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// signalContext derives a context from the command's that is cancelled on
// SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
