package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/logging"
)

// errTestsFailed is returned by commands whose run completed but reported
// failing tests. The summary has already been printed, so Execute only maps
// it to the exit code.
var errTestsFailed = errors.New("one or more tests failed")

// Global flag values accessible to all subcommands.
var (
	flagVerbose bool
	flagQuiet   bool
	flagConfig  string
	flagDir     string
	flagDryRun  bool
	flagNoColor bool
)

// rootCmd is the base command for scenarist.
var rootCmd = &cobra.Command{
	Use:   "scenarist",
	Short: "Scenario-based test orchestration",
	Long: `scenarist runs tests grouped by scenario. Every scenario gets its own
suite: its setup, the tests declared for it in discovery order, then its
teardown. When a scenario's setup fails, its tests are skipped with a reason
and its teardown still runs.

Select scenarios with --scenarios, list them with "scenarist list", and
debug a single scenario against an environment you prepared yourself with
--no-setup.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Check env vars for flags not explicitly set on command line.
		if !cmd.Flags().Changed("verbose") && os.Getenv("SCENARIST_VERBOSE") != "" {
			flagVerbose = true
		}
		if !cmd.Flags().Changed("quiet") && os.Getenv("SCENARIST_QUIET") != "" {
			flagQuiet = true
		}
		if !cmd.Flags().Changed("no-color") && (os.Getenv("NO_COLOR") != "" || os.Getenv("SCENARIST_NO_COLOR") != "") {
			flagNoColor = true
		}
		if !cmd.Flags().Changed("dry-run") && os.Getenv("SCENARIST_DRY_RUN") != "" {
			flagDryRun = true
		}

		logging.Setup(flagVerbose, flagQuiet, logging.ParseFormat(os.Getenv("SCENARIST_LOG_FORMAT")))

		if flagNoColor {
			lipgloss.SetColorProfile(termenv.Ascii)
		}

		if flagDir != "" {
			if err := os.Chdir(flagDir); err != nil {
				return fmt.Errorf("changing directory to %s: %w", flagDir, err)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, verboseUsage)
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, quietUsage)
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", configUsage)
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", dirUsage)
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, dryRunUsage)
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, noColorUsage)
}

// Persistent flag usage strings, shared with NewRootCmd.
const (
	verboseUsage = "Enable verbose (debug) output (env: SCENARIST_VERBOSE)"
	quietUsage   = "Suppress all output except errors (env: SCENARIST_QUIET)"
	configUsage  = "Path to scenarist.toml config file"
	dirUsage     = "Override working directory"
	dryRunUsage  = "Plan and report every test as skipped without running anything (env: SCENARIST_DRY_RUN)"
	noColorUsage = "Disable colored output (env: SCENARIST_NO_COLOR, NO_COLOR)"
)

// Execute runs the root command and returns the process exit code: 0 on
// success, including list mode, and 1 when tests failed or the command
// could not run.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errTestsFailed) {
			fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		}
		return 1
	}
	return 0
}

// NewRootCmd returns a fresh root command carrying the same persistent flags
// and subcommands as the global tree, for the completion and man page
// generators.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               rootCmd.Use,
		Short:             rootCmd.Short,
		Long:              rootCmd.Long,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: rootCmd.PersistentPreRunE,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, verboseUsage)
	cmd.PersistentFlags().BoolP("quiet", "q", false, quietUsage)
	cmd.PersistentFlags().String("config", "", configUsage)
	cmd.PersistentFlags().String("dir", "", dirUsage)
	cmd.PersistentFlags().Bool("dry-run", false, dryRunUsage)
	cmd.PersistentFlags().Bool("no-color", false, noColorUsage)

	for _, child := range rootCmd.Commands() {
		cmd.AddCommand(child)
	}
	return cmd
}
