package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/config"
)

// Flag values for the init subcommand.
var (
	initFlagName  string
	initFlagShell string
	initFlagForce bool
)

// initCmd implements "scenarist init [template]". It scaffolds a
// scenarist.toml and a sample manifest in the working directory.
var initCmd = &cobra.Command{
	Use:   "init [template]",
	Short: "Initialize a scenarist project from a template",
	Long: `Initialize a project directory by rendering an embedded template: a
scenarist.toml with two scenarios and a sample test manifest. Existing files
are preserved unless --force is supplied.

Examples:
  scenarist init                      # scaffold the starter template
  scenarist init --name checkout      # scaffold with an explicit project name
  scenarist init --shell bash         # run hooks and tests with bash
  scenarist init starter --force      # overwrite existing files`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVarP(&initFlagName, "name", "n", "", "Project name (defaults to current directory name)")
	initCmd.Flags().StringVar(&initFlagShell, "shell", "sh", "Shell written to run.shell")
	initCmd.Flags().BoolVar(&initFlagForce, "force", false, "Overwrite existing files")
	rootCmd.AddCommand(initCmd)
}

// runInit is the RunE handler for the init command.
func runInit(cmd *cobra.Command, args []string) error {
	templateName := config.DefaultTemplate
	if len(args) > 0 {
		templateName = args[0]
	}

	if !config.TemplateExists(templateName) {
		available, listErr := config.ListTemplates()
		if listErr != nil {
			return fmt.Errorf("listing available templates: %w", listErr)
		}
		return fmt.Errorf("template %q not found; available templates: %s",
			templateName, strings.Join(available, ", "))
	}

	destDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	projectName := initFlagName
	if projectName == "" {
		projectName = filepath.Base(destDir)
	}
	if strings.Contains(projectName, "../") || strings.Contains(projectName, "..\\") {
		return fmt.Errorf("invalid project name %q: must not contain path traversal sequences", projectName)
	}

	cfgPath := filepath.Join(destDir, config.ConfigFileName)
	if _, statErr := os.Stat(cfgPath); statErr == nil && !initFlagForce {
		return fmt.Errorf("%s already exists in %s; use --force to overwrite", config.ConfigFileName, destDir)
	}

	vars := config.TemplateVars{
		ProjectName: projectName,
		Shell:       initFlagShell,
	}

	created, err := config.RenderTemplate(templateName, destDir, vars, initFlagForce)
	if err != nil {
		return fmt.Errorf("rendering template %q: %w", templateName, err)
	}

	// Progress output goes to stderr.
	stderr := cmd.ErrOrStderr()

	fmt.Fprintf(stderr, "Initialized project %q from template %q\n\n", projectName, templateName)

	if len(created) > 0 {
		fmt.Fprintln(stderr, "Created files:")
		for _, f := range created {
			rel, relErr := filepath.Rel(destDir, f)
			if relErr != nil {
				rel = f
			}
			fmt.Fprintf(stderr, "  %s\n", rel)
		}
		fmt.Fprintln(stderr)
	}

	fmt.Fprintln(stderr, "Next steps:")
	fmt.Fprintf(stderr, "  1. Edit %s to describe your scenarios\n", cfgPath)
	fmt.Fprintln(stderr, "  2. Declare tests under scenarios/")
	fmt.Fprintln(stderr, "  3. Run: scenarist run")

	return nil
}
