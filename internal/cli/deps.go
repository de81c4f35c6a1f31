package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/collect"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/config"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/logging"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/orchestrate"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/scenario"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/shell"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/testcase"
)

// project is everything a command needs to plan or run: the resolved
// configuration, the scenario registry built from it and the raw test
// cases collected from the manifests.
type project struct {
	resolved *config.ResolvedConfig
	meta     *toml.MetaData
	// dir is the directory manifests and hook commands are resolved from:
	// the config file's directory, or the working directory without one.
	dir      string
	registry *scenario.Registry
	tests    []testcase.TestCase
}

// loadProject resolves the configuration, validates it, registers every
// [[scenario]] entry and collects the tests declared by the manifests.
// Validation warnings are logged; validation errors abort.
func loadProject(ctx context.Context, overrides *config.CLIOverrides) (*project, error) {
	logger := logging.New("project")

	resolved, meta, err := loadAndResolveConfig(overrides)
	if err != nil {
		return nil, err
	}

	vr := config.Validate(resolved.Config, meta)
	for _, w := range vr.Warnings() {
		logger.Warn("config", "field", w.Field, "issue", w.Message)
	}
	if vr.HasErrors() {
		msgs := make([]string, 0, len(vr.Errors()))
		for _, e := range vr.Errors() {
			msgs = append(msgs, fmt.Sprintf("[%s] %s", e.Field, e.Message))
		}
		return nil, fmt.Errorf("invalid configuration:\n  %s", strings.Join(msgs, "\n  "))
	}

	dir, err := projectDir(resolved.Path)
	if err != nil {
		return nil, err
	}

	run := resolved.Config.Run
	timeout, err := parseTimeout(run.CommandTimeout)
	if err != nil {
		return nil, err
	}

	reg, err := buildRegistry(resolved.Config.Scenarios, shell.Options{
		Shell:   run.Shell,
		Dir:     dir,
		Timeout: timeout,
	})
	if err != nil {
		return nil, err
	}

	decls, err := collect.LoadManifests(ctx, dir, run.Manifests, collect.ManifestOptions{
		Shell:   run.Shell,
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("loading manifests: %w", err)
	}

	tests, err := collect.Collect(reg, decls)
	if err != nil {
		return nil, fmt.Errorf("collecting tests: %w", err)
	}

	logger.Debug("project loaded",
		"config", resolved.Path,
		"scenarios", reg.Len(),
		"declarations", len(decls),
		"tests", len(tests))

	return &project{
		resolved: resolved,
		meta:     meta,
		dir:      dir,
		registry: reg,
		tests:    tests,
	}, nil
}

// runConfig maps the resolved [run] section onto the orchestration input.
func (p *project) runConfig() orchestrate.RunConfig {
	return orchestrate.RunConfig{
		Selection: selectionFromConfig(p.resolved.Config.Run),
		NoSetup:   p.resolved.Config.Run.NoSetup,
	}
}

// selectionFromConfig keeps the tri-state of run.scenarios: unset runs
// every scenario, an empty list selects list mode.
func selectionFromConfig(r config.RunConfig) orchestrate.Selection {
	if !r.ScenariosSet {
		return orchestrate.All()
	}
	return orchestrate.Only(r.Scenarios...)
}

// buildRegistry registers one command scenario per [[scenario]] entry, in
// file order.
func buildRegistry(entries []config.ScenarioConfig, opts shell.Options) (*scenario.Registry, error) {
	reg := scenario.NewRegistry()
	for _, sc := range entries {
		err := reg.Register(&scenario.Command{
			ScenarioName:    sc.Name,
			Desc:            sc.Description,
			Attrs:           sc.Attributes,
			SetupCommand:    sc.Setup,
			TeardownCommand: sc.Teardown,
			Shell:           opts,
		})
		if err != nil {
			return nil, fmt.Errorf("registering scenario: %w", err)
		}
	}
	return reg, nil
}

// projectDir returns the directory of cfgPath, or the working directory
// when no config file was found.
func projectDir(cfgPath string) (string, error) {
	if cfgPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(cfgPath)
	if err != nil {
		return "", fmt.Errorf("resolving config path: %w", err)
	}
	return filepath.Dir(abs), nil
}

// parseTimeout parses run.command_timeout. Empty means no deadline.
func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parsing run.command_timeout %q: %w", s, err)
	}
	return d, nil
}
