package config

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// ConfigSource identifies where a configuration value came from.
type ConfigSource string

const (
	// SourceDefault indicates the value came from built-in defaults.
	SourceDefault ConfigSource = "default"
	// SourceFile indicates the value came from the scenarist.toml config file.
	SourceFile ConfigSource = "file"
	// SourceEnv indicates the value came from an environment variable.
	SourceEnv ConfigSource = "env"
	// SourceCLI indicates the value came from a CLI flag.
	SourceCLI ConfigSource = "cli"
)

// Environment variables consulted by Resolve.
const (
	EnvScenarios      = "SCENARIST_SCENARIOS"
	EnvNoSetup        = "SCENARIST_NO_SETUP"
	EnvReportFile     = "SCENARIST_REPORT_FILE"
	EnvShell          = "SCENARIST_SHELL"
	EnvCommandTimeout = "SCENARIST_COMMAND_TIMEOUT"
)

// ResolvedConfig holds the fully-resolved configuration with source tracking.
// The Config field contains the merged values; Sources tracks where each came from.
type ResolvedConfig struct {
	Config  *Config
	Sources map[string]ConfigSource // key is dotted path, e.g., "run.shell"
	Path    string                  // path to the config file used (empty if none)
}

// CLIOverrides captures flag values that can override configuration.
// Nil values mean "not set" (do not override). A non-nil Scenarios pointing
// to an empty slice selects list mode.
type CLIOverrides struct {
	Scenarios  *[]string
	NoSetup    *bool
	Manifests  *[]string
	ReportFile *string
	Shell      *string
}

// EnvFunc is a function that looks up environment variables.
// Default implementation is os.LookupEnv. Injected for testability.
type EnvFunc func(key string) (string, bool)

// Resolve merges configuration from all sources in priority order:
// CLI flags > environment variables > config file > defaults.
//
// [[scenario]] entries come from the file only. The file replaces the
// default manifest list when it sets one.
func Resolve(defaults *Config, fileConfig *Config, envFn EnvFunc, overrides *CLIOverrides) *ResolvedConfig {
	rc := &ResolvedConfig{
		Config:  &Config{},
		Sources: make(map[string]ConfigSource),
	}

	if defaults == nil {
		defaults = &Config{}
	}
	if envFn == nil {
		envFn = func(string) (string, bool) { return "", false }
	}
	if overrides == nil {
		overrides = &CLIOverrides{}
	}

	resolveRunFromDefaults(rc, defaults)
	resolveScenarios(rc, defaults, SourceDefault)

	if fileConfig != nil {
		resolveRunFromFile(rc, fileConfig)
		if len(fileConfig.Scenarios) > 0 {
			resolveScenarios(rc, fileConfig, SourceFile)
		}
	}

	resolveFromEnv(rc, envFn)
	resolveFromCLI(rc, overrides)

	return rc
}

// --- Layer 1: Defaults ---

func resolveRunFromDefaults(rc *ResolvedConfig, defaults *Config) {
	r := &rc.Config.Run
	d := &defaults.Run

	r.Scenarios = slices.Clone(d.Scenarios)
	r.ScenariosSet = d.ScenariosSet
	rc.Sources["run.scenarios"] = SourceDefault

	r.NoSetup = d.NoSetup
	rc.Sources["run.no_setup"] = SourceDefault

	r.Manifests = slices.Clone(d.Manifests)
	rc.Sources["run.manifests"] = SourceDefault

	setString(&r.ReportFile, d.ReportFile, "run.report_file", SourceDefault, rc.Sources)
	setString(&r.Shell, d.Shell, "run.shell", SourceDefault, rc.Sources)
	setString(&r.CommandTimeout, d.CommandTimeout, "run.command_timeout", SourceDefault, rc.Sources)
}

func resolveScenarios(rc *ResolvedConfig, from *Config, source ConfigSource) {
	rc.Config.Scenarios = make([]ScenarioConfig, 0, len(from.Scenarios))
	for _, sc := range from.Scenarios {
		rc.Config.Scenarios = append(rc.Config.Scenarios, copyScenarioConfig(sc))
	}
	rc.Sources["scenario"] = source
}

// --- Layer 2: File ---

func resolveRunFromFile(rc *ResolvedConfig, file *Config) {
	r := &rc.Config.Run
	f := &file.Run

	if f.ScenariosSet {
		r.Scenarios = slices.Clone(f.Scenarios)
		if r.Scenarios == nil {
			r.Scenarios = []string{}
		}
		r.ScenariosSet = true
		rc.Sources["run.scenarios"] = SourceFile
	}
	if f.NoSetup {
		r.NoSetup = true
		rc.Sources["run.no_setup"] = SourceFile
	}
	if len(f.Manifests) > 0 {
		r.Manifests = slices.Clone(f.Manifests)
		rc.Sources["run.manifests"] = SourceFile
	}

	mergeString(&r.ReportFile, f.ReportFile, "run.report_file", SourceFile, rc.Sources)
	mergeString(&r.Shell, f.Shell, "run.shell", SourceFile, rc.Sources)
	mergeString(&r.CommandTimeout, f.CommandTimeout, "run.command_timeout", SourceFile, rc.Sources)
}

// --- Layer 3: Environment ---

// Environment variable mapping:
//
//	SCENARIST_SCENARIOS        -> run.scenarios (comma-separated; set but empty lists scenarios)
//	SCENARIST_NO_SETUP         -> run.no_setup (strconv.ParseBool; unparsable values are ignored)
//	SCENARIST_REPORT_FILE      -> run.report_file
//	SCENARIST_SHELL            -> run.shell
//	SCENARIST_COMMAND_TIMEOUT  -> run.command_timeout
func resolveFromEnv(rc *ResolvedConfig, envFn EnvFunc) {
	r := &rc.Config.Run

	if val, ok := envFn(EnvScenarios); ok {
		r.Scenarios = SplitList(val)
		r.ScenariosSet = true
		rc.Sources["run.scenarios"] = SourceEnv
	}
	if val, ok := envFn(EnvNoSetup); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			r.NoSetup = b
			rc.Sources["run.no_setup"] = SourceEnv
		}
	}
	if val, ok := envFn(EnvReportFile); ok {
		r.ReportFile = val
		rc.Sources["run.report_file"] = SourceEnv
	}
	if val, ok := envFn(EnvShell); ok && val != "" {
		r.Shell = val
		rc.Sources["run.shell"] = SourceEnv
	}
	if val, ok := envFn(EnvCommandTimeout); ok && val != "" {
		r.CommandTimeout = val
		rc.Sources["run.command_timeout"] = SourceEnv
	}
}

// --- Layer 4: CLI overrides ---

func resolveFromCLI(rc *ResolvedConfig, overrides *CLIOverrides) {
	r := &rc.Config.Run

	if overrides.Scenarios != nil {
		r.Scenarios = slices.Clone(*overrides.Scenarios)
		if r.Scenarios == nil {
			r.Scenarios = []string{}
		}
		r.ScenariosSet = true
		rc.Sources["run.scenarios"] = SourceCLI
	}
	if overrides.NoSetup != nil {
		r.NoSetup = *overrides.NoSetup
		rc.Sources["run.no_setup"] = SourceCLI
	}
	if overrides.Manifests != nil {
		r.Manifests = slices.Clone(*overrides.Manifests)
		rc.Sources["run.manifests"] = SourceCLI
	}
	if overrides.ReportFile != nil {
		r.ReportFile = *overrides.ReportFile
		rc.Sources["run.report_file"] = SourceCLI
	}
	if overrides.Shell != nil {
		r.Shell = *overrides.Shell
		rc.Sources["run.shell"] = SourceCLI
	}
}

// --- Helpers ---

// SplitList splits a comma-separated list, trimming spaces and dropping
// empty entries. An empty or blank input yields an empty, non-nil slice.
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// setString unconditionally sets the target to the given value and records the source.
func setString(target *string, value string, path string, source ConfigSource, sources map[string]ConfigSource) {
	*target = value
	sources[path] = source
}

// mergeString overwrites the target only if value is non-empty (non-zero string).
// For file-layer merging, an empty string in the file means "not set in file",
// so it does not override the default.
func mergeString(target *string, value string, path string, source ConfigSource, sources map[string]ConfigSource) {
	if value != "" {
		*target = value
		sources[path] = source
	}
}

// copyScenarioConfig returns a deep copy of a ScenarioConfig.
func copyScenarioConfig(src ScenarioConfig) ScenarioConfig {
	sc := src
	if src.Attributes != nil {
		sc.Attributes = maps.Clone(src.Attributes)
	}
	return sc
}
