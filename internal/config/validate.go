package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/scenario"
)

// ValidationSeverity indicates whether a validation issue is an error or warning.
type ValidationSeverity string

const (
	// SeverityError indicates a fatal validation issue; the configuration is unusable.
	SeverityError ValidationSeverity = "error"
	// SeverityWarning indicates an informational validation issue; the configuration works
	// but may have problems.
	SeverityWarning ValidationSeverity = "warning"
)

// ValidationIssue represents a single validation finding.
type ValidationIssue struct {
	Severity ValidationSeverity
	Field    string // dotted path, e.g., "run.no_setup"
	Message  string
}

// ValidationResult holds all validation findings.
type ValidationResult struct {
	Issues []ValidationIssue
}

// HasErrors returns true if any issue has error severity.
func (vr *ValidationResult) HasErrors() bool {
	for _, issue := range vr.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings returns true if any issue has warning severity.
func (vr *ValidationResult) HasWarnings() bool {
	for _, issue := range vr.Issues {
		if issue.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// Errors returns only error-severity issues.
func (vr *ValidationResult) Errors() []ValidationIssue {
	var errs []ValidationIssue
	for _, issue := range vr.Issues {
		if issue.Severity == SeverityError {
			errs = append(errs, issue)
		}
	}
	return errs
}

// Warnings returns only warning-severity issues.
func (vr *ValidationResult) Warnings() []ValidationIssue {
	var warns []ValidationIssue
	for _, issue := range vr.Issues {
		if issue.Severity == SeverityWarning {
			warns = append(warns, issue)
		}
	}
	return warns
}

// Validate checks the configuration for correctness and completeness.
// It performs structural validation, semantic validation, and unknown key detection.
//
// Parameters:
//   - cfg: the configuration to validate
//   - meta: TOML metadata from BurntSushi/toml (may be nil if no file was loaded)
//
// Returns validation results. Check HasErrors() to determine if the config is usable.
func Validate(cfg *Config, meta *toml.MetaData) *ValidationResult {
	vr := &ValidationResult{}

	if cfg == nil {
		addError(vr, "", "configuration is nil")
		return vr
	}

	defined := validateScenarios(vr, cfg.Scenarios)
	validateRun(vr, &cfg.Run, defined)
	validateUnknownKeys(vr, meta)

	return vr
}

// validateScenarios checks every [[scenario]] entry and returns the set of
// well-formed scenario names.
func validateScenarios(vr *ValidationResult, scenarios []ScenarioConfig) map[string]bool {
	defined := make(map[string]bool, len(scenarios))

	if len(scenarios) == 0 {
		addWarning(vr, "scenario", "no scenarios defined")
	}

	for i, sc := range scenarios {
		prefix := fmt.Sprintf("scenario[%d]", i)

		switch {
		case sc.Name == "":
			addError(vr, prefix+".name", "must not be empty")
			continue
		case !scenario.ValidName(sc.Name):
			addError(vr, prefix+".name",
				fmt.Sprintf("invalid scenario name %q; must contain only letters, digits and underscores", sc.Name))
			continue
		case defined[sc.Name]:
			addError(vr, prefix+".name", fmt.Sprintf("duplicate scenario name %q", sc.Name))
			continue
		}
		defined[sc.Name] = true

		if sc.Description == "" {
			addWarning(vr, prefix+".description", "empty description; the scenario listing will show none")
		}
	}
	return defined
}

// validateRun checks the [run] section against the defined scenarios.
func validateRun(vr *ValidationResult, r *RunConfig, defined map[string]bool) {
	for i, name := range r.Scenarios {
		if !defined[name] {
			addError(vr, fmt.Sprintf("run.scenarios[%d]", i),
				fmt.Sprintf("scenario %q is not defined", name))
		}
	}

	// Selecting an empty list lists scenarios and ignores no_setup.
	if r.NoSetup && !(r.ScenariosSet && len(r.Scenarios) <= 1) {
		addError(vr, "run.no_setup", "requires exactly one scenario in run.scenarios")
	}

	for i, pattern := range r.Manifests {
		if !doublestar.ValidatePattern(pattern) {
			addError(vr, fmt.Sprintf("run.manifests[%d]", i),
				fmt.Sprintf("invalid glob pattern %q", pattern))
		}
	}

	if r.CommandTimeout != "" {
		d, err := time.ParseDuration(r.CommandTimeout)
		switch {
		case err != nil:
			addError(vr, "run.command_timeout",
				fmt.Sprintf("invalid duration %q: %v", r.CommandTimeout, err))
		case d < 0:
			addError(vr, "run.command_timeout", "must not be negative")
		}
	}

	if r.ReportFile != "" {
		dir := filepath.Dir(r.ReportFile)
		if _, err := os.Stat(dir); err != nil {
			addWarning(vr, "run.report_file",
				fmt.Sprintf("directory %q does not exist; it will be created", dir))
		}
	}
}

// validateUnknownKeys checks for TOML keys that did not map to any config struct field.
func validateUnknownKeys(vr *ValidationResult, meta *toml.MetaData) {
	if meta == nil {
		return
	}

	for _, key := range meta.Undecoded() {
		path := strings.Join(key, ".")
		addWarning(vr, path, "unknown configuration key")
	}
}

// addError appends an error-severity issue to the validation result.
func addError(vr *ValidationResult, field, message string) {
	vr.Issues = append(vr.Issues, ValidationIssue{
		Severity: SeverityError,
		Field:    field,
		Message:  message,
	})
}

// addWarning appends a warning-severity issue to the validation result.
func addWarning(vr *ValidationResult, field, message string) {
	vr.Issues = append(vr.Issues, ValidationIssue{
		Severity: SeverityWarning,
		Field:    field,
		Message:  message,
	})
}
