package config

import (
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config that passes all validation checks.
func validConfig() *Config {
	return &Config{
		Run: RunConfig{
			Manifests:      []string{"scenarios/**/*.toml"},
			Shell:          "sh",
			CommandTimeout: "1m",
		},
		Scenarios: []ScenarioConfig{
			{Name: "base", Description: "Base scenario", Setup: "true"},
			{Name: "advanced", Description: "Advanced scenario"},
		},
	}
}

// decodeMetadata parses TOML content and returns the metadata, useful for
// testing unknown key detection.
func decodeMetadata(t *testing.T, content string) toml.MetaData {
	t.Helper()
	var cfg Config
	md, err := toml.Decode(content, &cfg)
	require.NoError(t, err)
	return md
}

// fields returns the Field of every issue.
func fields(issues []ValidationIssue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.Field
	}
	return out
}

// --- ValidationResult method tests ---

func TestValidationResult_Severities(t *testing.T) {
	t.Parallel()
	vr := &ValidationResult{Issues: []ValidationIssue{
		{Severity: SeverityWarning, Field: "a"},
		{Severity: SeverityError, Field: "b"},
		{Severity: SeverityWarning, Field: "c"},
	}}
	assert.True(t, vr.HasErrors())
	assert.True(t, vr.HasWarnings())
	assert.Equal(t, []string{"b"}, fields(vr.Errors()))
	assert.Equal(t, []string{"a", "c"}, fields(vr.Warnings()))

	empty := &ValidationResult{}
	assert.False(t, empty.HasErrors())
	assert.False(t, empty.HasWarnings())
	assert.Empty(t, empty.Errors())
}

// --- Validate ---

func TestValidate_ValidConfig(t *testing.T) {
	t.Parallel()
	vr := Validate(validConfig(), nil)
	assert.Empty(t, vr.Issues)
}

func TestValidate_NilConfig(t *testing.T) {
	t.Parallel()
	vr := Validate(nil, nil)
	require.True(t, vr.HasErrors())
	assert.Equal(t, "configuration is nil", vr.Errors()[0].Message)
}

func TestValidate_ScenarioErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		scenarios []ScenarioConfig
		field     string
		contains  string
	}{
		{
			name:      "empty name",
			scenarios: []ScenarioConfig{{Description: "x"}},
			field:     "scenario[0].name",
			contains:  "must not be empty",
		},
		{
			name:      "invalid characters",
			scenarios: []ScenarioConfig{{Name: "base-line", Description: "x"}},
			field:     "scenario[0].name",
			contains:  "invalid scenario name",
		},
		{
			name:      "duplicate",
			scenarios: []ScenarioConfig{{Name: "base", Description: "x"}, {Name: "base", Description: "y"}},
			field:     "scenario[1].name",
			contains:  "duplicate",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			cfg.Scenarios = tt.scenarios

			vr := Validate(cfg, nil)
			require.True(t, vr.HasErrors())
			errs := vr.Errors()
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Contains(t, errs[0].Message, tt.contains)
		})
	}
}

func TestValidate_NoScenariosWarns(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Scenarios = nil

	vr := Validate(cfg, nil)
	assert.False(t, vr.HasErrors())
	assert.Contains(t, fields(vr.Warnings()), "scenario")
}

func TestValidate_MissingDescriptionWarns(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Scenarios[1].Description = ""

	vr := Validate(cfg, nil)
	assert.False(t, vr.HasErrors())
	assert.Equal(t, []string{"scenario[1].description"}, fields(vr.Warnings()))
}

func TestValidate_UnknownRequestedScenario(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Run.Scenarios = []string{"base", "ghost"}
	cfg.Run.ScenariosSet = true

	vr := Validate(cfg, nil)
	require.True(t, vr.HasErrors())
	assert.Equal(t, []string{"run.scenarios[1]"}, fields(vr.Errors()))
	assert.Contains(t, vr.Errors()[0].Message, `"ghost"`)
}

func TestValidate_NoSetup(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		scenarios []string
		set       bool
		wantErr   bool
	}{
		{name: "unset selection", set: false, wantErr: true},
		{name: "two scenarios", scenarios: []string{"base", "advanced"}, set: true, wantErr: true},
		{name: "one scenario", scenarios: []string{"base"}, set: true, wantErr: false},
		{name: "list mode", scenarios: []string{}, set: true, wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			cfg.Run.NoSetup = true
			cfg.Run.Scenarios = tt.scenarios
			cfg.Run.ScenariosSet = tt.set

			vr := Validate(cfg, nil)
			assert.Equal(t, tt.wantErr, vr.HasErrors(), "issues: %v", vr.Issues)
			if tt.wantErr {
				assert.Equal(t, []string{"run.no_setup"}, fields(vr.Errors()))
			}
		})
	}
}

func TestValidate_BadManifestPattern(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Run.Manifests = []string{"ok/*.toml", "bad/[.toml"}

	vr := Validate(cfg, nil)
	assert.Equal(t, []string{"run.manifests[1]"}, fields(vr.Errors()))
}

func TestValidate_CommandTimeout(t *testing.T) {
	t.Parallel()
	tests := []struct {
		value   string
		wantErr bool
	}{
		{value: "", wantErr: false},
		{value: "30s", wantErr: false},
		{value: "0s", wantErr: false},
		{value: "soon", wantErr: true},
		{value: "-1s", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			cfg.Run.CommandTimeout = tt.value
			assert.Equal(t, tt.wantErr, Validate(cfg, nil).HasErrors())
		})
	}
}

func TestValidate_ReportFileDirectory(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Run.ReportFile = filepath.Join(t.TempDir(), "report.json")
	assert.Empty(t, Validate(cfg, nil).Issues)

	cfg.Run.ReportFile = filepath.Join(t.TempDir(), "missing", "report.json")
	vr := Validate(cfg, nil)
	assert.False(t, vr.HasErrors())
	assert.Equal(t, []string{"run.report_file"}, fields(vr.Warnings()))
}

func TestValidate_UnknownKeysAreWarnings(t *testing.T) {
	t.Parallel()
	md := decodeMetadata(t, `
[run]
parallel = true

[[scenario]]
name = "base"
description = "Base"
retries = 2
`)
	vr := Validate(validConfig(), &md)
	assert.False(t, vr.HasErrors())
	assert.ElementsMatch(t, []string{"run.parallel", "scenario.retries"}, fields(vr.Warnings()))
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Scenarios = append(cfg.Scenarios, ScenarioConfig{Name: "bad name"})
	cfg.Run.Scenarios = []string{"ghost", "base"}
	cfg.Run.ScenariosSet = true
	cfg.Run.NoSetup = true
	cfg.Run.CommandTimeout = "x"

	vr := Validate(cfg, nil)
	assert.ElementsMatch(t, []string{
		"scenario[2].name",
		"run.scenarios[0]",
		"run.no_setup",
		"run.command_timeout",
	}, fields(vr.Errors()))
}

func TestValidate_TestdataFiles(t *testing.T) {
	t.Parallel()
	tests := []struct {
		file       string
		wantErrors bool
		wantWarns  bool
	}{
		{file: "valid-full.toml", wantErrors: false, wantWarns: true}, // report dir "out" absent
		{file: "valid-partial.toml", wantErrors: false, wantWarns: false},
		{file: "valid-list-mode.toml", wantErrors: false, wantWarns: false},
		{file: "valid-unknown-keys.toml", wantErrors: false, wantWarns: true},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			t.Parallel()
			cfg, md, err := LoadFromFile(testdataPath(t, tt.file))
			require.NoError(t, err)

			rc := Resolve(NewDefaults(), cfg, noEnv, nil)
			vr := Validate(rc.Config, &md)
			assert.Equal(t, tt.wantErrors, vr.HasErrors(), "errors: %v", vr.Errors())
			assert.Equal(t, tt.wantWarns, vr.HasWarnings(), "warnings: %v", vr.Warnings())
		})
	}
}
