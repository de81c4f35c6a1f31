package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func starterVars() TemplateVars {
	return TemplateVars{ProjectName: "checkout", Shell: "bash"}
}

func TestListTemplates(t *testing.T) {
	t.Parallel()
	names, err := ListTemplates()
	require.NoError(t, err)
	assert.Contains(t, names, DefaultTemplate)
}

func TestTemplateExists(t *testing.T) {
	t.Parallel()
	assert.True(t, TemplateExists(DefaultTemplate))
	assert.False(t, TemplateExists("nonexistent"))
	assert.False(t, TemplateExists("../etc"))
}

func TestRenderTemplate_InvalidName(t *testing.T) {
	t.Parallel()
	_, err := RenderTemplate("nonexistent", t.TempDir(), TemplateVars{}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRenderTemplate_WritesStarterLayout(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "project")

	written, err := RenderTemplate(DefaultTemplate, dir, starterVars(), false)
	require.NoError(t, err)

	assert.Contains(t, written, filepath.Join(dir, ConfigFileName))
	assert.Contains(t, written, filepath.Join(dir, "scenarios", "smoke.toml"))
	assert.NoFileExists(t, filepath.Join(dir, ConfigFileName+".tmpl"))

	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "checkout")
	assert.Contains(t, string(data), `shell = "bash"`)
}

func TestRenderTemplate_RenderedConfigIsValid(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	_, err := RenderTemplate(DefaultTemplate, dir, starterVars(), false)
	require.NoError(t, err)

	cfg, md, err := LoadFromFile(filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)
	assert.False(t, cfg.Run.ScenariosSet, "the starter runs every scenario")
	require.Len(t, cfg.Scenarios, 2)
	assert.Equal(t, "base", cfg.Scenarios[0].Name)
	assert.Equal(t, int64(4), cfg.Scenarios[1].Attributes["a"])

	cfg.Run.ReportFile = "" // its directory does not exist yet
	vr := Validate(cfg, &md)
	assert.Empty(t, vr.Issues)
}

func TestRenderTemplate_KeepsExistingWithoutForce(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	existing := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(existing, []byte("# mine\n"), 0o644))

	written, err := RenderTemplate(DefaultTemplate, dir, starterVars(), false)
	require.NoError(t, err)
	assert.NotContains(t, written, existing)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "# mine\n", string(data))
}

func TestRenderTemplate_ForceOverwrites(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	existing := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(existing, []byte("# mine\n"), 0o644))

	written, err := RenderTemplate(DefaultTemplate, dir, starterVars(), true)
	require.NoError(t, err)
	assert.Contains(t, written, existing)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[[scenario]]")
}
