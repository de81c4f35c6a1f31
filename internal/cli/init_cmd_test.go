package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/config"
)

// initInTempDir switches to a fresh temp directory and returns it.
func initInTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	return dir
}

func TestInitCmd_Flags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{name: "name", shorthand: "n", defValue: ""},
		{name: "shell", defValue: "sh"},
		{name: "force", defValue: "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := initCmd.Flags().Lookup(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.shorthand, f.Shorthand)
			assert.Equal(t, tt.defValue, f.DefValue)
		})
	}
}

func TestInitCmd_DefaultTemplate(t *testing.T) {
	resetRootCmd(t)
	dir := initInTempDir(t)

	_, stderr, code := executeCLI(t, "init")
	require.Equal(t, 0, code, stderr)

	assert.FileExists(t, filepath.Join(dir, config.ConfigFileName))
	assert.FileExists(t, filepath.Join(dir, "scenarios", "smoke.toml"))
	assert.Contains(t, stderr, `from template "starter"`)
	assert.Contains(t, stderr, filepath.Base(dir), "project name defaults to the directory name")
	assert.Contains(t, stderr, "Created files:")
	assert.Contains(t, stderr, filepath.Join("scenarios", "smoke.toml"))
	assert.Contains(t, stderr, "Next steps:")
}

func TestInitCmd_RenderedConfigIsValid(t *testing.T) {
	resetRootCmd(t)
	dir := initInTempDir(t)

	_, stderr, code := executeCLI(t, "init", "--name", "checkout", "--shell", "bash")
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "checkout")

	var cfg config.Config
	md, err := toml.Decode(string(data), &cfg)
	require.NoError(t, err)
	assert.Equal(t, "bash", cfg.Run.Shell)
	require.Len(t, cfg.Scenarios, 2)
	assert.Equal(t, "base", cfg.Scenarios[0].Name)
	assert.Equal(t, "advanced", cfg.Scenarios[1].Name)

	result := config.Validate(&cfg, &md)
	assert.False(t, result.HasErrors(), "%v", result.Errors())
}

func TestInitCmd_NameShorthand(t *testing.T) {
	resetRootCmd(t)
	initInTempDir(t)

	_, stderr, code := executeCLI(t, "init", "-n", "payments")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, `Initialized project "payments"`)
}

func TestInitCmd_ExistingConfig_NoForce(t *testing.T) {
	resetRootCmd(t)
	dir := initInTempDir(t)
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("# mine\n"), 0o644))

	_, stderr, code := executeCLI(t, "init")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "already exists")
	assert.Contains(t, stderr, "--force")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# mine\n", string(data))
}

func TestInitCmd_Force(t *testing.T) {
	resetRootCmd(t)
	dir := initInTempDir(t)
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("# mine\n"), 0o644))

	_, stderr, code := executeCLI(t, "init", "--force")
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[[scenario]]")
}

func TestInitCmd_KeepsExistingManifestWithoutForce(t *testing.T) {
	resetRootCmd(t)
	dir := initInTempDir(t)
	manifest := filepath.Join(dir, "scenarios", "smoke.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(manifest), 0o755))
	require.NoError(t, os.WriteFile(manifest, []byte("# keep\n"), 0o644))

	_, stderr, code := executeCLI(t, "init")
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(manifest)
	require.NoError(t, err)
	assert.Equal(t, "# keep\n", string(data))
	assert.FileExists(t, filepath.Join(dir, config.ConfigFileName))
}

func TestInitCmd_UnknownTemplate(t *testing.T) {
	resetRootCmd(t)
	dir := initInTempDir(t)

	_, stderr, code := executeCLI(t, "init", "nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `template "nope" not found`)
	assert.Contains(t, stderr, "starter")
	assert.NoFileExists(t, filepath.Join(dir, config.ConfigFileName))
}

func TestInitCmd_PathTraversalInName(t *testing.T) {
	for _, name := range []string{"../escape", `..\escape`} {
		t.Run(name, func(t *testing.T) {
			resetRootCmd(t)
			initInTempDir(t)

			_, stderr, code := executeCLI(t, "init", "--name", name)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, "path traversal")
		})
	}
}

func TestInitCmd_MaximumOneArg(t *testing.T) {
	resetRootCmd(t)
	initInTempDir(t)

	_, _, code := executeCLI(t, "init", "starter", "extra")
	assert.Equal(t, 1, code)
}

func TestInitCmd_RespectsGlobalDirFlag(t *testing.T) {
	resetRootCmd(t)
	initInTempDir(t)
	target := t.TempDir()

	_, stderr, code := executeCLI(t, "--dir", target, "init")
	require.Equal(t, 0, code, stderr)
	assert.FileExists(t, filepath.Join(target, config.ConfigFileName))
}
