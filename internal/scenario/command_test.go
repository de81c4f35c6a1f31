//go:build !windows

package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/shell"
)

func TestEnv_SortedAttributes(t *testing.T) {
	t.Parallel()

	s := &Func{ScenarioName: "base", Attrs: map[string]any{"b": 2, "a": 1}}
	assert.Equal(t, []string{
		"SCENARIST_SCENARIO=base",
		"SCENARIST_ATTR_A=1",
		"SCENARIST_ATTR_B=2",
	}, Env(s))
}

func TestCommand_SetupExportsScenarioEnv(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "setup.out")

	c := &Command{
		ScenarioName: "advanced",
		Attrs:        map[string]any{"a": 4},
		SetupCommand: `echo "$SCENARIST_SCENARIO $SCENARIST_ATTR_A" > ` + out,
		Shell:        shell.Options{Dir: dir},
	}
	require.NoError(t, c.Setup(context.Background()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "advanced 4\n", string(data))
}

func TestCommand_EmptyHooksAreNoops(t *testing.T) {
	t.Parallel()

	c := &Command{ScenarioName: "noop"}
	assert.NoError(t, c.Setup(context.Background()))
	assert.NoError(t, c.Teardown(context.Background()))
}

func TestCommand_NonZeroExitFails(t *testing.T) {
	t.Parallel()

	c := &Command{
		ScenarioName:    "broken",
		TeardownCommand: "echo cleanup-went-wrong >&2; exit 3",
	}
	err := c.Teardown(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, shell.ErrCommandFailed)
	assert.Contains(t, err.Error(), "broken")
	assert.Contains(t, err.Error(), "teardown")
	assert.Contains(t, err.Error(), "cleanup-went-wrong")
}
