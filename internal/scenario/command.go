package scenario

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/shell"
)

// EnvScenario is the environment variable holding the active scenario name
// for command hooks and command-based tests.
const EnvScenario = "SCENARIST_SCENARIO"

// envAttrPrefix prefixes every exported scenario attribute.
const envAttrPrefix = "SCENARIST_ATTR_"

// Command is a Scenario whose setup and teardown are shell commands. An
// empty command is a no-op hook.
type Command struct {
	ScenarioName    string
	Desc            string
	Attrs           map[string]any
	SetupCommand    string
	TeardownCommand string
	Shell           shell.Options
}

var _ Scenario = (*Command)(nil)

// Name implements Scenario.
func (c *Command) Name() string { return c.ScenarioName }

// Description implements Scenario.
func (c *Command) Description() string { return c.Desc }

// Attributes implements Scenario.
func (c *Command) Attributes() map[string]any {
	if c.Attrs == nil {
		return map[string]any{}
	}
	return maps.Clone(c.Attrs)
}

// Setup implements Scenario.
func (c *Command) Setup(ctx context.Context) error {
	return c.run(ctx, "setup", c.SetupCommand)
}

// Teardown implements Scenario.
func (c *Command) Teardown(ctx context.Context) error {
	return c.run(ctx, "teardown", c.TeardownCommand)
}

func (c *Command) run(ctx context.Context, hook, command string) error {
	if strings.TrimSpace(command) == "" {
		return nil
	}
	opts := c.Shell
	opts.Env = append(slices.Clone(opts.Env), Env(c)...)

	res, err := shell.Run(ctx, opts, command)
	if err != nil {
		return fmt.Errorf("scenario %q %s: %w", c.ScenarioName, hook, err)
	}
	if err := res.Err(); err != nil {
		return fmt.Errorf("scenario %q %s: %w", c.ScenarioName, hook, err)
	}
	return nil
}

// Env returns the KEY=VALUE entries describing s to a child process: the
// scenario name plus one SCENARIST_ATTR_<KEY> entry per attribute, sorted
// by key.
func Env(s Scenario) []string {
	attrs := s.Attributes()
	keys := slices.Sorted(maps.Keys(attrs))

	env := make([]string, 0, len(keys)+1)
	env = append(env, EnvScenario+"="+s.Name())
	for _, k := range keys {
		env = append(env, envAttrPrefix+strings.ToUpper(k)+"="+fmt.Sprint(attrs[k]))
	}
	return env
}
