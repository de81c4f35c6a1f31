// Package demo provides a small self-contained scenario pack: two
// scenarios with attributes and two tests that append to a shared log
// file. It exercises the full collect, reorder, run cycle without any
// external setup.
package demo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/collect"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/scenario"
)

// DefaultLogFile is the log file name used when none is configured.
const DefaultLogFile = "scenarist-demo.log"

// Pack holds the demo scenarios bound to one log file.
type Pack struct {
	logPath string
	mu      sync.Mutex
}

// New returns a Pack writing to logPath. An empty path selects
// DefaultLogFile in the working directory.
func New(logPath string) *Pack {
	if logPath == "" {
		logPath = DefaultLogFile
	}
	return &Pack{logPath: logPath}
}

// LogPath returns the file the pack appends to.
func (p *Pack) LogPath() string { return p.logPath }

// Register adds the base and advanced scenarios to reg.
func (p *Pack) Register(reg *scenario.Registry) error {
	for _, sc := range p.Scenarios() {
		if err := reg.Register(sc); err != nil {
			return err
		}
	}
	return nil
}

// Scenarios returns the demo scenarios in registration order.
func (p *Pack) Scenarios() []scenario.Scenario {
	return []scenario.Scenario{
		p.scenario("base", "Base scenario", map[string]any{"a": 1, "b": 2}),
		p.scenario("advanced", "Advanced scenario", map[string]any{"a": 4, "b": 8}),
	}
}

func (p *Pack) scenario(name, desc string, attrs map[string]any) scenario.Scenario {
	return &scenario.Func{
		ScenarioName: name,
		Desc:         desc,
		Attrs:        attrs,
		SetupFn: func(context.Context) error {
			return p.appendf("Starting scenario %s\n", name)
		},
		TeardownFn: func(context.Context) error {
			return p.appendf("Ending %s\n\n", name)
		},
	}
}

// Declarations returns the demo tests: attr_a runs under both scenarios
// with params 1, 2 and 3; attr_b runs under base only.
func (p *Pack) Declarations() []collect.Declaration {
	return []collect.Declaration{
		{
			Name:      "attr_a",
			Scenarios: []string{"base", "advanced"},
			Params:    []string{"1", "2", "3"},
			Run: func(ctx context.Context, sc scenario.Scenario) error {
				return p.appendf("Start attr_a with scenario=%s attr=%s a=%v\n",
					sc.Name(), collect.ParamFrom(ctx), sc.Attributes()["a"])
			},
		},
		{
			Name:      "attr_b",
			Scenarios: []string{"base"},
			Run: func(_ context.Context, sc scenario.Scenario) error {
				return p.appendf("Start attr_b scenario=%s b=%v\n", sc.Name(), sc.Attributes()["b"])
			},
		},
	}
}

func (p *Pack) appendf(format string, args ...any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if dir := filepath.Dir(p.logPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("demo: creating log directory: %w", err)
		}
	}
	f, err := os.OpenFile(p.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("demo: opening log: %w", err)
	}
	if _, err := fmt.Fprintf(f, format, args...); err != nil {
		_ = f.Close()
		return fmt.Errorf("demo: writing log: %w", err)
	}
	return f.Close()
}
