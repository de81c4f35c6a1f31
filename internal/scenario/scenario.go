// Package scenario defines the Scenario capability interface and the
// Registry that holds every declared scenario for a run.
//
// A scenario is a named environment with its own setup and teardown hooks.
// Test cases are parametrized against one or more scenarios and the
// orchestrator groups them into per-scenario suites. The orchestrator only
// ever talks to the Scenario interface; concrete variants are Func (hooks
// supplied as Go functions) and Command (hooks run as shell commands).
package scenario

import (
	"context"
	"maps"
)

// Scenario is the interface every scenario must implement.
type Scenario interface {
	// Name returns the unique identifier of the scenario. It is embedded in
	// test identifiers and used on the command line, so it must be a plain
	// identifier (letters, digits and underscores).
	Name() string

	// Description returns a human-readable summary shown in list mode.
	Description() string

	// Attributes returns scenario-specific configuration values. Callers
	// must treat the returned map as read-only.
	Attributes() map[string]any

	// Setup prepares the scenario environment. A non-nil error marks the
	// scenario's setup as failed and its body tests are skipped.
	Setup(ctx context.Context) error

	// Teardown releases the scenario environment. It runs regardless of the
	// setup outcome so partially initialised state can be cleaned up.
	Teardown(ctx context.Context) error
}

// Func is a Scenario whose hooks are plain Go functions. Nil hooks are
// treated as no-ops.
type Func struct {
	ScenarioName string
	Desc         string
	Attrs        map[string]any
	SetupFn      func(ctx context.Context) error
	TeardownFn   func(ctx context.Context) error
}

var _ Scenario = (*Func)(nil)

// Name implements Scenario.
func (f *Func) Name() string { return f.ScenarioName }

// Description implements Scenario.
func (f *Func) Description() string { return f.Desc }

// Attributes implements Scenario. It returns a copy so callers cannot mutate
// the scenario after registration.
func (f *Func) Attributes() map[string]any {
	if f.Attrs == nil {
		return map[string]any{}
	}
	return maps.Clone(f.Attrs)
}

// Setup implements Scenario.
func (f *Func) Setup(ctx context.Context) error {
	if f.SetupFn == nil {
		return nil
	}
	return f.SetupFn(ctx)
}

// Teardown implements Scenario.
func (f *Func) Teardown(ctx context.Context) error {
	if f.TeardownFn == nil {
		return nil
	}
	return f.TeardownFn(ctx)
}
