// Package orchestrate turns a flat collection of scenario-tagged test cases
// into an execution order of isolated per-scenario suites.
//
// The pipeline is: validate the RunConfig against the scenario registry,
// parse each test's scenario tag, drop unselected tests, group by scenario,
// then emit setup, body tests and teardown for every scenario that has at
// least one body test. Reorder and Plan are pure functions of their inputs;
// the caller's slice is never modified.
package orchestrate

import (
	"github.com/AbdelazizMoustafa10m/scenarist/internal/scenario"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/testcase"
)

// Option configures Reorder and Plan.
type Option func(*options)

type options struct {
	parse testcase.Parser
}

// WithParser replaces the identifier parser used to read scenario tags.
func WithParser(p testcase.Parser) Option {
	return func(o *options) { o.parse = p }
}

func buildOptions(opts []Option) options {
	o := options{parse: testcase.ParseBracket}
	for _, opt := range opts {
		opt(&o)
	}
	if o.parse == nil {
		o.parse = testcase.ParseBracket
	}
	return o
}

// Reorder validates cfg and returns the final execution order for raw.
//
// Within a scenario the setup case (if collected) precedes every body test,
// which precede the teardown case (if collected). Scenarios never
// interleave. Scenarios with no selected body test are dropped entirely,
// including their setup and teardown. With cfg.NoSetup only body tests are
// emitted.
//
// In list mode Reorder returns an empty order.
func Reorder(raw []testcase.TestCase, cfg RunConfig, reg *scenario.Registry, opts ...Option) ([]testcase.TestCase, error) {
	p, err := BuildPlan(raw, cfg, reg, opts...)
	if err != nil {
		return nil, err
	}
	return p.Order, nil
}

// flatten concatenates the non-empty suites in order.
func flatten(suites []Suite, noSetup bool) []testcase.TestCase {
	order := make([]testcase.TestCase, 0)
	for i := range suites {
		if len(suites[i].Body) == 0 {
			continue
		}
		order = append(order, suites[i].Tests(noSetup)...)
	}
	return order
}
