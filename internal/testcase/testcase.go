// Package testcase defines the discovered test case handed to the
// orchestrator and the identifier convention that tags each case with its
// scenario.
package testcase

import (
	"context"
	"strings"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/scenario"
)

// Kind classifies a test case by its role within a scenario suite.
type Kind string

const (
	// KindSetup is the per-scenario setup case. It runs before every body
	// test of its scenario and its outcome gates them.
	KindSetup Kind = "setup"

	// KindTeardown is the per-scenario teardown case. It runs after the body
	// tests regardless of the setup outcome.
	KindTeardown Kind = "teardown"

	// KindBody is a test exercising behaviour under a scenario.
	KindBody Kind = "body"
)

// Reserved names of the generated setup and teardown cases.
const (
	SetupName    = "setup"
	TeardownName = "teardown"
)

// Body is the function run for a test case, bound to one scenario.
type Body func(ctx context.Context, sc scenario.Scenario) error

// TestCase is one discovered, scenario-bound test. Test cases are never
// mutated after discovery; the orchestrator only filters and reorders them.
type TestCase struct {
	// ID is the display identifier, e.g. "attr_a[advanced-2]". The scenario
	// tag is embedded in the bracketed suffix.
	ID string `json:"id"`

	// Name is the declared name before parametrization, e.g. "attr_a".
	Name string `json:"name"`

	// Kind is the declared role. It is never derived from ID.
	Kind Kind `json:"kind"`

	// Param is the parametrization suffix after the scenario tag, if any.
	Param string `json:"param,omitempty"`

	// Scenario is the scenario the case is bound to.
	Scenario scenario.Scenario `json:"-"`

	// Run executes the case. A nil Run is a no-op that passes.
	Run Body `json:"-"`
}

// Execute runs the case against its bound scenario.
func (tc TestCase) Execute(ctx context.Context) error {
	if tc.Run == nil {
		return nil
	}
	return tc.Run(ctx, tc.Scenario)
}

// FormatID builds a display identifier of the form name[scenario] or
// name[scenario-p1-p2] for the given parametrization tokens.
func FormatID(name, scenarioName string, params ...string) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('[')
	sb.WriteString(scenarioName)
	for _, p := range params {
		sb.WriteByte(paramSeparator)
		sb.WriteString(p)
	}
	sb.WriteByte(']')
	return sb.String()
}

// NewSetup returns the generated setup case for sc.
func NewSetup(sc scenario.Scenario) TestCase {
	return TestCase{
		ID:       FormatID(SetupName, sc.Name()),
		Name:     SetupName,
		Kind:     KindSetup,
		Scenario: sc,
		Run: func(ctx context.Context, sc scenario.Scenario) error {
			return sc.Setup(ctx)
		},
	}
}

// NewTeardown returns the generated teardown case for sc.
func NewTeardown(sc scenario.Scenario) TestCase {
	return TestCase{
		ID:       FormatID(TeardownName, sc.Name()),
		Name:     TeardownName,
		Kind:     KindTeardown,
		Scenario: sc,
		Run: func(ctx context.Context, sc scenario.Scenario) error {
			return sc.Teardown(ctx)
		},
	}
}

// IDs returns the identifiers of tests in order.
func IDs(tests []TestCase) []string {
	ids := make([]string, len(tests))
	for i, tc := range tests {
		ids[i] = tc.ID
	}
	return ids
}
