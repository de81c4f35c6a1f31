package orchestrate

import (
	"errors"
	"fmt"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/testcase"
)

// ErrDuplicateFixture is returned when one scenario receives more than one
// setup or teardown case during grouping.
var ErrDuplicateFixture = errors.New("duplicate scenario fixture")

// Suite holds every scheduled test of one scenario for a single run.
type Suite struct {
	// Scenario is the scenario tag shared by all tests in the suite.
	Scenario string

	// Setup is the scenario's setup case, or nil when none was collected.
	Setup *testcase.TestCase

	// Body holds the body tests in discovery order.
	Body []testcase.TestCase

	// Teardown is the scenario's teardown case, or nil when none was collected.
	Teardown *testcase.TestCase
}

// Tests returns the suite's execution order: setup, body, teardown. With
// noSetup only the body tests are returned.
func (s *Suite) Tests(noSetup bool) []testcase.TestCase {
	out := make([]testcase.TestCase, 0, len(s.Body)+2)
	if !noSetup && s.Setup != nil {
		out = append(out, *s.Setup)
	}
	out = append(out, s.Body...)
	if !noSetup && s.Teardown != nil {
		out = append(out, *s.Teardown)
	}
	return out
}

// add places tc into the suite slot matching its declared kind.
func (s *Suite) add(tc testcase.TestCase) error {
	switch tc.Kind {
	case testcase.KindSetup:
		if s.Setup != nil {
			return fmt.Errorf("%w: scenario %q has setup cases %q and %q",
				ErrDuplicateFixture, s.Scenario, s.Setup.ID, tc.ID)
		}
		s.Setup = &tc
	case testcase.KindTeardown:
		if s.Teardown != nil {
			return fmt.Errorf("%w: scenario %q has teardown cases %q and %q",
				ErrDuplicateFixture, s.Scenario, s.Teardown.ID, tc.ID)
		}
		s.Teardown = &tc
	default:
		s.Body = append(s.Body, tc)
	}
	return nil
}

// BuildSuites groups raw into per-scenario suites. Each test's scenario is
// read from its identifier with parse; tests outside sel are dropped. Suites
// appear in the order their scenario was first encountered among the
// surviving tests, and body tests keep their relative discovery order.
//
// Suites whose body is empty are kept here; Reorder drops them.
func BuildSuites(raw []testcase.TestCase, sel Selection, parse testcase.Parser) ([]Suite, error) {
	if parse == nil {
		parse = testcase.ParseBracket
	}

	var suites []Suite
	index := make(map[string]int)

	for _, tc := range raw {
		name, err := parse(tc.ID)
		if err != nil {
			return nil, fmt.Errorf("grouping test %q: %w", tc.ID, err)
		}
		if !sel.IsSelected(name) {
			continue
		}

		i, ok := index[name]
		if !ok {
			i = len(suites)
			index[name] = i
			suites = append(suites, Suite{Scenario: name})
		}
		if err := suites[i].add(tc); err != nil {
			return nil, err
		}
	}

	return suites, nil
}
