// Package collect expands test declarations into the flat, scenario-tagged
// collection the orchestrator consumes.
//
// Every registered scenario contributes one setup and one teardown case.
// Each declaration then contributes one body case per (scenario, param)
// pair, in declaration order, scenario-major.
package collect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/scenario"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/testcase"
)

// ErrInvalidDeclaration is returned when a declaration cannot be expanded
// into well-formed test cases.
var ErrInvalidDeclaration = errors.New("invalid test declaration")

// Declaration describes a body test and the scenarios it runs under.
type Declaration struct {
	// Name is the test name used as the identifier prefix.
	Name string

	// Scenarios lists the scenario names the test is parametrized against.
	// Empty means every registered scenario.
	Scenarios []string

	// Params are extra parametrization tokens. Each produces its own case
	// per scenario. Empty produces a single unparametrized case.
	Params []string

	// Run is the test body. The case's Param is available through
	// ParamFrom on the context.
	Run testcase.Body

	// Source records where the declaration came from, for error messages.
	Source string
}

// Collect returns the raw collection for reg and decls. The result lists
// all generated setup cases, then all generated teardown cases, then the
// expanded bodies.
func Collect(reg *scenario.Registry, decls []Declaration) ([]testcase.TestCase, error) {
	all := reg.All()
	raw := make([]testcase.TestCase, 0, 2*len(all)+len(decls))

	for _, sc := range all {
		raw = append(raw, testcase.NewSetup(sc))
	}
	for _, sc := range all {
		raw = append(raw, testcase.NewTeardown(sc))
	}

	var errs []error
	for _, d := range decls {
		cases, err := expand(reg, d)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		raw = append(raw, cases...)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return raw, nil
}

func expand(reg *scenario.Registry, d Declaration) ([]testcase.TestCase, error) {
	where := d.Name
	if d.Source != "" {
		where = d.Source + ": " + d.Name
	}

	switch {
	case d.Name == "":
		return nil, fmt.Errorf("%s: %w: name is required", d.Source, ErrInvalidDeclaration)
	case d.Name == testcase.SetupName || d.Name == testcase.TeardownName:
		return nil, fmt.Errorf("%s: %w: name %q is reserved", where, ErrInvalidDeclaration, d.Name)
	case hasBracket(d.Name):
		return nil, fmt.Errorf("%s: %w: name %q contains a bracket", where, ErrInvalidDeclaration, d.Name)
	}
	for _, p := range d.Params {
		switch {
		case p == "":
			return nil, fmt.Errorf("%s: %w: empty param", where, ErrInvalidDeclaration)
		case hasBracket(p):
			// The identifier parser reads the last bracketed suffix.
			return nil, fmt.Errorf("%s: %w: param %q contains a bracket", where, ErrInvalidDeclaration, p)
		}
	}

	names := d.Scenarios
	if len(names) == 0 {
		names = reg.Names()
	}

	var cases []testcase.TestCase
	for _, name := range names {
		sc, err := reg.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", where, err)
		}
		if len(d.Params) == 0 {
			cases = append(cases, bodyCase(d, sc, ""))
			continue
		}
		for _, p := range d.Params {
			cases = append(cases, bodyCase(d, sc, p))
		}
	}
	return cases, nil
}

func hasBracket(s string) bool { return strings.ContainsAny(s, "[]") }

func bodyCase(d Declaration, sc scenario.Scenario, param string) testcase.TestCase {
	id := testcase.FormatID(d.Name, sc.Name())
	if param != "" {
		id = testcase.FormatID(d.Name, sc.Name(), param)
	}
	tc := testcase.TestCase{
		ID:       id,
		Name:     d.Name,
		Kind:     testcase.KindBody,
		Param:    param,
		Scenario: sc,
	}
	if d.Run != nil {
		tc.Run = withParam(d.Run, param)
	}
	return tc
}
