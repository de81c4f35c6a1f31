package orchestrate

import (
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/scenario"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/testcase"
)

// Plan is the outcome of the orchestration driver for one run.
type Plan struct {
	// ListMode is true when the selection asked to enumerate scenarios.
	// Scenarios is then populated and Order is empty.
	ListMode bool

	// Scenarios lists every registered scenario in registration order. It
	// is only set in list mode.
	Scenarios []scenario.Scenario

	// Suites holds the scheduled, non-empty suites in execution order.
	Suites []Suite

	// Order is the flattened execution order handed to the executor.
	Order []testcase.TestCase

	// NoSetup mirrors the RunConfig the plan was built from.
	NoSetup bool

	// Fingerprint identifies Order; identical inputs yield identical
	// fingerprints.
	Fingerprint uint64
}

// BuildPlan runs the orchestration driver: validate, short-circuit list
// mode, group into suites and flatten. The raw slice is not modified.
func BuildPlan(raw []testcase.TestCase, cfg RunConfig, reg *scenario.Registry, opts ...Option) (*Plan, error) {
	if err := cfg.Validate(reg); err != nil {
		return nil, err
	}
	if cfg.Selection.ListMode() {
		return &Plan{ListMode: true, Scenarios: reg.All(), Order: []testcase.TestCase{}}, nil
	}

	o := buildOptions(opts)
	suites, err := BuildSuites(raw, cfg.Selection, o.parse)
	if err != nil {
		return nil, err
	}

	scheduled := make([]Suite, 0, len(suites))
	for _, s := range suites {
		if len(s.Body) > 0 {
			scheduled = append(scheduled, s)
		}
	}
	order := flatten(scheduled, cfg.NoSetup)

	return &Plan{
		Suites:      scheduled,
		Order:       order,
		NoSetup:     cfg.NoSetup,
		Fingerprint: Fingerprint(order),
	}, nil
}

// Fingerprint hashes the ordered test identifiers with xxhash.
func Fingerprint(order []testcase.TestCase) uint64 {
	d := xxhash.New()
	for _, tc := range order {
		_, _ = d.WriteString(tc.ID)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

// FormatFingerprint renders a fingerprint as fixed-width hex.
func FormatFingerprint(fp uint64) string {
	return fmt.Sprintf("%016x", fp)
}

// WriteListing prints the list-mode enumeration of scenarios:
//
//	Available scenarios:
//	  base - Base scenario
func WriteListing(w io.Writer, scenarios []scenario.Scenario) error {
	if _, err := fmt.Fprintln(w, "Available scenarios:"); err != nil {
		return err
	}
	for _, s := range scenarios {
		if _, err := fmt.Fprintf(w, "  %s - %s\n", s.Name(), s.Description()); err != nil {
			return err
		}
	}
	return nil
}
