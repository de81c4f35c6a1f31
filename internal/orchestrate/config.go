package orchestrate

import (
	"errors"
	"fmt"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/scenario"
)

// ErrConfiguration is returned when the run configuration combines options
// that cannot be honoured, such as no-setup mode over several scenarios.
var ErrConfiguration = errors.New("invalid run configuration")

// RunConfig is the orchestration input chosen by the user.
type RunConfig struct {
	// Selection restricts the run to a subset of scenarios.
	Selection Selection

	// NoSetup suppresses scheduling of setup and teardown cases. It is only
	// valid when exactly one scenario is selected.
	NoSetup bool
}

// Validate checks cfg against reg before any collection or execution.
// Unknown scenario names wrap scenario.ErrNotFound; an invalid no-setup
// combination wraps ErrConfiguration. List mode is never rejected because
// it schedules nothing.
func (cfg RunConfig) Validate(reg *scenario.Registry) error {
	if err := cfg.Selection.Validate(reg); err != nil {
		return err
	}
	if cfg.Selection.ListMode() {
		return nil
	}
	if cfg.NoSetup && (!cfg.Selection.Specified() || cfg.Selection.Count(reg) != 1) {
		return fmt.Errorf("%w: no-setup mode requires exactly one scenario, got %d",
			ErrConfiguration, cfg.Selection.Count(reg))
	}
	return nil
}
