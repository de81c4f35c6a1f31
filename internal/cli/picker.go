package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/scenario"
)

// errPickCancelled is returned when the user aborts the scenario picker.
var errPickCancelled = errors.New("scenario picker cancelled by user")

// pickerWidth is the fixed form width of the scenario picker.
const pickerWidth = 72

// errNothingPicked is returned when the picker is confirmed with no scenario
// ticked. Running with an empty pick would silently turn into list mode.
var errNothingPicked = errors.New("no scenario picked")

// pickScenarios asks the user which scenarios to run. It is a variable so
// tests can replace the interactive form.
var pickScenarios = runScenarioPicker

// runScenarioPicker shows a huh multi-select over the registered scenarios
// and returns the chosen names in registration order.
func runScenarioPicker(scenarios []scenario.Scenario) ([]string, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("picker: no scenarios registered")
	}

	options := make([]huh.Option[string], len(scenarios))
	for i, s := range scenarios {
		label := s.Name()
		if d := s.Description(); d != "" {
			label = fmt.Sprintf("%s - %s", s.Name(), d)
		}
		options[i] = huh.NewOption(label, s.Name())
	}

	var picked []string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Scenarios to run:").
				Description("Space toggles a scenario, enter confirms.").
				Options(options...).
				Value(&picked),
		),
	).
		WithTheme(huh.ThemeCharm()).
		WithWidth(pickerWidth).
		Run()
	if err != nil {
		return nil, mapPickerErr(err)
	}
	if len(picked) == 0 {
		return nil, errNothingPicked
	}
	return orderByRegistration(scenarios, picked), nil
}

// orderByRegistration returns the picked names in the order the scenarios
// were registered, dropping names that are not registered.
func orderByRegistration(scenarios []scenario.Scenario, picked []string) []string {
	want := make(map[string]bool, len(picked))
	for _, name := range picked {
		want[name] = true
	}
	out := make([]string, 0, len(picked))
	for _, s := range scenarios {
		if want[s.Name()] {
			out = append(out, s.Name())
		}
	}
	return out
}

func mapPickerErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return errPickCancelled
	}
	return fmt.Errorf("picker: %w", err)
}
