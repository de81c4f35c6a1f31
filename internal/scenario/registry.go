package scenario

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrNotFound is returned by Registry.Lookup when no scenario is
	// registered under the requested name.
	ErrNotFound = errors.New("scenario not found")

	// ErrDuplicateScenario is returned by Registry.Register when a scenario
	// with the same name has already been registered.
	ErrDuplicateScenario = errors.New("scenario already registered")

	// ErrInvalidName is returned by Registry.Register when the scenario name
	// is empty or contains characters other than letters, digits and '_'.
	ErrInvalidName = errors.New("invalid scenario name")
)

var namePattern = regexp.MustCompile(`^\w+$`)

// ValidName reports whether name is usable as a scenario name. Names are
// restricted to word characters because they are embedded in test
// identifiers where '-' separates parametrization tokens.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Registry maps scenario names to Scenario values and remembers the order
// in which they were registered. Registration happens during start-up
// before any collection takes place; the registry is read-only while tests
// run, so it carries no lock.
type Registry struct {
	scenarios map[string]Scenario
	order     []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		scenarios: make(map[string]Scenario),
	}
}

// Register adds s to the registry keyed by s.Name(). A second scenario under
// an existing name is rejected rather than silently replacing the first.
func (r *Registry) Register(s Scenario) error {
	if s == nil {
		return fmt.Errorf("registering scenario: %w: nil scenario", ErrInvalidName)
	}
	name := s.Name()
	if !ValidName(name) {
		return fmt.Errorf("registering scenario %q: %w", name, ErrInvalidName)
	}
	if _, exists := r.scenarios[name]; exists {
		return fmt.Errorf("registering scenario %q: %w", name, ErrDuplicateScenario)
	}
	r.scenarios[name] = s
	r.order = append(r.order, name)
	return nil
}

// MustRegister is like Register but panics on error. Intended for
// initialisation code where a bad declaration is a programming error.
func (r *Registry) MustRegister(s Scenario) {
	if err := r.Register(s); err != nil {
		panic(fmt.Sprintf("scenario: MustRegister: %v", err))
	}
}

// Lookup returns the scenario registered under name, or an error wrapping
// ErrNotFound.
func (r *Registry) Lookup(name string) (Scenario, error) {
	s, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("scenario %q: %w", name, ErrNotFound)
	}
	return s, nil
}

// Has reports whether a scenario is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.scenarios[name]
	return ok
}

// All returns every registered scenario in registration order.
func (r *Registry) All() []Scenario {
	out := make([]Scenario, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.scenarios[name])
	}
	return out
}

// Names returns the registered scenario names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered scenarios.
func (r *Registry) Len() int { return len(r.order) }
