package orchestrate

import (
	"errors"
	"fmt"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/scenario"
)

// Selection is the user's choice of scenarios to run. It distinguishes
// three states:
//
//   - not specified: every scenario runs (All)
//   - specified and empty: list mode, nothing runs (Only with no names)
//   - specified and non-empty: only the named scenarios run
type Selection struct {
	specified bool
	names     []string
	set       map[string]struct{}
}

// All returns a Selection that runs every scenario.
func All() Selection {
	return Selection{}
}

// Only returns a Selection restricted to names. Calling Only with no names
// requests list mode. Duplicate names are collapsed, keeping first order.
func Only(names ...string) Selection {
	sel := Selection{
		specified: true,
		names:     make([]string, 0, len(names)),
		set:       make(map[string]struct{}, len(names)),
	}
	for _, n := range names {
		if _, dup := sel.set[n]; dup {
			continue
		}
		sel.set[n] = struct{}{}
		sel.names = append(sel.names, n)
	}
	return sel
}

// Specified reports whether the user supplied an explicit selection.
func (s Selection) Specified() bool { return s.specified }

// ListMode reports whether the selection asks to enumerate scenarios
// instead of running tests.
func (s Selection) ListMode() bool { return s.specified && len(s.names) == 0 }

// IsSelected reports whether tests tagged with name belong in the run.
func (s Selection) IsSelected(name string) bool {
	if !s.specified {
		return true
	}
	_, ok := s.set[name]
	return ok
}

// Names returns the explicitly selected names, or nil when the selection
// was not specified.
func (s Selection) Names() []string {
	if !s.specified {
		return nil
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Count returns the number of scenarios the selection resolves to against
// reg: every registered scenario when unspecified, otherwise the number of
// explicit names.
func (s Selection) Count(reg *scenario.Registry) int {
	if !s.specified {
		return reg.Len()
	}
	return len(s.names)
}

// Validate checks every selected name against reg. Unknown names are
// reported together, each wrapping scenario.ErrNotFound.
func (s Selection) Validate(reg *scenario.Registry) error {
	var errs []error
	for _, n := range s.names {
		if !reg.Has(n) {
			errs = append(errs, fmt.Errorf("requested scenario %q: %w", n, scenario.ErrNotFound))
		}
	}
	return errors.Join(errs...)
}
