package testcase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/scenario"
)

// paramSeparator separates the scenario tag from further parametrization
// tokens inside the bracketed suffix.
const paramSeparator = '-'

// ErrMalformedIdentifier is returned when a test identifier carries no
// usable scenario tag.
var ErrMalformedIdentifier = errors.New("malformed test identifier")

// Parser extracts the scenario tag from a test display identifier. It is a
// pluggable strategy so the bracket convention stays out of the
// orchestrator's grouping logic.
type Parser func(id string) (string, error)

// ParseBracket is the default Parser. It reads the last bracketed suffix of
// id and returns the token before the first '-' inside it:
//
//	attr_a[advanced-2]  -> "advanced"
//	attr_b[base]        -> "base"
//
// It fails with ErrMalformedIdentifier when there is no bracketed suffix or
// the leading token is not a valid scenario name.
func ParseBracket(id string) (string, error) {
	tag, _, err := splitSuffix(id)
	return tag, err
}

// ParseParam returns the parametrization tokens that follow the scenario
// tag, joined by '-', or "" when there are none.
func ParseParam(id string) (string, error) {
	_, param, err := splitSuffix(id)
	return param, err
}

func splitSuffix(id string) (tag, param string, err error) {
	open := strings.LastIndexByte(id, '[')
	if open < 0 {
		return "", "", fmt.Errorf("%w: %q has no [scenario] suffix", ErrMalformedIdentifier, id)
	}
	end := strings.IndexByte(id[open:], ']')
	if end < 0 {
		return "", "", fmt.Errorf("%w: %q has an unterminated suffix", ErrMalformedIdentifier, id)
	}

	inner := id[open+1 : open+end]
	tag, param, _ = strings.Cut(inner, string(paramSeparator))
	if !scenario.ValidName(tag) {
		return "", "", fmt.Errorf("%w: %q has no scenario tag", ErrMalformedIdentifier, id)
	}
	return tag, param, nil
}
