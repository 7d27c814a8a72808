package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// YearSelection is the user's filter: one of the two years or both.
type YearSelection int

const (
	// CompareBoth selects 2011 and 2012 side by side.
	CompareBoth YearSelection = -1

	// Year2011 selects the first year (year-code 0).
	Year2011 YearSelection = 2011

	// Year2012 selects the second year (year-code 1).
	Year2012 YearSelection = 2012
)

// ErrInvalidSelection is returned when a year selection cannot be parsed
// or is outside the supported years.
var ErrInvalidSelection = errors.New("invalid year selection: must be 2011, 2012 or both")

// AllSelections lists every selection in display order.
func AllSelections() []YearSelection {
	return []YearSelection{Year2011, Year2012, CompareBoth}
}

// ParseYearSelection parses "2011", "2012", "both" or "compare".
func ParseYearSelection(s string) (YearSelection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "both", "compare", "compare-both", "all":
		return CompareBoth, nil
	}
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSelection, s)
	}
	sel := YearSelection(year)
	if !sel.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSelection, s)
	}
	return sel, nil
}

// Valid reports whether the selection is one of the supported values.
func (s YearSelection) Valid() bool {
	return s == Year2011 || s == Year2012 || s == CompareBoth
}

// IsCompare reports whether both years are selected.
func (s YearSelection) IsCompare() bool {
	return s == CompareBoth
}

// Years returns the calendar years covered by the selection.
func (s YearSelection) Years() []int {
	switch s {
	case CompareBoth:
		return []int{int(Year2011), int(Year2012)}
	case Year2011, Year2012:
		return []int{int(s)}
	default:
		return nil
	}
}

// String returns "2011", "2012" or "both".
func (s YearSelection) String() string {
	if s == CompareBoth {
		return "both"
	}
	return strconv.Itoa(int(s))
}

// Label returns the human-facing name of the selection.
func (s YearSelection) Label() string {
	if s == CompareBoth {
		return "Compare Both"
	}
	return strconv.Itoa(int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s YearSelection) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, ErrInvalidSelection
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *YearSelection) UnmarshalText(text []byte) error {
	v, err := ParseYearSelection(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
