package analysis

import "errors"

// ErrEmptyData is returned when a year filter leaves no daily records.
// The affected average is NaN and is still reported.
var ErrEmptyData = errors.New("no daily records for the selected year")
