package dataset

import "errors"

// Loading errors. All of them are fatal: a report is never produced from a
// partially loaded dataset.
var (
	// ErrSourceNotFound is returned when the source file does not exist.
	ErrSourceNotFound = errors.New("dataset source not found")

	// ErrSourceUnreadable is returned when the source exists but cannot be
	// read or parsed as delimited text.
	ErrSourceUnreadable = errors.New("dataset source unreadable")

	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("required column missing")

	// ErrInvalidValue is returned when a required column holds a value that
	// cannot be parsed (malformed date, non-numeric count, ...).
	ErrInvalidValue = errors.New("invalid value")

	// ErrEmptySource is returned when the source holds no data rows.
	ErrEmptySource = errors.New("dataset source has no rows")
)
