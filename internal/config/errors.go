package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and the format helpers.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoDataSource is returned when neither a data file nor the store is selected.
	ErrNoDataSource = errors.New("no data source: provide --data or use --from-db")

	// ErrInvalidYear is returned when the year selection is not 2011, 2012 or both.
	ErrInvalidYear = errors.New("invalid year: must be 2011, 2012 or both")

	// ErrInvalidFormat is returned for an unknown output format.
	ErrInvalidFormat = errors.New("invalid format: must be text, json, markdown or xlsx")

	// ErrConflictingReportFormats is returned when more than one of --json,
	// --markdown and --xlsx is specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json, --markdown and --xlsx cannot be used together")

	// ErrXLSXNeedsOutput is returned when XLSX output has no --output file.
	ErrXLSXNeedsOutput = errors.New("xlsx output requires --output")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidPageSize is returned when the dashboard page size is not positive.
	ErrInvalidPageSize = errors.New("invalid page size: must be positive")

	// ErrInvalidShowData is returned when the number of dumped rows is negative.
	ErrInvalidShowData = errors.New("invalid show-data: must be non-negative")

	// ErrInvalidLocale is returned when the locale is not a valid BCP 47 tag.
	ErrInvalidLocale = errors.New("invalid locale: must be a BCP 47 language tag")

	// ErrInvalidServeAddr is returned when the listen address is not host:port.
	ErrInvalidServeAddr = errors.New("invalid serve address: must be host:port")
)
