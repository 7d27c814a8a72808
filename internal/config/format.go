package config

import "strings"

// Format is a report output format.
type Format string

// Supported report formats.
const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatXLSX     Format = "xlsx"
)

// ParseFormat parses a format name. "md" and "excel" are accepted aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", ErrInvalidFormat
	}
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	switch f {
	case FormatText, FormatJSON, FormatMarkdown, FormatXLSX:
		return true
	default:
		return false
	}
}

// ResolveFormat turns the mutually exclusive format flags into a Format.
// With no flag set, fallback is returned.
func ResolveFormat(json, markdown, xlsx bool, fallback Format) (Format, error) {
	selected := make([]Format, 0, 3)
	if json {
		selected = append(selected, FormatJSON)
	}
	if markdown {
		selected = append(selected, FormatMarkdown)
	}
	if xlsx {
		selected = append(selected, FormatXLSX)
	}

	switch len(selected) {
	case 0:
		return fallback, nil
	case 1:
		return selected[0], nil
	default:
		return "", ErrConflictingReportFormats
	}
}
