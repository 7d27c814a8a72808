package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/bikereport/internal/model"
)

// JSONWriter outputs reports in JSON format for tool integration.
//
// Design decision: We use standard encoding/json. Undefined statistics
// marshal as null through model.Stat, so no custom encoder is needed.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is recorded in the wrapper object.
	version string

	// dataRows is the number of daily rows included (0 omits the dump).
	dataRows int
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the tool version in the output.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// WithDataDump includes the first n rows of the daily view.
func WithDataDump(n int) JSONWriterOption {
	return func(w *JSONWriter) {
		w.dataRows = n
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport wraps a report with output metadata.
type JSONReport struct {
	// Version is the bikereport version that generated this report.
	Version string `json:"version,omitempty"`

	// Report is the generated report.
	Report *model.ReportResult `json:"report"`

	// Data is the optional daily view dump.
	Data *DataDump `json:"data,omitempty"`
}

// DataDump is a slice of the daily view as strings, in source column order.
type DataDump struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Total   int        `json:"total"`
}

// NewJSONReport wraps result, including at most dataRows daily rows.
func NewJSONReport(result *model.ReportResult, version string, dataRows int) *JSONReport {
	wrapped := &JSONReport{
		Version: version,
		Report:  result,
	}
	if columns, rows := dataRowsOf(result, dataRows); columns != nil {
		wrapped.Data = &DataDump{
			Columns: columns,
			Rows:    rows,
			Total:   len(result.Daily.Records),
		}
	}
	return wrapped
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(result *model.ReportResult) (int, error) {
	return w.writeJSON(NewJSONReport(result, w.version, w.dataRows))
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
