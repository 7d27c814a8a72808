package report

import (
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/nao1215/bikereport/internal/model"
)

// Writer defines the interface for report output.
// Implementations render one generated report in a given format.
//
// Design decision: Writers only render. Every number they print is already
// present in the ReportResult, so all surfaces agree with each other.
type Writer interface {
	// Write renders the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(result *model.ReportResult) (int, error)
}

// MultiWriter writes to multiple Writers in turn.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(result *model.ReportResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// Title is the heading of every rendered report.
const Title = "Bike Sharing Business Performance Analysis"

// unionKeys returns the sorted keys present in any of the series.
func unionKeys(series []model.AggregateSeries) []int {
	keys := make(map[int]struct{})
	for _, s := range series {
		for _, p := range s.Points {
			keys[p.Key] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(keys))
}

// AverageLines returns the average statements of a report, formatted to
// two decimal places.
func AverageLines(avgs model.CustomerAverages) []string {
	lines := make([]string, 0, len(avgs.ByYear)+1)
	for _, y := range avgs.ByYear {
		lines = append(lines, "Average Number of Customers in "+strconv.Itoa(y.Year)+": "+y.Average.String())
	}
	if avgs.Overall != nil {
		lines = append(lines, "Overall Average Number of Customers (2011 & 2012): "+avgs.Overall.String())
	}
	return lines
}

// dataRowsOf returns at most limit rows of the daily view, or nil when the
// result carries no daily view.
func dataRowsOf(result *model.ReportResult, limit int) ([]string, [][]string) {
	if result.Daily == nil || limit <= 0 {
		return nil, nil
	}
	return result.Daily.Columns, result.Daily.Rows(limit)
}

// coefficient formats a correlation coefficient.
func coefficient(s model.Stat) string {
	if !s.IsDefined() {
		return "NaN"
	}
	return strconv.FormatFloat(s.Float64(), 'f', 4, 64)
}
