package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nao1215/bikereport/internal/analysis"
	"github.com/nao1215/bikereport/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
//
// Design decision: Counts are formatted with a message.Printer so that
// grouping separators follow the configured locale. Averages are always
// printed with two decimals and no grouping so they stay easy to compare.
type SimpleWriter struct {
	baseWriter

	// printer formats counts for the configured locale.
	printer *message.Printer

	// showData is the number of daily rows dumped at the end (0 disables it).
	showData int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithLocale sets the locale used for number formatting (e.g. "en", "de").
func WithLocale(locale string) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.printer = message.NewPrinter(language.Make(locale))
	}
}

// WithShowData dumps the first n rows of the daily view.
func WithShowData(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showData = n
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		printer:    message.NewPrinter(language.English),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(result *model.ReportResult) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writeAverages(&sb, result)
	w.writeSeries(&sb, "MONTHLY PERFORMANCE COMPARISON", "Month", result.Monthly, analysis.MonthName)
	w.writeSeries(&sb, "WEEKLY PERFORMANCE COMPARISON", "Week", result.Weekly, strconv.Itoa)
	w.writeSeries(&sb, "HOURLY PERFORMANCE ANALYSIS", "Hour", result.Hourly.Series(), strconv.Itoa)
	w.writeCorrelations(&sb, result)
	w.writeWeather(&sb, result)
	w.writeWarnings(&sb, result)
	w.writeData(&sb, result)
	w.writeFooter(&sb, result)

	return w.output.Write([]byte(sb.String()))
}

// writeSection writes a section heading.
func (w *SimpleWriter) writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeHeader writes the report header with dataset information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, result *model.ReportResult) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	title := strings.ToUpper(Title)
	sb.WriteString(strings.Repeat(" ", (70-len(title))/2))
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Selection:   %s\n", result.Selection.Label())
	if result.Dataset.Source != "" {
		fmt.Fprintf(sb, "Dataset:     %s\n", result.Dataset.Source)
	}
	if result.Dataset.Fingerprint != "" {
		fmt.Fprintf(sb, "Fingerprint: %s\n", result.Dataset.Fingerprint)
	}
	sb.WriteString(w.printer.Sprintf("Records:     %d daily, %d hourly\n", result.Dataset.DailyRecords, result.Dataset.HourlyRecords))
	fmt.Fprintf(sb, "Generated:   %s\n", result.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	sb.WriteString("\n")
}

// writeAverages writes the average statements.
func (w *SimpleWriter) writeAverages(sb *strings.Builder, result *model.ReportResult) {
	w.writeSection(sb, "AVERAGE NUMBER OF CUSTOMERS")
	for _, line := range AverageLines(result.Averages) {
		fmt.Fprintf(sb, "  %s\n", line)
	}
	sb.WriteString("\n")
}

// writeSeries writes aggregate series side by side, one row per key.
func (w *SimpleWriter) writeSeries(sb *strings.Builder, title, keyHeader string, series []model.AggregateSeries, keyLabel func(int) string) {
	w.writeSection(sb, title)

	fmt.Fprintf(sb, "  %-8s", keyHeader)
	for _, s := range series {
		fmt.Fprintf(sb, " %14s", s.Label)
	}
	sb.WriteString("\n")

	keys := unionKeys(series)
	if len(keys) == 0 {
		sb.WriteString("  No data\n\n")
		return
	}
	for _, key := range keys {
		fmt.Fprintf(sb, "  %-8s", keyLabel(key))
		for _, s := range series {
			v, ok := s.Value(key)
			if !ok {
				fmt.Fprintf(sb, " %14s", "-")
				continue
			}
			fmt.Fprintf(sb, " %14s", w.printer.Sprintf("%d", v))
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(sb, "  %-8s", "Total")
	for _, s := range series {
		fmt.Fprintf(sb, " %14s", w.printer.Sprintf("%d", s.Total()))
	}
	sb.WriteString("\n")

	fmt.Fprintf(sb, "  %-8s", "Peak")
	for _, s := range series {
		peak, ok := s.Peak()
		if !ok {
			fmt.Fprintf(sb, " %14s", "-")
			continue
		}
		fmt.Fprintf(sb, " %14s", keyLabel(peak.Key))
	}
	sb.WriteString("\n\n")
}

// writeCorrelations writes the correlation ranking and the regression lines.
func (w *SimpleWriter) writeCorrelations(sb *strings.Builder, result *model.ReportResult) {
	w.writeSection(sb, "CORRELATION WITH RENTAL COUNT")
	for _, c := range result.Correlations {
		fmt.Fprintf(sb, "  %-12s %8s\n", c.Field, coefficient(c.Coefficient))
	}
	sb.WriteString("\n")

	for _, chart := range result.ChartsByGroup(model.GroupCorrelation) {
		if chart.Fit == nil {
			continue
		}
		fmt.Fprintf(sb, "  %s: cnt = %s + %s * %s\n",
			chart.Title, chart.Fit.Intercept, chart.Fit.Slope, chart.Series[0].Label)
	}
	sb.WriteString("\n")
}

// writeWeather writes rentals per weather situation.
func (w *SimpleWriter) writeWeather(sb *strings.Builder, result *model.ReportResult) {
	if len(result.Weather) == 0 {
		return
	}
	w.writeSection(sb, "RENTALS BY WEATHER SITUATION")
	for _, s := range result.Weather {
		fmt.Fprintf(sb, "  %d %-16s %14s\n", s.Situation, s.Label, w.printer.Sprintf("%d", s.Count))
	}
	sb.WriteString("\n")
}

// writeWarnings lists non-fatal conditions met during generation.
func (w *SimpleWriter) writeWarnings(sb *strings.Builder, result *model.ReportResult) {
	if len(result.Warnings) == 0 {
		return
	}
	w.writeSection(sb, "WARNINGS")
	for _, warning := range result.Warnings {
		fmt.Fprintf(sb, "  [!] %s\n", warning)
	}
	sb.WriteString("\n")
}

// writeData dumps the first rows of the daily view.
func (w *SimpleWriter) writeData(sb *strings.Builder, result *model.ReportResult) {
	columns, rows := dataRowsOf(result, w.showData)
	if columns == nil {
		return
	}
	w.writeSection(sb, "DATA OVERVIEW")
	sb.WriteString("  " + strings.Join(columns, "\t") + "\n")
	for _, row := range rows {
		sb.WriteString("  " + strings.Join(row, "\t") + "\n")
	}
	if len(rows) < len(result.Daily.Records) {
		w.printer.Fprintf(sb, "  ... %d more rows\n", len(result.Daily.Records)-len(rows))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, result *model.ReportResult) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Steps: %s\n", strings.Join(result.Steps, ", "))
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
