package report

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/bikereport/internal/analysis"
	"github.com/nao1215/bikereport/internal/model"
)

// MarkdownWriter outputs reports in Markdown format for documentation and
// sharing.
//
// Design decision: Charts are emitted as mermaid code blocks (xychart-beta
// for line charts, pie for the weather breakdown) so that GitHub renders
// them without any image files next to the report.
type MarkdownWriter struct {
	baseWriter

	// showData is the number of daily rows dumped at the end (0 disables it).
	showData int
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownData dumps the first n rows of the daily view.
func WithMarkdownData(n int) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.showData = n
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(result *model.ReportResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeAverages(md, result)
	w.writeLineSection(md, "Monthly Performance Comparison", "Month", result, model.GroupMonthly, result.Monthly, analysis.MonthName)
	w.writeLineSection(md, "Weekly Performance Comparison", "Week", result, model.GroupWeekly, result.Weekly, strconv.Itoa)
	w.writeLineSection(md, "Hourly Performance Analysis", "Hour", result, model.GroupHourly, result.Hourly.Series(), strconv.Itoa)
	w.writeCorrelations(md, result)
	w.writeWeather(md, result)
	w.writeData(md, result)
	w.writeFooter(md, result)

	return len(md.String()), md.Build()
}

// writeHeader writes the title, the dataset table and any warnings.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.ReportResult) {
	md.H1(Title)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Selection", result.Selection.Label()},
			{"Dataset", "`" + result.Dataset.Source + "`"},
			{"Fingerprint", "`" + result.Dataset.Fingerprint + "`"},
			{"Daily records", strconv.Itoa(result.Dataset.DailyRecords)},
			{"Hourly records", strconv.Itoa(result.Dataset.HourlyRecords)},
			{"Generated", result.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
		},
	})
	md.PlainText("")

	for _, warning := range result.Warnings {
		md.Warningf("%s", warning)
		md.PlainText("")
	}
}

// writeAverages writes the average statements as headings, the way the
// dashboard shows them.
func (w *MarkdownWriter) writeAverages(md *markdown.Markdown, result *model.ReportResult) {
	for _, line := range AverageLines(result.Averages) {
		md.H3(line)
	}
	md.PlainText("")
}

// writeLineSection writes one aggregate section: the chart and its table.
func (w *MarkdownWriter) writeLineSection(md *markdown.Markdown, heading, keyHeader string, result *model.ReportResult, group model.ChartGroup, series []model.AggregateSeries, keyLabel func(int) string) {
	md.H2(heading)
	md.PlainText("")

	for _, chart := range result.ChartsByGroup(group) {
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, xyChart(chart))
		md.PlainText("")
	}

	header := []string{keyHeader}
	for _, s := range series {
		header = append(header, s.Label)
	}
	keys := unionKeys(series)
	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		row := []string{keyLabel(key)}
		for _, s := range series {
			if v, ok := s.Value(key); ok {
				row = append(row, strconv.Itoa(v))
			} else {
				row = append(row, "-")
			}
		}
		rows = append(rows, row)
	}

	md.Details(heading+" table", tableText(header, rows))
	md.PlainText("")
}

// writeCorrelations writes the ranking and one fitted line per scatter chart.
func (w *MarkdownWriter) writeCorrelations(md *markdown.Markdown, result *model.ReportResult) {
	md.H2("Correlation Analysis")
	md.PlainText("")

	rows := make([][]string, len(result.Correlations))
	for i, c := range result.Correlations {
		rows[i] = []string{"`" + c.Field + "`", coefficient(c.Coefficient)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Field", "Pearson r with cnt"},
		Rows:   rows,
	})
	md.PlainText("")

	fits := make([][]string, 0, 3)
	for _, chart := range result.ChartsByGroup(model.GroupCorrelation) {
		if chart.Fit == nil {
			continue
		}
		fits = append(fits, []string{
			chart.Title,
			chart.Fit.Intercept.String(),
			chart.Fit.Slope.String(),
			strconv.Itoa(len(chart.Series[0].Points)),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Chart", "Intercept", "Slope", "Points"},
		Rows:   fits,
	})
	md.PlainText("")
}

// writeWeather writes the weather pie chart.
func (w *MarkdownWriter) writeWeather(md *markdown.Markdown, result *model.ReportResult) {
	if len(result.Weather) == 0 {
		return
	}
	md.H2("Rentals by Weather Situation")
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Rentals by Weather Situation"),
		piechart.WithShowData(true),
	)
	for _, s := range result.Weather {
		if s.Count > 0 {
			chart.LabelAndIntValue(s.Label, uint64(s.Count))
		}
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeData dumps the first rows of the daily view.
func (w *MarkdownWriter) writeData(md *markdown.Markdown, result *model.ReportResult) {
	columns, rows := dataRowsOf(result, w.showData)
	if columns == nil {
		return
	}
	md.H2("Data Overview")
	md.PlainText("")
	md.Table(markdown.TableSet{Header: columns, Rows: rows})
	md.PlainText("")
	if len(rows) < len(result.Daily.Records) {
		md.Note(fmt.Sprintf("Showing %d of %d daily records.", len(rows), len(result.Daily.Records)))
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown, result *model.ReportResult) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report steps: %s*", strings.Join(result.Steps, ", "))
}

// xyChart renders a line chart as a mermaid xychart-beta definition.
// Series are aligned on the union of their keys; missing values are 0.
func xyChart(chart model.ChartSpec) string {
	labels := make(map[float64]string, len(chart.XTicks))
	for _, t := range chart.XTicks {
		labels[t.Value] = t.Label
	}

	xs := make(map[float64]struct{})
	for _, s := range chart.Series {
		for _, p := range s.Points {
			xs[p.X] = struct{}{}
		}
	}
	axis := make([]float64, 0, len(xs))
	for x := range xs {
		axis = append(axis, x)
	}
	slices.Sort(axis)

	categories := make([]string, len(axis))
	for i, x := range axis {
		label, ok := labels[x]
		if !ok {
			label = strconv.FormatFloat(x, 'f', -1, 64)
		}
		categories[i] = strconv.Quote(label)
	}

	var sb strings.Builder
	sb.WriteString("xychart-beta\n")
	fmt.Fprintf(&sb, "    title %s\n", strconv.Quote(chart.Title))
	fmt.Fprintf(&sb, "    x-axis %s [%s]\n", strconv.Quote(chart.XLabel), strings.Join(categories, ", "))
	fmt.Fprintf(&sb, "    y-axis %s\n", strconv.Quote(chart.YLabel))
	for _, s := range chart.Series {
		values := make(map[float64]float64, len(s.Points))
		for _, p := range s.Points {
			values[p.X] = p.Y
		}
		line := make([]string, len(axis))
		for i, x := range axis {
			line[i] = strconv.FormatFloat(values[x], 'f', -1, 64)
		}
		fmt.Fprintf(&sb, "    line [%s]\n", strings.Join(line, ", "))
	}
	return sb.String()
}

// tableText renders a small Markdown table as text for use inside Details.
func tableText(header []string, rows [][]string) string {
	var sb strings.Builder
	sb.WriteString("\n| " + strings.Join(header, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat("---|", len(header)) + "\n")
	for _, row := range rows {
		sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	return sb.String()
}
