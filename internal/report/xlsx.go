package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/bikereport/internal/analysis"
	"github.com/nao1215/bikereport/internal/model"
)

// Sheet names of the workbook.
const (
	SheetSummary     = "Summary"
	SheetMonthly     = "Monthly"
	SheetWeekly      = "Weekly"
	SheetHourly      = "Hourly"
	SheetCorrelation = "Correlation"
	SheetWeather     = "Weather"
	SheetDailyData   = "Daily Data"
)

// XLSXWriter outputs reports as an Excel workbook with native charts.
// Every aggregate gets its own sheet and its chart reads the cells of that
// sheet, so the workbook stays editable.
type XLSXWriter struct {
	baseWriter
}

// NewXLSXWriter creates an XLSXWriter that outputs to the given writer.
func NewXLSXWriter(output io.Writer) *XLSXWriter {
	return &XLSXWriter{baseWriter: newBaseWriter(output)}
}

// Write builds the workbook and writes it to the output.
func (w *XLSXWriter) Write(result *model.ReportResult) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:       Title,
		Subject:     "Bike sharing report (" + result.Selection.Label() + ")",
		Creator:     "bikereport",
		Description: "Generated from " + result.Dataset.Source,
		Created:     result.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}); err != nil {
		return 0, fmt.Errorf("failed to set document properties: %w", err)
	}

	builders := []struct {
		name  string
		build func(*excelize.File, *model.ReportResult) error
	}{
		{SheetSummary, w.summarySheet},
		{SheetMonthly, func(f *excelize.File, r *model.ReportResult) error {
			return w.seriesSheet(f, SheetMonthly, "Month", r.Monthly, analysis.MonthName, r.ChartsByGroup(model.GroupMonthly))
		}},
		{SheetWeekly, func(f *excelize.File, r *model.ReportResult) error {
			return w.seriesSheet(f, SheetWeekly, "Week", r.Weekly, strconv.Itoa, r.ChartsByGroup(model.GroupWeekly))
		}},
		{SheetHourly, func(f *excelize.File, r *model.ReportResult) error {
			return w.seriesSheet(f, SheetHourly, "Hour", r.Hourly.Series(), strconv.Itoa, r.ChartsByGroup(model.GroupHourly))
		}},
		{SheetCorrelation, w.correlationSheet},
		{SheetWeather, w.weatherSheet},
		{SheetDailyData, w.dailySheet},
	}
	for _, b := range builders {
		if err := b.build(f, result); err != nil {
			return 0, fmt.Errorf("failed to create %s sheet: %w", b.name, err)
		}
	}

	if idx, err := f.GetSheetIndex(SheetSummary); err == nil {
		f.SetActiveSheet(idx)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return 0, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	n, err := f.WriteTo(w.output)
	return int(n), err
}

func (w *XLSXWriter) summarySheet(f *excelize.File, result *model.ReportResult) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return err
	}

	rows := [][]any{
		{Title},
		{"Selection", result.Selection.Label()},
		{"Dataset", result.Dataset.Source},
		{"Fingerprint", result.Dataset.Fingerprint},
		{"Daily records", result.Dataset.DailyRecords},
		{"Hourly records", result.Dataset.HourlyRecords},
		{"Generated", result.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
		{},
		{"Year", "Average Number of Customers", "Days"},
	}
	for _, y := range result.Averages.ByYear {
		rows = append(rows, []any{y.Year, statCell(y.Average), y.Days})
	}
	if result.Averages.Overall != nil {
		rows = append(rows, []any{"Overall (2011 & 2012)", statCell(*result.Averages.Overall)})
	}
	if len(result.Warnings) > 0 {
		rows = append(rows, []any{})
		for _, warning := range result.Warnings {
			rows = append(rows, []any{"Warning", warning})
		}
	}

	if err := writeRows(f, SheetSummary, 1, rows); err != nil {
		return err
	}
	if err := f.MergeCell(SheetSummary, "A1", "C1"); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "C", 28)
}

func (w *XLSXWriter) seriesSheet(f *excelize.File, sheet, keyHeader string, series []model.AggregateSeries, keyLabel func(int) string, charts []model.ChartSpec) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []any{keyHeader}
	for _, s := range series {
		header = append(header, s.Label)
	}
	rows := [][]any{header}
	keys := unionKeys(series)
	for _, key := range keys {
		row := []any{keyLabel(key)}
		for _, s := range series {
			if v, ok := s.Value(key); ok {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}
		rows = append(rows, row)
	}
	if err := writeRows(f, sheet, 1, rows); err != nil {
		return err
	}
	if len(keys) == 0 || len(charts) == 0 {
		return nil
	}

	chart := charts[0]
	last := len(keys) + 1
	xlSeries := make([]excelize.ChartSeries, len(series))
	for i := range series {
		color := ""
		if i < len(chart.Series) {
			color = chart.Series[i].Color
		}
		xlSeries[i] = excelize.ChartSeries{
			Name:       cellRef(sheet, i+2, 1),
			Categories: rangeRef(sheet, 1, 2, 1, last),
			Values:     rangeRef(sheet, i+2, 2, i+2, last),
			Fill:       solidFill(color),
			Marker:     excelize.ChartMarker{Symbol: "circle", Size: 5, Fill: solidFill(color)},
		}
	}

	anchor := cell(len(series)+3, 2)
	return f.AddChart(sheet, anchor, &excelize.Chart{
		Type:      excelize.Line,
		Series:    xlSeries,
		Title:     []excelize.RichTextRun{{Text: chart.Title}},
		Legend:    excelize.ChartLegend{Position: "top"},
		XAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: chart.XLabel}}},
		YAxis:     excelize.ChartAxis{MajorGridLines: true, Title: []excelize.RichTextRun{{Text: chart.YLabel}}},
		Dimension: excelize.ChartDimension{Width: 960, Height: 400},
	})
}

// correlationSheet writes the ranking in columns A:B and, for each scatter
// chart, a block of four columns: x, cnt, fit x, fit y.
func (w *XLSXWriter) correlationSheet(f *excelize.File, result *model.ReportResult) error {
	sheet := SheetCorrelation
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]any{{"Field", "Pearson r with cnt"}}
	for _, c := range result.Correlations {
		rows = append(rows, []any{c.Field, statCell(c.Coefficient)})
	}
	if err := writeRows(f, sheet, 1, rows); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "B", 18); err != nil {
		return err
	}

	for i, chart := range result.ChartsByGroup(model.GroupCorrelation) {
		col := 4 + i*4
		if err := w.scatterBlock(f, sheet, col, i, chart); err != nil {
			return fmt.Errorf("%s: %w", chart.ID, err)
		}
	}
	return nil
}

func (w *XLSXWriter) scatterBlock(f *excelize.File, sheet string, col, index int, chart model.ChartSpec) error {
	points := chart.Series[0].Points
	header := [][]any{{chart.XLabel, "cnt", "fit " + chart.XLabel, "fit cnt"}}
	if err := writeRowsAt(f, sheet, col, 1, header); err != nil {
		return err
	}
	for r, p := range points {
		if err := setRow(f, sheet, col, r+2, []any{p.X, p.Y}); err != nil {
			return err
		}
	}
	if len(points) == 0 {
		return nil
	}

	last := len(points) + 1
	series := []excelize.ChartSeries{{
		Name:       cellRef(sheet, col, 1),
		Categories: rangeRef(sheet, col, 2, col, last),
		Values:     rangeRef(sheet, col+1, 2, col+1, last),
		Marker:     excelize.ChartMarker{Symbol: "circle", Size: 4, Fill: solidFill(chart.Series[0].Color)},
		Line:       excelize.ChartLine{Type: excelize.ChartLineNone},
	}}

	if chart.Fit != nil && chart.Fit.Slope.IsDefined() {
		minX, maxX := chart.XRange()
		fit := [][]any{{minX, chart.Fit.At(minX)}, {maxX, chart.Fit.At(maxX)}}
		if err := writeRowsAt(f, sheet, col+2, 2, fit); err != nil {
			return err
		}
		series = append(series, excelize.ChartSeries{
			Name:       cellRef(sheet, col+3, 1),
			Categories: rangeRef(sheet, col+2, 2, col+2, 3),
			Values:     rangeRef(sheet, col+3, 2, col+3, 3),
			Fill:       solidFill(chart.Fit.Color),
			Marker:     excelize.ChartMarker{Symbol: "none"},
		})
	}

	return f.AddChart(sheet, cell(4+index*8, last+3), &excelize.Chart{
		Type:      excelize.Scatter,
		Series:    series,
		Title:     []excelize.RichTextRun{{Text: chart.Title}},
		Legend:    excelize.ChartLegend{Position: "none"},
		XAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: chart.XLabel}}},
		YAxis:     excelize.ChartAxis{MajorGridLines: true, Title: []excelize.RichTextRun{{Text: chart.YLabel}}},
		Dimension: excelize.ChartDimension{Width: 480, Height: 320},
	})
}

func (w *XLSXWriter) weatherSheet(f *excelize.File, result *model.ReportResult) error {
	sheet := SheetWeather
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]any{{"Situation", "Label", "Rentals"}}
	for _, s := range result.Weather {
		rows = append(rows, []any{s.Situation, s.Label, s.Count})
	}
	if err := writeRows(f, sheet, 1, rows); err != nil {
		return err
	}
	if len(result.Weather) == 0 {
		return nil
	}

	title := "Rentals by Weather Situation"
	if charts := result.ChartsByGroup(model.GroupWeather); len(charts) > 0 {
		title = charts[0].Title
	}
	last := len(result.Weather) + 1
	return f.AddChart(sheet, "E2", &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Name:       cellRef(sheet, 3, 1),
			Categories: rangeRef(sheet, 2, 2, 2, last),
			Values:     rangeRef(sheet, 3, 2, 3, last),
		}},
		Title:     []excelize.RichTextRun{{Text: title}},
		Legend:    excelize.ChartLegend{Position: "right"},
		Dimension: excelize.ChartDimension{Width: 480, Height: 320},
	})
}

// dailySheet always contains the complete daily view.
func (w *XLSXWriter) dailySheet(f *excelize.File, result *model.ReportResult) error {
	if result.Daily == nil {
		return nil
	}
	sheet := SheetDailyData
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := make([]any, len(result.Daily.Columns))
	for i, c := range result.Daily.Columns {
		header[i] = c
	}
	if err := setRow(f, sheet, 1, 1, header); err != nil {
		return err
	}
	for r, rec := range result.Daily.Records {
		row := make([]any, len(result.Daily.Columns))
		for i, c := range result.Daily.Columns {
			if c == model.ColumnDate {
				row[i] = rec.Format(c)
				continue
			}
			if v, ok := rec.Numeric(c); ok {
				row[i] = v
			}
		}
		if err := setRow(f, sheet, 1, r+2, row); err != nil {
			return err
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// writeRows writes rows starting at column A of startRow.
func writeRows(f *excelize.File, sheet string, startRow int, rows [][]any) error {
	return writeRowsAt(f, sheet, 1, startRow, rows)
}

func writeRowsAt(f *excelize.File, sheet string, col, startRow int, rows [][]any) error {
	for i, row := range rows {
		if err := setRow(f, sheet, col, startRow+i, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, col, row int, values []any) error {
	if len(values) == 0 {
		return nil
	}
	return f.SetSheetRow(sheet, cell(col, row), &values)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// cellRef returns an absolute reference to one cell, usable in chart series.
func cellRef(sheet string, col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row, true)
	return quoteSheet(sheet) + "!" + name
}

// rangeRef returns an absolute reference to a cell range.
func rangeRef(sheet string, col1, row1, col2, row2 int) string {
	from, _ := excelize.CoordinatesToCellName(col1, row1, true)
	to, _ := excelize.CoordinatesToCellName(col2, row2, true)
	return quoteSheet(sheet) + "!" + from + ":" + to
}

func quoteSheet(sheet string) string {
	if strings.ContainsAny(sheet, " -") {
		return "'" + sheet + "'"
	}
	return sheet
}

// solidFill converts a "#rrggbb" color to an excelize fill.
func solidFill(color string) excelize.Fill {
	if color == "" {
		return excelize.Fill{}
	}
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{strings.TrimPrefix(color, "#")}}
}

// statCell returns a cell value for s; undefined statistics become "NaN".
func statCell(s model.Stat) any {
	if !s.IsDefined() {
		return "NaN"
	}
	return s.Float64()
}
