package analysis

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/nao1215/bikereport/internal/model"
)

// Chart colors. Renderers accept CSS hex colors.
const (
	Color2011 = "#0000ff"
	Color2012 = "#ffa500"
	ColorFit  = "#ff0000"
)

// Chart IDs.
const (
	ChartMonthly      = "monthly"
	ChartWeekly       = "weekly"
	ChartHourly       = "hourly"
	ChartHumidity     = "hum_vs_cnt"
	ChartWindspeed    = "windspeed_vs_cnt"
	ChartWeatherSit   = "weathersit_vs_cnt"
	ChartWeatherShare = "weather_share"
)

// weeksOnAxis is the number of week ticks drawn on weekly charts.
const weeksOnAxis = 52

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// scatterFields lists the daily fields plotted against the count, in order.
var scatterFields = []struct {
	id     string
	column string
	label  string
}{
	{ChartHumidity, model.ColumnHumidity, "Humidity"},
	{ChartWindspeed, model.ColumnWindspeed, "Windspeed"},
	{ChartWeatherSit, model.ColumnWeatherSituation, "Weather Situation"},
}

// YearColor returns the series color used for year.
func YearColor(year int) string {
	if year == int(model.Year2012) {
		return Color2012
	}
	return Color2011
}

// ChartSpecs builds the chart descriptors of a report from its aggregates.
//
// The order is fixed: monthly, weekly, hourly, the three scatter charts with
// their regression line, and the weather pie. Scatter charts always use the
// whole daily view.
func ChartSpecs(result *model.ReportResult, daily model.DailyView) []model.ChartSpec {
	specs := []model.ChartSpec{
		yearLineChart(ChartMonthly, model.GroupMonthly, "Monthly", "Month", result.Selection, result.Monthly, monthTicks()),
		yearLineChart(ChartWeekly, model.GroupWeekly, "Weekly", "Week Number", result.Selection, result.Weekly, weekTicks()),
		hourlyChart(result.Hourly),
	}
	for _, f := range scatterFields {
		specs = append(specs, scatterFitChart(f.id, f.column, f.label, daily))
	}
	return append(specs, weatherPieChart(result.Weather))
}

func yearLineChart(id string, group model.ChartGroup, period, xLabel string, sel model.YearSelection, series []model.AggregateSeries, ticks []model.Tick) model.ChartSpec {
	title := fmt.Sprintf("Business Performance in %s (%s)", sel.String(), period)
	if sel.IsCompare() {
		title = fmt.Sprintf("Comparison of Business Performance: 2011 vs 2012 (%s)", period)
	}

	out := make([]model.ChartSeries, len(series))
	for i, s := range series {
		out[i] = toChartSeries(s, YearColor(s.Year))
	}
	return model.ChartSpec{
		ID:     id,
		Group:  group,
		Kind:   model.ChartLine,
		Title:  title,
		XLabel: xLabel,
		YLabel: "Number of Customers",
		XTicks: ticks,
		Series: out,
	}
}

func hourlyChart(split model.HourlySplit) model.ChartSpec {
	ticks := make([]model.Tick, 24)
	for h := range ticks {
		ticks[h] = model.Tick{Value: float64(h), Label: strconv.Itoa(h)}
	}
	return model.ChartSpec{
		ID:          ChartHourly,
		Group:       model.GroupHourly,
		Kind:        model.ChartLine,
		Title:       "Comparison of Bike Rentals on Weekdays and Weekends by Hour",
		XLabel:      "Hour of the Day",
		YLabel:      "Number of Rentals",
		LegendTitle: "Working Day",
		XTicks:      ticks,
		Series: []model.ChartSeries{
			toChartSeries(split.Weekdays, Color2011),
			toChartSeries(split.Weekends, Color2012),
		},
	}
}

func scatterFitChart(id, column, label string, daily model.DailyView) model.ChartSpec {
	points := make([]model.ChartPoint, 0, len(daily.Records))
	x := make([]float64, 0, len(daily.Records))
	y := make([]float64, 0, len(daily.Records))
	for _, r := range daily.Records {
		v, ok := r.Numeric(column)
		if !ok {
			continue
		}
		points = append(points, model.ChartPoint{X: v, Y: float64(r.Count)})
		x = append(x, v)
		y = append(y, float64(r.Count))
	}

	fit := &model.Fit{Intercept: model.Undefined(), Slope: model.Undefined(), Color: ColorFit}
	if len(x) >= 2 {
		alpha, beta := stat.LinearRegression(x, y, nil, false)
		fit.Intercept, fit.Slope = model.Stat(alpha), model.Stat(beta)
	}

	return model.ChartSpec{
		ID:     id,
		Group:  model.GroupCorrelation,
		Kind:   model.ChartScatterFit,
		Title:  label + " vs. Bike Rentals",
		XLabel: label,
		YLabel: "Count of Rentals",
		Series: []model.ChartSeries{{Label: column, Color: Color2011, Points: points}},
		Fit:    fit,
	}
}

func weatherPieChart(shares []model.WeatherShare) model.ChartSpec {
	points := make([]model.ChartPoint, len(shares))
	for i, s := range shares {
		points[i] = model.ChartPoint{X: float64(s.Situation), Y: float64(s.Count), Label: s.Label}
	}
	return model.ChartSpec{
		ID:     ChartWeatherShare,
		Group:  model.GroupWeather,
		Kind:   model.ChartPie,
		Title:  "Rentals by Weather Situation",
		Series: []model.ChartSeries{{Label: "Rentals", Points: points}},
	}
}

func toChartSeries(s model.AggregateSeries, color string) model.ChartSeries {
	points := make([]model.ChartPoint, len(s.Points))
	for i, p := range s.Points {
		points[i] = model.ChartPoint{X: float64(p.Key), Y: float64(p.Value)}
	}
	return model.ChartSeries{Label: s.Label, Color: color, Points: points}
}

func monthTicks() []model.Tick {
	ticks := make([]model.Tick, len(monthNames))
	for i, name := range monthNames {
		ticks[i] = model.Tick{Value: float64(i + 1), Label: name}
	}
	return ticks
}

func weekTicks() []model.Tick {
	ticks := make([]model.Tick, weeksOnAxis)
	for i := range ticks {
		ticks[i] = model.Tick{Value: float64(i + 1), Label: strconv.Itoa(i + 1)}
	}
	return ticks
}

// MonthName returns the short English name of month (1-12).
func MonthName(month int) string {
	if month < 1 || month > len(monthNames) {
		return strconv.Itoa(month)
	}
	return monthNames[month-1]
}
