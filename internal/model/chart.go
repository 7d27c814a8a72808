package model

// ChartKind identifies how a chart is drawn by the presentation surface.
type ChartKind string

const (
	// ChartLine is a line chart with markers, one line per series.
	ChartLine ChartKind = "line"

	// ChartScatterFit is a scatter plot with a least-squares fit line.
	ChartScatterFit ChartKind = "scatter_fit"

	// ChartPie is a pie chart; each point of the single series is a slice.
	ChartPie ChartKind = "pie"
)

// ChartGroup names the report section a chart belongs to.
type ChartGroup string

const (
	GroupMonthly     ChartGroup = "monthly"
	GroupWeekly      ChartGroup = "weekly"
	GroupHourly      ChartGroup = "hourly"
	GroupCorrelation ChartGroup = "correlation"
	GroupWeather     ChartGroup = "weather"
)

// ChartPoint is one plotted point.
type ChartPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}

// ChartSeries is one named, colored sequence of points.
type ChartSeries struct {
	Label  string       `json:"label"`
	Color  string       `json:"color"`
	Points []ChartPoint `json:"points"`
}

// Tick is a labelled position on the x axis.
type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Fit is the least-squares line y = Intercept + Slope*x.
type Fit struct {
	Intercept Stat   `json:"intercept"`
	Slope     Stat   `json:"slope"`
	Color     string `json:"color"`
}

// At evaluates the fit at x.
func (f Fit) At(x float64) float64 {
	return float64(f.Intercept) + float64(f.Slope)*x
}

// ChartSpec describes a chart without drawing it.
type ChartSpec struct {
	ID          string        `json:"id"`
	Group       ChartGroup    `json:"group"`
	Kind        ChartKind     `json:"kind"`
	Title       string        `json:"title"`
	XLabel      string        `json:"x_label,omitempty"`
	YLabel      string        `json:"y_label,omitempty"`
	LegendTitle string        `json:"legend_title,omitempty"`
	XTicks      []Tick        `json:"x_ticks,omitempty"`
	Series      []ChartSeries `json:"series"`
	Fit         *Fit          `json:"fit,omitempty"`
}

// XRange returns the smallest and largest x over every series.
// Both values are zero when the chart has no points.
func (c ChartSpec) XRange() (minX, maxX float64) {
	first := true
	for _, s := range c.Series {
		for _, p := range s.Points {
			if first {
				minX, maxX = p.X, p.X
				first = false
				continue
			}
			minX = min(minX, p.X)
			maxX = max(maxX, p.X)
		}
	}
	return minX, maxX
}
