package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/bikereport/internal/dataset"
	"github.com/nao1215/bikereport/internal/model"
	"github.com/nao1215/bikereport/internal/pipeline"
)

// Step names, in execution order.
const (
	StepDataset     = "dataset"
	StepAverages    = "averages"
	StepMonthly     = "monthly"
	StepWeekly      = "weekly"
	StepHourly      = "hourly"
	StepCorrelation = "correlation"
	StepWeather     = "weather"
	StepCharts      = "charts"
)

// AveragesStep computes the customer averages.
// An empty year subset is not fatal: the NaN average is kept and a warning
// is attached to the result.
type AveragesStep struct {
	daily  model.DailyView
	logger *slog.Logger
}

// NewAveragesStep creates an AveragesStep over the daily view.
func NewAveragesStep(daily model.DailyView, logger *slog.Logger) *AveragesStep {
	return &AveragesStep{daily: daily, logger: logger}
}

// Name implements pipeline.Step.
func (s *AveragesStep) Name() string {
	return StepAverages
}

// Do implements pipeline.Step.
func (s *AveragesStep) Do(_ context.Context, result *model.ReportResult) error {
	avgs, err := AverageCustomers(s.daily, result.Selection)
	if err != nil && !errors.Is(err, ErrEmptyData) {
		return err
	}
	result.Averages = avgs

	for _, y := range avgs.ByYear {
		if y.Average.IsDefined() {
			continue
		}
		s.logger.Warn("average over an empty subset",
			"year", y.Year,
			"selection", result.Selection.String(),
		)
		result.AddWarning(fmt.Sprintf("no daily records for %d: average is NaN", y.Year))
	}
	return nil
}

// ChartsStep builds the chart descriptors from the aggregates computed by
// the earlier steps.
type ChartsStep struct {
	daily model.DailyView
}

// NewChartsStep creates a ChartsStep over the daily view.
func NewChartsStep(daily model.DailyView) *ChartsStep {
	return &ChartsStep{daily: daily}
}

// Name implements pipeline.Step.
func (s *ChartsStep) Name() string {
	return StepCharts
}

// Do implements pipeline.Step.
func (s *ChartsStep) Do(_ context.Context, result *model.ReportResult) error {
	if len(result.Monthly) != len(result.Selection.Years()) {
		return fmt.Errorf("charts need the monthly aggregate of %s", result.Selection)
	}
	result.Charts = ChartSpecs(result, s.daily)
	return nil
}

// reportSteps returns the steps of one report in execution order.
func reportSteps(state *dataset.AppState, logger *slog.Logger) []pipeline.Step {
	return []pipeline.Step{
		pipeline.NewStepFunc(StepDataset, func(_ context.Context, r *model.ReportResult) error {
			r.Dataset = state.Info
			r.Daily = &state.Daily
			return nil
		}),
		NewAveragesStep(state.Daily, logger),
		pipeline.NewStepFunc(StepMonthly, func(_ context.Context, r *model.ReportResult) error {
			r.Monthly = MonthlyAggregate(state.Daily, r.Selection)
			return nil
		}),
		pipeline.NewStepFunc(StepWeekly, func(_ context.Context, r *model.ReportResult) error {
			r.Weekly = WeeklyAggregate(state.Daily, r.Selection)
			return nil
		}),
		pipeline.NewStepFunc(StepHourly, func(_ context.Context, r *model.ReportResult) error {
			r.Hourly = HourlyAggregate(state.Hourly)
			return nil
		}),
		pipeline.NewStepFunc(StepCorrelation, func(_ context.Context, r *model.ReportResult) error {
			r.Correlations = CorrelationRanking(state.Daily)
			return nil
		}),
		pipeline.NewStepFunc(StepWeather, func(_ context.Context, r *model.ReportResult) error {
			r.Weather = WeatherBreakdown(state.Daily, r.Selection)
			return nil
		}),
		NewChartsStep(state.Daily),
	}
}
