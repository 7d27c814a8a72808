package analysis

import (
	"maps"
	"slices"
	"strconv"

	"github.com/nao1215/bikereport/internal/model"
)

// Series labels of the hourly split.
const (
	WeekdaysLabel = "Weekdays"
	WeekendsLabel = "Weekends"
)

// MonthlyAggregate sums daily counts per month, one series per selected year.
func MonthlyAggregate(view model.DailyView, sel model.YearSelection) []model.AggregateSeries {
	return aggregateByYear(view, sel, func(r model.RentalRecord) int {
		return r.Month
	})
}

// WeeklyAggregate sums daily counts per ISO-8601 week, one series per
// selected year. Days at the start of January may belong to week 52 or 53
// of the previous ISO year; they stay in the series of their own year.
func WeeklyAggregate(view model.DailyView, sel model.YearSelection) []model.AggregateSeries {
	return aggregateByYear(view, sel, func(r model.RentalRecord) int {
		_, week := r.Date.ISOWeek()
		return week
	})
}

// HourlyAggregate sums hourly counts per hour of the day, split by working
// day. It always covers the whole hourly view.
func HourlyAggregate(view model.HourlyView) model.HourlySplit {
	var weekdays, weekends []model.RentalRecord
	for _, r := range view.Records {
		if r.WorkingDay {
			weekdays = append(weekdays, r)
		} else {
			weekends = append(weekends, r)
		}
	}

	hour := func(r model.RentalRecord) int {
		return *r.Hour
	}
	return model.HourlySplit{
		Weekdays: model.AggregateSeries{Label: WeekdaysLabel, Points: sumBy(weekdays, hour)},
		Weekends: model.AggregateSeries{Label: WeekendsLabel, Points: sumBy(weekends, hour)},
	}
}

// WeatherBreakdown sums daily counts per weather situation over the
// selected years.
func WeatherBreakdown(view model.DailyView, sel model.YearSelection) []model.WeatherShare {
	var records []model.RentalRecord
	for _, year := range sel.Years() {
		records = append(records, view.FilterYear(year)...)
	}

	points := sumBy(records, func(r model.RentalRecord) int {
		return r.WeatherSituation
	})
	shares := make([]model.WeatherShare, len(points))
	for i, p := range points {
		shares[i] = model.WeatherShare{
			Situation: p.Key,
			Label:     model.WeatherLabel(p.Key),
			Count:     p.Value,
		}
	}
	return shares
}

func aggregateByYear(view model.DailyView, sel model.YearSelection, key func(model.RentalRecord) int) []model.AggregateSeries {
	years := sel.Years()
	out := make([]model.AggregateSeries, 0, len(years))
	for _, year := range years {
		out = append(out, model.AggregateSeries{
			Label:  strconv.Itoa(year),
			Year:   year,
			Points: sumBy(view.FilterYear(year), key),
		})
	}
	return out
}

// sumBy groups records by key and sums their counts, ordered by key.
func sumBy(records []model.RentalRecord, key func(model.RentalRecord) int) []model.Point {
	sums := make(map[int]int)
	for _, r := range records {
		sums[key(r)] += r.Count
	}

	points := make([]model.Point, 0, len(sums))
	for _, k := range slices.Sorted(maps.Keys(sums)) {
		points = append(points, model.Point{Key: k, Value: sums[k]})
	}
	return points
}
