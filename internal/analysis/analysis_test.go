package analysis

import (
	"errors"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/nao1215/bikereport/internal/model"
)

func day(t *testing.T, date string, cnt int) model.RentalRecord {
	t.Helper()
	d, err := time.Parse(model.DateLayout, date)
	if err != nil {
		t.Fatalf("bad date %q: %v", date, err)
	}
	return model.RentalRecord{
		Date:             d,
		YearCode:         d.Year() - model.FirstYear,
		Month:            int(d.Month()),
		WeatherSituation: 1,
		Count:            cnt,
	}
}

func hour(t *testing.T, date string, hr int, working bool, cnt int) model.RentalRecord {
	t.Helper()
	r := day(t, date, cnt)
	r.Hour = &hr
	r.WorkingDay = working
	return r
}

func dailyView(records ...model.RentalRecord) model.DailyView {
	return model.DailyView{
		Columns: []string{model.ColumnDate, model.ColumnYearCode, model.ColumnMonth, model.ColumnCount},
		Records: records,
	}
}

// TestAverageCustomers tests per-year and overall averages.
func TestAverageCustomers(t *testing.T) {
	t.Parallel()

	view := dailyView(
		day(t, "2011-01-01", 100),
		day(t, "2011-01-02", 200),
		day(t, "2011-01-03", 300),
		day(t, "2012-01-01", 1000),
	)

	t.Run("single year", func(t *testing.T) {
		t.Parallel()
		avgs, err := AverageCustomers(view, model.Year2011)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(avgs.ByYear) != 1 || avgs.ByYear[0].Average != 200 || avgs.ByYear[0].Days != 3 {
			t.Errorf("unexpected averages %+v", avgs)
		}
		if avgs.Overall != nil {
			t.Error("single year must not carry an overall average")
		}
	})

	t.Run("overall is the mean of yearly means", func(t *testing.T) {
		t.Parallel()
		avgs, err := AverageCustomers(view, model.CompareBoth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if avgs.Overall == nil {
			t.Fatal("expected overall average")
		}
		// (200 + 1000) / 2
		if *avgs.Overall != 600 {
			t.Errorf("expected 600, got %v", *avgs.Overall)
		}
		// (100 + 200 + 300 + 1000) / 4
		pooled := model.Stat(400)
		if *avgs.Overall == pooled {
			t.Error("overall average must differ from the pooled mean")
		}
	})

	t.Run("empty year yields NaN and ErrEmptyData", func(t *testing.T) {
		t.Parallel()
		only2011 := dailyView(day(t, "2011-05-01", 10))
		avgs, err := AverageCustomers(only2011, model.CompareBoth)
		if !errors.Is(err, ErrEmptyData) {
			t.Fatalf("expected ErrEmptyData, got %v", err)
		}
		if avgs.ByYear[0].Average != 10 {
			t.Errorf("expected 2011 average 10, got %v", avgs.ByYear[0].Average)
		}
		if !math.IsNaN(avgs.ByYear[1].Average.Float64()) {
			t.Errorf("expected NaN for 2012, got %v", avgs.ByYear[1].Average)
		}
		if avgs.Overall == nil || avgs.Overall.IsDefined() {
			t.Error("expected NaN overall average")
		}
	})

	t.Run("invalid selection", func(t *testing.T) {
		t.Parallel()
		_, err := AverageCustomers(view, model.YearSelection(2013))
		if !errors.Is(err, model.ErrInvalidSelection) {
			t.Errorf("expected ErrInvalidSelection, got %v", err)
		}
	})
}

// TestMonthlyAggregate tests grouping by month.
func TestMonthlyAggregate(t *testing.T) {
	t.Parallel()

	view := dailyView(
		day(t, "2011-01-01", 1),
		day(t, "2011-01-31", 2),
		day(t, "2011-03-15", 4),
		day(t, "2012-02-10", 8),
	)

	t.Run("single year", func(t *testing.T) {
		t.Parallel()
		series := MonthlyAggregate(view, model.Year2011)
		if len(series) != 1 {
			t.Fatalf("expected 1 series, got %d", len(series))
		}
		want := []model.Point{{Key: 1, Value: 3}, {Key: 3, Value: 4}}
		if !slices.Equal(series[0].Points, want) {
			t.Errorf("expected %v, got %v", want, series[0].Points)
		}
		if series[0].Label != "2011" {
			t.Errorf("unexpected label %q", series[0].Label)
		}
	})

	t.Run("compare both", func(t *testing.T) {
		t.Parallel()
		series := MonthlyAggregate(view, model.CompareBoth)
		if len(series) != 2 {
			t.Fatalf("expected 2 series, got %d", len(series))
		}
		if series[1].Year != 2012 || !slices.Equal(series[1].Keys(), []int{2}) {
			t.Errorf("unexpected 2012 series %+v", series[1])
		}
	})
}

// TestWeeklyAggregate tests ISO week grouping.
func TestWeeklyAggregate(t *testing.T) {
	t.Parallel()

	view := dailyView(
		day(t, "2012-01-01", 5), // Sunday, ISO week 52 of 2011
		day(t, "2012-01-02", 7), // Monday, ISO week 1
		day(t, "2012-01-08", 9),
	)

	series := WeeklyAggregate(view, model.Year2012)
	if len(series) != 1 {
		t.Fatalf("expected 1 series, got %d", len(series))
	}
	want := []model.Point{{Key: 1, Value: 16}, {Key: 52, Value: 5}}
	if !slices.Equal(series[0].Points, want) {
		t.Errorf("expected %v, got %v", want, series[0].Points)
	}
}

// TestHourlyAggregate tests the working day split.
func TestHourlyAggregate(t *testing.T) {
	t.Parallel()

	t.Run("split by working day", func(t *testing.T) {
		t.Parallel()
		view := model.HourlyView{Records: []model.RentalRecord{
			hour(t, "2011-01-03", 8, true, 10),
			hour(t, "2012-01-04", 8, true, 20),
			hour(t, "2011-01-01", 8, false, 3),
			hour(t, "2011-01-01", 13, false, 4),
		}}
		split := HourlyAggregate(view)
		if split.Weekdays.Label != WeekdaysLabel || split.Weekends.Label != WeekendsLabel {
			t.Errorf("unexpected labels %q %q", split.Weekdays.Label, split.Weekends.Label)
		}
		if v, _ := split.Weekdays.Value(8); v != 30 {
			t.Errorf("expected 30 weekday rentals at 8, got %d", v)
		}
		if !slices.Equal(split.Weekends.Keys(), []int{8, 13}) {
			t.Errorf("unexpected weekend keys %v", split.Weekends.Keys())
		}
	})

	t.Run("both series exist for one-sided data", func(t *testing.T) {
		t.Parallel()
		view := model.HourlyView{Records: []model.RentalRecord{hour(t, "2011-01-03", 0, true, 1)}}
		split := HourlyAggregate(view)
		if len(split.Series()) != 2 {
			t.Fatal("expected two series")
		}
		if len(split.Weekends.Points) != 0 {
			t.Errorf("expected empty weekend series, got %v", split.Weekends.Points)
		}
	})
}

// TestCorrelationRanking tests ordering of coefficients.
func TestCorrelationRanking(t *testing.T) {
	t.Parallel()

	records := make([]model.RentalRecord, 0, 4)
	for i, cnt := range []int{10, 20, 30, 40} {
		r := day(t, "2011-01-0"+string(rune('1'+i)), cnt)
		r.Humidity = float64(4 - i)
		r.Windspeed = 0.2
		r.Measures = map[string]float64{"temp": float64(i)}
		records = append(records, r)
	}
	view := model.DailyView{
		Columns: []string{model.ColumnDate, model.ColumnHumidity, model.ColumnWindspeed, "temp", model.ColumnCount},
		Records: records,
	}

	ranking := CorrelationRanking(view)
	fields := make([]string, len(ranking))
	for i, c := range ranking {
		fields[i] = c.Field
	}

	want := []string{"temp", model.ColumnHumidity, model.ColumnWindspeed}
	if !slices.Equal(fields, want) {
		t.Fatalf("expected %v, got %v", want, fields)
	}
	if math.Abs(ranking[0].Coefficient.Float64()-1) > 1e-9 {
		t.Errorf("expected +1, got %v", ranking[0].Coefficient)
	}
	if math.Abs(ranking[1].Coefficient.Float64()+1) > 1e-9 {
		t.Errorf("expected -1, got %v", ranking[1].Coefficient)
	}
	if ranking[2].Coefficient.IsDefined() {
		t.Errorf("constant column must be undefined, got %v", ranking[2].Coefficient)
	}
}

// TestWeatherBreakdown tests sums per weather situation.
func TestWeatherBreakdown(t *testing.T) {
	t.Parallel()

	rainy := day(t, "2011-02-01", 5)
	rainy.WeatherSituation = 3
	view := dailyView(day(t, "2011-02-02", 10), rainy, day(t, "2012-02-02", 100))

	shares := WeatherBreakdown(view, model.Year2011)
	want := []model.WeatherShare{
		{Situation: 1, Label: "Clear", Count: 10},
		{Situation: 3, Label: "Light Snow/Rain", Count: 5},
	}
	if !slices.Equal(shares, want) {
		t.Errorf("expected %v, got %v", want, shares)
	}

	if total := WeatherBreakdown(view, model.CompareBoth); total[0].Count != 110 {
		t.Errorf("expected 110 clear rentals for both years, got %d", total[0].Count)
	}
}
