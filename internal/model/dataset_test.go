package model

import (
	"slices"
	"testing"
	"time"
)

func intPtr(v int) *int {
	return &v
}

func date(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

// sampleDataset returns two daily rows and three hourly rows.
func sampleDataset() Dataset {
	return Dataset{
		Columns: []string{"dteday", "hr", "yr", "mnth", "workingday", "weathersit", "hum", "windspeed", "cnt", "week", "year"},
		Records: []RentalRecord{
			{Date: date("2011-01-01"), YearCode: 0, Month: 1, WeatherSituation: 2, Humidity: 0.8, Windspeed: 0.16, Count: 985,
				Measures: map[string]float64{"week": 52, "year": 2011}},
			{Date: date("2012-01-02"), YearCode: 1, Month: 1, WorkingDay: true, WeatherSituation: 1, Humidity: 0.5, Windspeed: 0.2, Count: 2294,
				Measures: map[string]float64{"week": 1, "year": 2012}},
			{Date: date("2011-01-01"), Hour: intPtr(0), YearCode: 0, Month: 1, Count: 16,
				Measures: map[string]float64{"week": 52, "year": 2011, "temp": 0.24}},
			{Date: date("2011-01-01"), Hour: intPtr(1), YearCode: 0, Month: 1, Count: 40},
			{Date: date("2012-01-02"), Hour: intPtr(0), YearCode: 1, Month: 1, WorkingDay: true, Count: 5},
		},
	}
}

// TestPartition tests splitting of the dataset into daily and hourly views.
func TestPartition(t *testing.T) {
	t.Parallel()

	ds := sampleDataset()
	daily, hourly := ds.Partition()

	t.Run("records are split by presence of hour", func(t *testing.T) {
		t.Parallel()
		if len(daily.Records) != 2 {
			t.Errorf("expected 2 daily records, got %d", len(daily.Records))
		}
		if len(hourly.Records) != 3 {
			t.Errorf("expected 3 hourly records, got %d", len(hourly.Records))
		}
		for _, r := range daily.Records {
			if r.IsHourly() {
				t.Error("daily view contains an hourly record")
			}
		}
	})

	t.Run("daily view drops the hour column", func(t *testing.T) {
		t.Parallel()
		if slices.Contains(daily.Columns, ColumnHour) {
			t.Errorf("daily columns still contain hr: %v", daily.Columns)
		}
		if !slices.Contains(daily.Columns, ColumnWeek) {
			t.Errorf("daily columns lost week: %v", daily.Columns)
		}
	})

	t.Run("hourly view drops week and year", func(t *testing.T) {
		t.Parallel()
		if slices.Contains(hourly.Columns, ColumnWeek) || slices.Contains(hourly.Columns, ColumnYear) {
			t.Errorf("hourly columns still contain week/year: %v", hourly.Columns)
		}
		if _, ok := hourly.Records[0].Measures[ColumnWeek]; ok {
			t.Error("hourly record still carries the week measure")
		}
		if hourly.Records[0].Measures["temp"] != 0.24 {
			t.Error("hourly record lost an unrelated measure")
		}
	})

	t.Run("source records are not mutated", func(t *testing.T) {
		t.Parallel()
		if _, ok := ds.Records[2].Measures[ColumnWeek]; !ok {
			t.Error("partition mutated the source record")
		}
	})

	t.Run("counts are preserved across views", func(t *testing.T) {
		t.Parallel()
		total := 0
		for _, r := range daily.Records {
			total += r.Count
		}
		for _, r := range hourly.Records {
			total += r.Count
		}
		if total != ds.TotalCount() {
			t.Errorf("expected %d, got %d", ds.TotalCount(), total)
		}
	})
}

// TestDailyViewNumericColumns tests detection of numeric daily columns.
func TestDailyViewNumericColumns(t *testing.T) {
	t.Parallel()

	daily, _ := sampleDataset().Partition()
	got := daily.NumericColumns()
	want := []string{"yr", "mnth", "workingday", "weathersit", "hum", "windspeed", "cnt", "week", "year"}

	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// TestDailyViewRows tests the raw data dump.
func TestDailyViewRows(t *testing.T) {
	t.Parallel()

	daily, _ := sampleDataset().Partition()

	t.Run("limit restricts the number of rows", func(t *testing.T) {
		t.Parallel()
		if rows := daily.Rows(1); len(rows) != 1 {
			t.Errorf("expected 1 row, got %d", len(rows))
		}
	})

	t.Run("zero limit renders everything", func(t *testing.T) {
		t.Parallel()
		rows := daily.Rows(0)
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
		want := []string{"2012-01-02", "1", "1", "1", "1", "0.5", "0.2", "2294", "1", "2012"}
		if !slices.Equal(rows[1], want) {
			t.Errorf("expected %v, got %v", want, rows[1])
		}
	})
}

// TestFilterYear tests that year filtering uses the year-code.
func TestFilterYear(t *testing.T) {
	t.Parallel()

	daily, _ := sampleDataset().Partition()
	got := daily.FilterYear(2012)
	if len(got) != 1 || got[0].Count != 2294 {
		t.Errorf("unexpected 2012 records: %+v", got)
	}
	if len(daily.FilterYear(2013)) != 0 {
		t.Error("expected no records for 2013")
	}
}
