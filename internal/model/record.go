package model

import (
	"strconv"
	"time"
)

// Column names of the rental source file.
// The names follow the UCI bike sharing dataset the dashboard was built for.
const (
	ColumnDate             = "dteday"
	ColumnHour             = "hr"
	ColumnYearCode         = "yr"
	ColumnMonth            = "mnth"
	ColumnWorkingDay       = "workingday"
	ColumnWeatherSituation = "weathersit"
	ColumnHumidity         = "hum"
	ColumnWindspeed        = "windspeed"
	ColumnCount            = "cnt"

	// ColumnWeek and ColumnYear are auxiliary columns only meaningful
	// for daily reporting. They are dropped from the hourly view.
	ColumnWeek = "week"
	ColumnYear = "year"
)

// DateLayout is the layout of the dteday column.
const DateLayout = "2006-01-02"

// FirstYear is the calendar year stored as year-code 0.
const FirstYear = 2011

// RentalRecord is one row of the rental dataset.
// Daily rows have a nil Hour; hourly rows carry the hour of the day.
type RentalRecord struct {
	// Date is the calendar date of the row (dteday).
	Date time.Time `json:"date"`

	// Hour is the hour of the day (0-23) for hourly rows, nil for daily rows.
	Hour *int `json:"hour,omitempty"`

	// YearCode is 0 for 2011 and 1 for 2012.
	YearCode int `json:"year_code"`

	// Month is the month of the year (1-12).
	Month int `json:"month"`

	// WorkingDay is true when the day is neither a weekend nor a holiday.
	WorkingDay bool `json:"working_day"`

	// WeatherSituation is the ordinal weather category (1 = clear ... 4 = heavy rain).
	WeatherSituation int `json:"weather_situation"`

	// Humidity is the normalized relative humidity in [0,1].
	Humidity float64 `json:"humidity"`

	// Windspeed is the normalized wind speed in [0,1].
	Windspeed float64 `json:"windspeed"`

	// Count is the total number of rentals.
	Count int `json:"count"`

	// Measures holds every other numeric column of the source row,
	// keyed by column name (season, temp, casual, registered, ...).
	Measures map[string]float64 `json:"measures,omitempty"`
}

// IsHourly reports whether the record belongs to the hourly subset.
func (r RentalRecord) IsHourly() bool {
	return r.Hour != nil
}

// Year returns the calendar year of the record's year-code.
func (r RentalRecord) Year() int {
	return FirstYear + r.YearCode
}

// Numeric returns the numeric value of the named column.
// The second return value is false when the record has no numeric value
// for the column (dates, absent hours, unknown measures).
func (r RentalRecord) Numeric(column string) (float64, bool) {
	switch column {
	case ColumnDate:
		return 0, false
	case ColumnHour:
		if r.Hour == nil {
			return 0, false
		}
		return float64(*r.Hour), true
	case ColumnYearCode:
		return float64(r.YearCode), true
	case ColumnMonth:
		return float64(r.Month), true
	case ColumnWorkingDay:
		if r.WorkingDay {
			return 1, true
		}
		return 0, true
	case ColumnWeatherSituation:
		return float64(r.WeatherSituation), true
	case ColumnHumidity:
		return r.Humidity, true
	case ColumnWindspeed:
		return r.Windspeed, true
	case ColumnCount:
		return float64(r.Count), true
	}
	v, ok := r.Measures[column]
	return v, ok
}

// Format returns the textual value of the named column as it is shown
// in data dumps. Missing values are rendered as an empty string.
func (r RentalRecord) Format(column string) string {
	switch column {
	case ColumnDate:
		return r.Date.Format(DateLayout)
	case ColumnHour:
		if r.Hour == nil {
			return ""
		}
		return strconv.Itoa(*r.Hour)
	case ColumnYearCode, ColumnMonth, ColumnWeatherSituation, ColumnCount, ColumnWorkingDay:
		v, _ := r.Numeric(column)
		return strconv.Itoa(int(v))
	}
	v, ok := r.Numeric(column)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// withoutMeasures returns a copy of the record whose Measures map omits
// the given columns. The original record is left untouched.
func (r RentalRecord) withoutMeasures(columns ...string) RentalRecord {
	if len(r.Measures) == 0 {
		return r
	}
	measures := make(map[string]float64, len(r.Measures))
	for k, v := range r.Measures {
		measures[k] = v
	}
	for _, c := range columns {
		delete(measures, c)
	}
	r.Measures = measures
	return r
}

// YearCodeOf converts a calendar year into the stored year-code.
func YearCodeOf(year int) int {
	return year - FirstYear
}
