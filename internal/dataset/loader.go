package dataset

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/nao1215/bikereport/internal/model"
)

// RequiredColumns are the columns every source file must contain.
var RequiredColumns = []string{
	model.ColumnDate,
	model.ColumnHour,
	model.ColumnYearCode,
	model.ColumnMonth,
	model.ColumnWorkingDay,
	model.ColumnWeatherSituation,
	model.ColumnHumidity,
	model.ColumnWindspeed,
	model.ColumnCount,
}

// missingValues are the cell values treated as absent.
var missingValues = []string{"", "NA", "NaN", "nan", "null"}

// dateLayouts are the accepted dteday layouts, most common first.
var dateLayouts = []string{
	model.DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"1/2/2006",
}

// ParseCSV reads a delimited rental file.
//
// Every cell is read as text and converted here, so that a blank hr cell
// stays distinguishable from hour 0. Auxiliary columns that are not fully
// numeric are dropped from the returned dataset.
func ParseCSV(r io.Reader) (model.Dataset, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(missingValues),
		dataframe.WithLazyQuotes(true),
	)
	if df.Err != nil {
		if strings.Contains(df.Err.Error(), "empty") {
			return model.Dataset{}, fmt.Errorf("%w: %v", ErrEmptySource, df.Err)
		}
		return model.Dataset{}, fmt.Errorf("%w: %v", ErrSourceUnreadable, df.Err)
	}

	names := df.Names()
	for _, required := range RequiredColumns {
		if !slices.Contains(names, required) {
			return model.Dataset{}, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}
	if df.Nrow() == 0 {
		return model.Dataset{}, ErrEmptySource
	}

	cols := make(map[string]column, len(names))
	for _, name := range names {
		s := df.Col(name)
		cols[name] = column{name: name, values: s.Records(), missing: s.IsNaN()}
	}

	measures := make([]string, 0, len(names))
	for _, name := range names {
		if slices.Contains(RequiredColumns, name) {
			continue
		}
		if cols[name].numeric() {
			measures = append(measures, name)
		}
	}

	records := make([]model.RentalRecord, df.Nrow())
	for i := range records {
		rec, err := parseRow(cols, measures, i)
		if err != nil {
			return model.Dataset{}, err
		}
		records[i] = rec
	}

	columns := make([]string, 0, len(names))
	for _, name := range names {
		if slices.Contains(RequiredColumns, name) || slices.Contains(measures, name) {
			columns = append(columns, name)
		}
	}

	return model.Dataset{Columns: columns, Records: records}, nil
}

// ParseBytes is ParseCSV over an in-memory file.
func ParseBytes(data []byte) (model.Dataset, error) {
	return ParseCSV(bytes.NewReader(data))
}

// column holds the raw text cells of one source column.
type column struct {
	name    string
	values  []string
	missing []bool
}

func (c column) isMissing(i int) bool {
	return c.missing[i] || c.values[i] == "NaN"
}

// numeric reports whether every present cell parses as a number.
func (c column) numeric() bool {
	present := false
	for i, v := range c.values {
		if c.isMissing(i) {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return false
		}
		present = true
	}
	return present
}

func (c column) invalid(i int) error {
	// Row numbers are 1-based and the header is line 1.
	return fmt.Errorf("%w: line %d column %s: %q", ErrInvalidValue, i+2, c.name, c.values[i])
}

func (c column) floatAt(i int) (float64, error) {
	if c.isMissing(i) {
		return 0, c.invalid(i)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(c.values[i]), 64)
	if err != nil || math.IsNaN(v) {
		return 0, c.invalid(i)
	}
	return v, nil
}

// intAt accepts "3" as well as "3.0", which is how hour and year codes look
// once a tool has stored them in a float column.
func (c column) intAt(i int) (int, error) {
	v, err := c.floatAt(i)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, c.invalid(i)
	}
	return int(v), nil
}

func (c column) dateAt(i int) (time.Time, error) {
	if c.isMissing(i) {
		return time.Time{}, c.invalid(i)
	}
	v := strings.TrimSpace(c.values[i])
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, c.invalid(i)
}

func parseRow(cols map[string]column, measures []string, i int) (model.RentalRecord, error) {
	var (
		rec model.RentalRecord
		err error
	)

	if rec.Date, err = cols[model.ColumnDate].dateAt(i); err != nil {
		return rec, err
	}

	if hr := cols[model.ColumnHour]; !hr.isMissing(i) {
		h, err := hr.intAt(i)
		if err != nil {
			return rec, err
		}
		rec.Hour = &h
	}

	if rec.YearCode, err = cols[model.ColumnYearCode].intAt(i); err != nil {
		return rec, err
	}
	if rec.Month, err = cols[model.ColumnMonth].intAt(i); err != nil {
		return rec, err
	}
	workingDay, err := cols[model.ColumnWorkingDay].intAt(i)
	if err != nil {
		return rec, err
	}
	rec.WorkingDay = workingDay != 0
	if rec.WeatherSituation, err = cols[model.ColumnWeatherSituation].intAt(i); err != nil {
		return rec, err
	}
	if rec.Humidity, err = cols[model.ColumnHumidity].floatAt(i); err != nil {
		return rec, err
	}
	if rec.Windspeed, err = cols[model.ColumnWindspeed].floatAt(i); err != nil {
		return rec, err
	}
	if rec.Count, err = cols[model.ColumnCount].intAt(i); err != nil {
		return rec, err
	}

	for _, name := range measures {
		c := cols[name]
		if c.isMissing(i) {
			continue
		}
		v, err := c.floatAt(i)
		if err != nil {
			return rec, err
		}
		if rec.Measures == nil {
			rec.Measures = make(map[string]float64, len(measures))
		}
		rec.Measures[name] = v
	}

	return rec, nil
}
