package model

import "slices"

// Dataset is the ordered sequence of rental records read from the source.
// Columns keeps the source column order so dumps match the input file.
type Dataset struct {
	Columns []string       `json:"columns"`
	Records []RentalRecord `json:"records"`
}

// Len returns the number of records in the dataset.
func (d Dataset) Len() int {
	return len(d.Records)
}

// TotalCount returns the sum of Count over every record.
func (d Dataset) TotalCount() int {
	total := 0
	for _, r := range d.Records {
		total += r.Count
	}
	return total
}

// DailyView is the read-only projection of the records without an hour.
// It carries no hour column.
type DailyView struct {
	Columns []string
	Records []RentalRecord
}

// HourlyView is the read-only projection of the records with an hour.
// The week and year auxiliary columns are dropped from it.
type HourlyView struct {
	Columns []string
	Records []RentalRecord
}

// Partition splits the dataset into its daily and hourly views.
// A record belongs to the hourly view exactly when its Hour is set.
func (d Dataset) Partition() (DailyView, HourlyView) {
	daily := DailyView{
		Columns: dropColumns(d.Columns, ColumnHour),
		Records: make([]RentalRecord, 0, len(d.Records)),
	}
	hourly := HourlyView{
		Columns: dropColumns(d.Columns, ColumnWeek, ColumnYear),
		Records: make([]RentalRecord, 0, len(d.Records)),
	}

	for _, r := range d.Records {
		if r.IsHourly() {
			hourly.Records = append(hourly.Records, r.withoutMeasures(ColumnWeek, ColumnYear))
			continue
		}
		daily.Records = append(daily.Records, r)
	}

	return daily, hourly
}

// NumericColumns returns the columns of the daily view that hold numbers,
// in source order. The date column is never numeric.
func (v DailyView) NumericColumns() []string {
	cols := make([]string, 0, len(v.Columns))
	for _, c := range v.Columns {
		if c == ColumnDate {
			continue
		}
		for _, r := range v.Records {
			if _, ok := r.Numeric(c); ok {
				cols = append(cols, c)
				break
			}
		}
	}
	return cols
}

// FilterYear returns the daily records of the given calendar year.
func (v DailyView) FilterYear(year int) []RentalRecord {
	code := YearCodeOf(year)
	out := make([]RentalRecord, 0, len(v.Records)/2)
	for _, r := range v.Records {
		if r.YearCode == code {
			out = append(out, r)
		}
	}
	return out
}

// Rows renders up to limit records as strings in column order.
// A non-positive limit renders every record.
func (v DailyView) Rows(limit int) [][]string {
	n := len(v.Records)
	if limit > 0 && limit < n {
		n = limit
	}
	rows := make([][]string, n)
	for i := range n {
		row := make([]string, len(v.Columns))
		for j, c := range v.Columns {
			row[j] = v.Records[i].Format(c)
		}
		rows[i] = row
	}
	return rows
}

func dropColumns(columns []string, drop ...string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if slices.Contains(drop, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}
