package model

import (
	"math"
	"strconv"
)

// Stat is a statistic that may be undefined. An undefined statistic is NaN
// and is encoded as JSON null.
type Stat float64

// Undefined returns the undefined statistic.
func Undefined() Stat {
	return Stat(math.NaN())
}

// IsDefined reports whether the statistic holds a number.
func (s Stat) IsDefined() bool {
	return !math.IsNaN(float64(s)) && !math.IsInf(float64(s), 0)
}

// Float64 returns the raw value.
func (s Stat) Float64() float64 {
	return float64(s)
}

// String formats the statistic with two decimals, or "NaN" when undefined.
func (s Stat) String() string {
	if !s.IsDefined() {
		return "NaN"
	}
	return strconv.FormatFloat(float64(s), 'f', 2, 64)
}

// MarshalJSON implements json.Marshaler.
func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.IsDefined() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(s), 'f', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Stat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Undefined()
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*s = Stat(v)
	return nil
}

// Point is one (key, summed count) pair of an aggregate series.
type Point struct {
	Key   int `json:"key"`
	Value int `json:"value"`
}

// AggregateSeries maps an ordinal key (month, ISO week or hour) to a summed
// rental count. Points are ordered by key and only keys present in the
// aggregated records appear.
type AggregateSeries struct {
	// Label names the series in legends ("2011", "Weekdays", ...).
	Label string `json:"label"`

	// Year is the calendar year of the series, or 0 when it spans years.
	Year int `json:"year,omitempty"`

	Points []Point `json:"points"`
}

// Keys returns the keys of the series in order.
func (s AggregateSeries) Keys() []int {
	keys := make([]int, len(s.Points))
	for i, p := range s.Points {
		keys[i] = p.Key
	}
	return keys
}

// Value returns the value stored for key.
func (s AggregateSeries) Value(key int) (int, bool) {
	for _, p := range s.Points {
		if p.Key == key {
			return p.Value, true
		}
	}
	return 0, false
}

// Total returns the sum of all values in the series.
func (s AggregateSeries) Total() int {
	total := 0
	for _, p := range s.Points {
		total += p.Value
	}
	return total
}

// Peak returns the point with the largest value.
// The second return value is false for an empty series.
func (s AggregateSeries) Peak() (Point, bool) {
	if len(s.Points) == 0 {
		return Point{}, false
	}
	peak := s.Points[0]
	for _, p := range s.Points[1:] {
		if p.Value > peak.Value {
			peak = p
		}
	}
	return peak, true
}

// HourlySplit holds the hour-of-day aggregates for working and
// non-working days.
type HourlySplit struct {
	Weekdays AggregateSeries `json:"weekdays"`
	Weekends AggregateSeries `json:"weekends"`
}

// Series returns both series, weekdays first.
func (h HourlySplit) Series() []AggregateSeries {
	return []AggregateSeries{h.Weekdays, h.Weekends}
}

// YearAverage is the mean daily customer count of one year.
type YearAverage struct {
	Year    int  `json:"year"`
	Average Stat `json:"average"`
	Days    int  `json:"days"`
}

// CustomerAverages is the result of the average-customers computation.
// Overall is set only when both years are compared; it is the mean of the
// per-year means, not the mean over the pooled records.
type CustomerAverages struct {
	ByYear  []YearAverage `json:"by_year"`
	Overall *Stat         `json:"overall,omitempty"`
}

// Correlation is the Pearson coefficient between a field and the count.
type Correlation struct {
	Field       string `json:"field"`
	Coefficient Stat   `json:"coefficient"`
}

// WeatherShare is the number of rentals under one weather situation.
type WeatherShare struct {
	Situation int    `json:"situation"`
	Label     string `json:"label"`
	Count     int    `json:"count"`
}

// WeatherLabel returns the short description of a weather situation code.
func WeatherLabel(situation int) string {
	switch situation {
	case 1:
		return "Clear"
	case 2:
		return "Mist"
	case 3:
		return "Light Snow/Rain"
	case 4:
		return "Heavy Rain"
	default:
		return "Situation " + strconv.Itoa(situation)
	}
}
