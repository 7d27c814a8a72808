package model

import (
	"slices"
	"testing"
)

func TestAggregateSeries(t *testing.T) {
	t.Parallel()

	s := AggregateSeries{
		Label:  "2011",
		Year:   2011,
		Points: []Point{{Key: 1, Value: 30}, {Key: 2, Value: 90}, {Key: 5, Value: 10}},
	}

	if got := s.Keys(); !slices.Equal(got, []int{1, 2, 5}) {
		t.Errorf("Keys() = %v", got)
	}
	if got := s.Total(); got != 130 {
		t.Errorf("Total() = %d, want 130", got)
	}

	tests := []struct {
		key    int
		want   int
		wantOK bool
	}{
		{key: 1, want: 30, wantOK: true},
		{key: 5, want: 10, wantOK: true},
		{key: 3, want: 0, wantOK: false},
	}
	for _, tt := range tests {
		got, ok := s.Value(tt.key)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Value(%d) = (%d, %v), want (%d, %v)", tt.key, got, ok, tt.want, tt.wantOK)
		}
	}

	peak, ok := s.Peak()
	if !ok || peak.Key != 2 || peak.Value != 90 {
		t.Errorf("Peak() = (%+v, %v)", peak, ok)
	}

	if _, ok := (AggregateSeries{}).Peak(); ok {
		t.Error("expected no peak for an empty series")
	}
}

func TestHourlySplitSeries(t *testing.T) {
	t.Parallel()

	h := HourlySplit{
		Weekdays: AggregateSeries{Label: "Weekdays"},
		Weekends: AggregateSeries{Label: "Weekends"},
	}
	got := h.Series()
	if len(got) != 2 || got[0].Label != "Weekdays" || got[1].Label != "Weekends" {
		t.Errorf("unexpected series order %+v", got)
	}
}
