package model

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

// TestParseYearSelection tests parsing of the year filter.
func TestParseYearSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    YearSelection
		wantErr bool
	}{
		{name: "2011", input: "2011", want: Year2011},
		{name: "2012 with spaces", input: " 2012 ", want: Year2012},
		{name: "both", input: "both", want: CompareBoth},
		{name: "compare uppercase", input: "COMPARE", want: CompareBoth},
		{name: "unsupported year", input: "2013", wantErr: true},
		{name: "not a number", input: "last-year", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseYearSelection(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSelection) {
					t.Errorf("expected ErrInvalidSelection, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

// TestYearSelectionYears tests the years covered by each selection.
func TestYearSelectionYears(t *testing.T) {
	t.Parallel()

	t.Run("single year", func(t *testing.T) {
		t.Parallel()
		years := Year2012.Years()
		if len(years) != 1 || years[0] != 2012 {
			t.Errorf("expected [2012], got %v", years)
		}
	})

	t.Run("compare both", func(t *testing.T) {
		t.Parallel()
		years := CompareBoth.Years()
		if len(years) != 2 || years[0] != 2011 || years[1] != 2012 {
			t.Errorf("expected [2011 2012], got %v", years)
		}
	})

	t.Run("invalid selection has no years", func(t *testing.T) {
		t.Parallel()
		if years := YearSelection(1999).Years(); years != nil {
			t.Errorf("expected nil, got %v", years)
		}
	})
}

// TestYearSelectionText tests text round trips used by JSON and YAML.
func TestYearSelectionText(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(struct {
		Selection YearSelection `json:"selection"`
	}{CompareBoth})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"selection":"both"}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var decoded struct {
		Selection YearSelection `json:"selection"`
	}
	if err := json.Unmarshal([]byte(`{"selection":"2011"}`), &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Selection != Year2011 {
		t.Errorf("expected 2011, got %v", decoded.Selection)
	}
}

// TestStat tests formatting and JSON encoding of possibly undefined statistics.
func TestStat(t *testing.T) {
	t.Parallel()

	t.Run("defined value has two decimals", func(t *testing.T) {
		t.Parallel()
		if got := Stat(4504.3488).String(); got != "4504.35" {
			t.Errorf("expected 4504.35, got %s", got)
		}
	})

	t.Run("NaN is shown as-is", func(t *testing.T) {
		t.Parallel()
		s := Undefined()
		if s.IsDefined() {
			t.Error("expected undefined stat")
		}
		if s.String() != "NaN" {
			t.Errorf("expected NaN, got %s", s.String())
		}
	})

	t.Run("NaN encodes as null", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal([]Stat{Undefined(), 1.5})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "[null,1.5]" {
			t.Errorf("unexpected JSON: %s", data)
		}

		var back []Stat
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !math.IsNaN(float64(back[0])) || back[1] != 1.5 {
			t.Errorf("unexpected decoded values: %v", back)
		}
	})
}
