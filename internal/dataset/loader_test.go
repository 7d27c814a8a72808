package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/nao1215/bikereport/internal/database"
)

// sampleCSV mixes daily rows (blank hr) and hourly rows (hr stored as float),
// the way a concatenated day/hour export looks.
const sampleCSV = `instant,dteday,season,yr,mnth,hr,holiday,weekday,workingday,weathersit,temp,hum,windspeed,cnt,week,year,note
1,2011-01-01,1,0,1,,0,6,0,2,0.344,0.805,0.160,985,52,2011,first
2,2011-01-02,1,0,1,,0,0,0,2,0.363,0.696,0.249,801,52,2011,
3,2012-01-02,1,1,1,,1,1,0,1,0.273,0.5,0.2,2294,1,2012,
1,2011-01-01,1,0,1,0.0,0,6,0,1,0.24,0.81,0.0,16,,,
2,2011-01-01,1,0,1,1.0,0,6,0,1,0.22,0.80,0.0,40,,,
3,2012-01-02,1,1,1,0.0,1,1,1,1,0.2,0.6,0.1,5,,,x
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main_data.csv")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}
	return path
}

// TestParseCSV tests parsing of a well-formed source.
func TestParseCSV(t *testing.T) {
	t.Parallel()

	ds, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("all rows are read", func(t *testing.T) {
		t.Parallel()
		if ds.Len() != 6 {
			t.Errorf("expected 6 records, got %d", ds.Len())
		}
	})

	t.Run("blank hr means daily row", func(t *testing.T) {
		t.Parallel()
		if ds.Records[0].Hour != nil {
			t.Error("expected daily row without hour")
		}
		if ds.Records[3].Hour == nil || *ds.Records[3].Hour != 0 {
			t.Error("expected hour 0 for float-encoded 0.0")
		}
		if ds.Records[4].Hour == nil || *ds.Records[4].Hour != 1 {
			t.Error("expected hour 1")
		}
	})

	t.Run("required fields are typed", func(t *testing.T) {
		t.Parallel()
		r := ds.Records[2]
		if r.Date.Format("2006-01-02") != "2012-01-02" {
			t.Errorf("unexpected date %v", r.Date)
		}
		if r.YearCode != 1 || r.Month != 1 || r.WorkingDay || r.WeatherSituation != 1 {
			t.Errorf("unexpected record %+v", r)
		}
		if r.Humidity != 0.5 || r.Windspeed != 0.2 || r.Count != 2294 {
			t.Errorf("unexpected measures %+v", r)
		}
	})

	t.Run("numeric auxiliary columns become measures", func(t *testing.T) {
		t.Parallel()
		if ds.Records[0].Measures["temp"] != 0.344 {
			t.Errorf("expected temp 0.344, got %v", ds.Records[0].Measures["temp"])
		}
		if _, ok := ds.Records[3].Measures["week"]; ok {
			t.Error("blank week must not become a measure value")
		}
	})

	t.Run("text columns are dropped", func(t *testing.T) {
		t.Parallel()
		if slices.Contains(ds.Columns, "note") {
			t.Errorf("expected note column to be dropped: %v", ds.Columns)
		}
		if !slices.Contains(ds.Columns, "instant") {
			t.Errorf("expected instant column to be kept: %v", ds.Columns)
		}
	})
}

// TestParseCSVErrors tests the fatal loading errors.
func TestParseCSVErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "missing cnt column",
			content: "dteday,hr,yr,mnth,workingday,weathersit,hum,windspeed\n2011-01-01,,0,1,0,2,0.8,0.1\n",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "malformed date",
			content: "dteday,hr,yr,mnth,workingday,weathersit,hum,windspeed,cnt\nyesterday,,0,1,0,2,0.8,0.1,10\n",
			wantErr: ErrInvalidValue,
		},
		{
			name:    "non-numeric count",
			content: "dteday,hr,yr,mnth,workingday,weathersit,hum,windspeed,cnt\n2011-01-01,,0,1,0,2,0.8,0.1,many\n",
			wantErr: ErrInvalidValue,
		},
		{
			name:    "fractional hour",
			content: "dteday,hr,yr,mnth,workingday,weathersit,hum,windspeed,cnt\n2011-01-01,1.5,0,1,0,2,0.8,0.1,3\n",
			wantErr: ErrInvalidValue,
		},
		{
			name:    "empty input",
			content: "",
			wantErr: ErrEmptySource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseCSV(strings.NewReader(tt.content))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestLoadFile tests building the AppState from a file.
func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file is fatal", func(t *testing.T) {
		t.Parallel()
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"))
		if !errors.Is(err, ErrSourceNotFound) {
			t.Errorf("expected ErrSourceNotFound, got %v", err)
		}
	})

	t.Run("views are partitioned once", func(t *testing.T) {
		t.Parallel()
		path := writeCSV(t, sampleCSV)
		state, err := LoadFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if state.Info.DailyRecords != 3 || state.Info.HourlyRecords != 3 {
			t.Errorf("unexpected partition: %+v", state.Info)
		}
		if state.Info.Source != path {
			t.Errorf("expected source %s, got %s", path, state.Info.Source)
		}
		if len(state.Info.Fingerprint) != 64 {
			t.Errorf("expected 64 hex digits, got %q", state.Info.Fingerprint)
		}
		if len(state.ShortFingerprint()) != shortFingerprintLen {
			t.Errorf("unexpected short fingerprint %q", state.ShortFingerprint())
		}
	})

	t.Run("partition preserves the total count", func(t *testing.T) {
		t.Parallel()
		state, err := LoadFile(writeCSV(t, sampleCSV))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		sum := 0
		for _, r := range state.Daily.Records {
			sum += r.Count
		}
		for _, r := range state.Hourly.Records {
			sum += r.Count
		}
		// 985 + 801 + 2294 + 16 + 40 + 5
		if sum != 4141 || sum != state.Dataset.TotalCount() {
			t.Errorf("expected 4141, got %d", sum)
		}
	})
}

// TestFingerprint tests that fingerprints depend only on content.
func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := Fingerprint([]byte(sampleCSV))
	b := Fingerprint([]byte(sampleCSV))
	c := Fingerprint([]byte(sampleCSV + "\n"))

	if a != b {
		t.Error("expected identical fingerprints for identical content")
	}
	if a == c {
		t.Error("expected different fingerprints for different content")
	}
	if ShortFingerprint("abc") != "abc" {
		t.Error("short fingerprints must not be padded")
	}
}

// TestImportAndLoadStored tests the store round trip.
func TestImportAndLoadStored(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	path := writeCSV(t, sampleCSV)
	meta, created, err := Import(ctx, db, path)
	if err != nil {
		t.Fatalf("failed to import: %v", err)
	}
	if !created {
		t.Error("expected a new dataset")
	}

	_, created, err = Import(ctx, db, path)
	if err != nil {
		t.Fatalf("failed to re-import: %v", err)
	}
	if created {
		t.Error("expected re-import to be a no-op")
	}

	fromFile, err := LoadFile(path)
	if err != nil {
		t.Fatalf("failed to load file: %v", err)
	}
	stored, err := LoadStored(ctx, db, ShortFingerprint(meta.Fingerprint))
	if err != nil {
		t.Fatalf("failed to load stored dataset: %v", err)
	}

	if stored.Info.Fingerprint != fromFile.Info.Fingerprint {
		t.Error("stored fingerprint differs from file fingerprint")
	}
	if stored.Info.DailyRecords != fromFile.Info.DailyRecords || stored.Info.HourlyRecords != fromFile.Info.HourlyRecords {
		t.Errorf("stored partition %+v differs from file partition %+v", stored.Info, fromFile.Info)
	}
	if !slices.Equal(stored.Daily.Columns, fromFile.Daily.Columns) {
		t.Errorf("stored columns %v differ from %v", stored.Daily.Columns, fromFile.Daily.Columns)
	}
	if stored.Dataset.TotalCount() != fromFile.Dataset.TotalCount() {
		t.Error("stored counts differ from file counts")
	}
}
