package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/bikereport/internal/model"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// Changes to defaults must be intentional: this test fails when they change.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default data path", func(t *testing.T) {
		t.Parallel()
		if cfg.DataPath != "./dashboard/main_data.csv" {
			t.Errorf("expected './dashboard/main_data.csv', got '%s'", cfg.DataPath)
		}
	})

	t.Run("default selection is 2011", func(t *testing.T) {
		t.Parallel()
		if cfg.Selection != model.Year2011 {
			t.Errorf("expected 2011, got %v", cfg.Selection)
		}
	})

	t.Run("default format is text", func(t *testing.T) {
		t.Parallel()
		if cfg.Format != FormatText {
			t.Errorf("expected text, got %s", cfg.Format)
		}
	})

	t.Run("default serve settings", func(t *testing.T) {
		t.Parallel()
		if cfg.ServeAddr != "127.0.0.1:8501" || cfg.PageSize != 31 {
			t.Errorf("unexpected serve settings %s %d", cfg.ServeAddr, cfg.PageSize)
		}
	})

	t.Run("default store lives in the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.DBDir != XDGDataDir() || filepath.Base(cfg.DBDir) != AppName {
			t.Errorf("unexpected db dir %s", cfg.DBDir)
		}
	})

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected valid defaults, got %v", err)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:    "no data source",
			modify:  func(c *Config) { c.DataPath = "" },
			wantErr: ErrNoDataSource,
		},
		{
			name:    "store without data path is fine",
			modify:  func(c *Config) { c.DataPath = ""; c.FromDB = true },
			wantErr: nil,
		},
		{
			name:    "invalid year",
			modify:  func(c *Config) { c.Selection = 2013 },
			wantErr: ErrInvalidYear,
		},
		{
			name:    "invalid format",
			modify:  func(c *Config) { c.Format = "pdf" },
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "xlsx without output",
			modify:  func(c *Config) { c.Format = FormatXLSX },
			wantErr: ErrXLSXNeedsOutput,
		},
		{
			name:    "xlsx with output",
			modify:  func(c *Config) { c.Format = FormatXLSX; c.OutputFile = "report.xlsx" },
			wantErr: nil,
		},
		{
			name:    "zero batch size",
			modify:  func(c *Config) { c.BatchSize = 0 },
			wantErr: ErrInvalidBatchSize,
		},
		{
			name:    "zero page size",
			modify:  func(c *Config) { c.PageSize = 0 },
			wantErr: ErrInvalidPageSize,
		},
		{
			name:    "negative show data",
			modify:  func(c *Config) { c.ShowData = -1 },
			wantErr: ErrInvalidShowData,
		},
		{
			name:    "bad locale",
			modify:  func(c *Config) { c.Locale = "not a locale" },
			wantErr: ErrInvalidLocale,
		},
		{
			name:    "bad serve address",
			modify:  func(c *Config) { c.ServeAddr = "8501" },
			wantErr: ErrInvalidServeAddr,
		},
		{
			name:    "port only address",
			modify:  func(c *Config) { c.ServeAddr = ":8501" },
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestResolveFormat tests the mutually exclusive format flags.
func TestResolveFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		json, md, xl bool
		want         Format
		wantErr      error
	}{
		{name: "no flag uses fallback", want: FormatMarkdown},
		{name: "json", json: true, want: FormatJSON},
		{name: "markdown", md: true, want: FormatMarkdown},
		{name: "xlsx", xl: true, want: FormatXLSX},
		{name: "json and markdown", json: true, md: true, wantErr: ErrConflictingReportFormats},
		{name: "all three", json: true, md: true, xl: true, wantErr: ErrConflictingReportFormats},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ResolveFormat(tt.json, tt.md, tt.xl, FormatMarkdown)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if err == nil && got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

// TestParseFormat tests format names and aliases.
func TestParseFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Format{
		"":         FormatText,
		"TEXT":     FormatText,
		"json":     FormatJSON,
		"md":       FormatMarkdown,
		"markdown": FormatMarkdown,
		"excel":    FormatXLSX,
	} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %s, %v; want %s", in, got, err, want)
		}
	}
	if _, err := ParseFormat("pdf"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
}

// TestSelections tests the selections of one run.
func TestSelections(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.Selection = model.CompareBoth
	if got := cfg.Selections(); len(got) != 1 || got[0] != model.CompareBoth {
		t.Errorf("unexpected selections %v", got)
	}

	cfg.AllSelections = true
	if got := cfg.Selections(); len(got) != 3 {
		t.Errorf("expected all three selections, got %v", got)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// TestLoad tests loading a configuration file on top of the defaults.
func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("file values override defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
data: /srv/bike/main_data.csv
year: both
format: md
locale: de
showData: 0
batchSize: 2
db: /var/lib/bikereport
serve:
  addr: 0.0.0.0:9000
  pageSize: 50
`)
		cfg, used, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if used != path {
			t.Errorf("expected %s, got %s", path, used)
		}
		if cfg.DataPath != "/srv/bike/main_data.csv" || cfg.Selection != model.CompareBoth {
			t.Errorf("unexpected data settings %+v", cfg)
		}
		if cfg.Format != FormatMarkdown || cfg.Locale != "de" || cfg.ShowData != 0 || cfg.BatchSize != 2 {
			t.Errorf("unexpected report settings %+v", cfg)
		}
		if cfg.DBDir != "/var/lib/bikereport" || cfg.ServeAddr != "0.0.0.0:9000" || cfg.PageSize != 50 {
			t.Errorf("unexpected serve settings %+v", cfg)
		}
	})

	t.Run("unset keys keep defaults", func(t *testing.T) {
		t.Parallel()

		cfg, _, err := Load(writeConfig(t, "year: 2012\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Selection != model.Year2012 || cfg.ShowData != DefaultShowData || cfg.DataPath != DefaultDataPath {
			t.Errorf("unexpected config %+v", cfg)
		}
	})

	t.Run("invalid year in file", func(t *testing.T) {
		t.Parallel()

		_, _, err := Load(writeConfig(t, "year: 2020\n"))
		if !errors.Is(err, ErrInvalidYear) {
			t.Errorf("expected ErrInvalidYear, got %v", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		if _, _, err := Load(writeConfig(t, "serve: [")); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("explicit missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

// TestLoadConfigFile tests reading the file itself.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}

	cf, err := LoadConfigFile(writeConfig(t, "showData: 5\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cf.ShowData == nil || *cf.ShowData != 5 {
		t.Errorf("unexpected showData %v", cf.ShowData)
	}
}
