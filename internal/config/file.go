package config

import (
	"fmt"

	"github.com/nao1215/bikereport/internal/model"
)

// File represents the structure of the .bikereport.yaml configuration file.
// Every key is optional; unset keys keep the current value.
type File struct {
	// Data is the path of the rental file.
	Data string `yaml:"data,omitempty"`

	// Year is "2011", "2012" or "both".
	Year string `yaml:"year,omitempty"`

	// Format is the default report format.
	Format string `yaml:"format,omitempty"`

	// Locale is the BCP 47 tag used for number formatting.
	Locale string `yaml:"locale,omitempty"`

	// ShowData is the number of daily rows dumped with text and Markdown reports.
	ShowData *int `yaml:"showData,omitempty"`

	// BatchSize is the concurrency of report --all.
	BatchSize int `yaml:"batchSize,omitempty"`

	// DB is the directory of the SQLite store.
	DB string `yaml:"db,omitempty"`

	// Serve holds the dashboard settings.
	Serve ServeFile `yaml:"serve,omitempty"`
}

// ServeFile holds the dashboard section of the configuration file.
type ServeFile struct {
	// Addr is the listen address.
	Addr string `yaml:"addr,omitempty"`

	// PageSize is the number of daily rows per page.
	PageSize int `yaml:"pageSize,omitempty"`
}

// Apply copies the values set in the file onto cfg.
func (cf *File) Apply(cfg *Config) error {
	if cf.Data != "" {
		cfg.DataPath = cf.Data
	}
	if cf.Year != "" {
		sel, err := model.ParseYearSelection(cf.Year)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidYear, cf.Year)
		}
		cfg.Selection = sel
	}
	if cf.Format != "" {
		format, err := ParseFormat(cf.Format)
		if err != nil {
			return fmt.Errorf("%w: %q", err, cf.Format)
		}
		cfg.Format = format
	}
	if cf.Locale != "" {
		cfg.Locale = cf.Locale
	}
	if cf.ShowData != nil {
		cfg.ShowData = *cf.ShowData
	}
	if cf.BatchSize != 0 {
		cfg.BatchSize = cf.BatchSize
	}
	if cf.DB != "" {
		cfg.DBDir = cf.DB
	}
	if cf.Serve.Addr != "" {
		cfg.ServeAddr = cf.Serve.Addr
	}
	if cf.Serve.PageSize != 0 {
		cfg.PageSize = cf.Serve.PageSize
	}
	return nil
}
