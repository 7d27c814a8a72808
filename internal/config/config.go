package config

import (
	"net"
	"path/filepath"

	"github.com/adrg/xdg"
	"golang.org/x/text/language"

	"github.com/nao1215/bikereport/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "bikereport"

	// DefaultDataPath is where the dashboard has always read its data from.
	DefaultDataPath = "./dashboard/main_data.csv"

	// DefaultServeAddr binds the dashboard to loopback only.
	DefaultServeAddr = "127.0.0.1:8501"

	// DefaultPageSize of 31 shows about one month of daily rows per page.
	DefaultPageSize = 31

	// DefaultBatchSize is the number of reports generated at once by
	// report --all. There are only three selections.
	DefaultBatchSize = 3

	// DefaultShowData is the number of daily rows appended to text and
	// Markdown reports.
	DefaultShowData = 10

	// DefaultLocale controls number formatting in text reports.
	DefaultLocale = "en"
)

// Config holds all configuration options for bikereport.
// It is populated from defaults, then the configuration file, then CLI flags,
// and passed through the application rather than kept as global state.
//
// Design decision: We use a single flat struct. The serve options are few
// and only differ from the report options by their prefix.
type Config struct {
	// DataPath is the delimited rental file to load.
	DataPath string

	// FromDB loads the dataset from the SQLite store instead of DataPath.
	FromDB bool

	// DatasetID is a fingerprint prefix selecting a stored dataset.
	// Empty selects the most recently imported one.
	DatasetID string

	// DBDir is the directory holding the SQLite store.
	// Defaults to the XDG data directory (~/.local/share/bikereport on Linux).
	DBDir string

	// Selection is the year filter of the report.
	Selection model.YearSelection

	// AllSelections generates 2011, 2012 and the comparison in one run.
	AllSelections bool

	// Format is the report output format.
	Format Format

	// OutputFile is the report destination. Empty means stdout.
	// Required for XLSX output.
	OutputFile string

	// ShowData is the number of daily rows dumped with the report.
	// Zero disables the dump.
	ShowData int

	// Locale is a BCP 47 tag used for number formatting in text reports.
	Locale string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// LogJSON switches log output to JSON lines.
	LogJSON bool

	// BatchSize is the number of reports generated concurrently by --all.
	BatchSize int

	// ServeAddr is the listen address of the dashboard.
	ServeAddr string

	// PageSize is the number of daily rows per dashboard page.
	PageSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches the current directory, the home directory
	// and the XDG config directory.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because most defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		DataPath:  DefaultDataPath,
		DBDir:     XDGDataDir(),
		Selection: model.Year2011,
		Format:    FormatText,
		ShowData:  DefaultShowData,
		Locale:    DefaultLocale,
		BatchSize: DefaultBatchSize,
		ServeAddr: DefaultServeAddr,
		PageSize:  DefaultPageSize,
	}
}

// XDGDataDir returns the XDG data directory for bikereport.
// On Linux: ~/.local/share/bikereport
// On macOS: ~/Library/Application Support/bikereport
// On Windows: %LOCALAPPDATA%\bikereport
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for bikereport.
// On Linux: ~/.config/bikereport
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Selections returns the selections one report run produces.
func (c *Config) Selections() []model.YearSelection {
	if c.AllSelections {
		return model.AllSelections()
	}
	return []model.YearSelection{c.Selection}
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors.
//
// Design decision: We validate once after flags are parsed so that a bad
// option fails before the dataset is loaded.
func (c *Config) Validate() error {
	if !c.FromDB && c.DataPath == "" {
		return ErrNoDataSource
	}

	if !c.Selection.Valid() {
		return ErrInvalidYear
	}

	if !c.Format.Valid() {
		return ErrInvalidFormat
	}

	// A workbook is binary and never goes to the terminal
	if c.Format == FormatXLSX && c.OutputFile == "" {
		return ErrXLSXNeedsOutput
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.PageSize <= 0 {
		return ErrInvalidPageSize
	}

	if c.ShowData < 0 {
		return ErrInvalidShowData
	}

	if _, err := language.Parse(c.Locale); err != nil {
		return ErrInvalidLocale
	}

	if _, _, err := net.SplitHostPort(c.ServeAddr); err != nil {
		return ErrInvalidServeAddr
	}

	return nil
}
