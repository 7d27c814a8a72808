package dataset

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/bikereport/internal/database"
	"github.com/nao1215/bikereport/internal/model"
)

// shortFingerprintLen is the number of hex digits shown to users.
const shortFingerprintLen = 12

// AppState is the dataset loaded once at startup together with its views.
// It is shared by pointer between report generations and HTTP requests and
// is never modified after construction.
type AppState struct {
	Dataset  model.Dataset
	Daily    model.DailyView
	Hourly   model.HourlyView
	Info     model.DatasetInfo
	LoadedAt time.Time
}

// NewAppState partitions the dataset and wraps it in an AppState.
func NewAppState(ds model.Dataset, source, fingerprint string) *AppState {
	daily, hourly := ds.Partition()
	return &AppState{
		Dataset: ds,
		Daily:   daily,
		Hourly:  hourly,
		Info: model.DatasetInfo{
			Source:        source,
			Fingerprint:   fingerprint,
			DailyRecords:  len(daily.Records),
			HourlyRecords: len(hourly.Records),
		},
		LoadedAt: time.Now(),
	}
}

// ShortFingerprint returns the abbreviated fingerprint shown in logs and
// listings.
func (s *AppState) ShortFingerprint() string {
	return ShortFingerprint(s.Info.Fingerprint)
}

// Fingerprint returns the hex SHA3-256 digest of the source bytes.
func Fingerprint(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ShortFingerprint abbreviates a fingerprint for display.
func ShortFingerprint(fp string) string {
	if len(fp) <= shortFingerprintLen {
		return fp
	}
	return fp[:shortFingerprintLen]
}

// ReadFile reads and parses the source file, returning the dataset and the
// fingerprint of the file contents.
func ReadFile(path string) (model.Dataset, string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided data path is intentional
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Dataset{}, "", fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return model.Dataset{}, "", fmt.Errorf("%w: %s: %v", ErrSourceUnreadable, path, err)
	}

	ds, err := ParseBytes(data)
	if err != nil {
		return model.Dataset{}, "", fmt.Errorf("%s: %w", path, err)
	}
	return ds, Fingerprint(data), nil
}

// LoadFile builds the AppState from a CSV file.
func LoadFile(path string) (*AppState, error) {
	ds, fp, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewAppState(ds, path, fp), nil
}

// LoadStored builds the AppState from a dataset previously imported into the
// database. An empty fingerprint selects the latest import.
func LoadStored(ctx context.Context, db *database.RentalDB, fingerprint string) (*AppState, error) {
	stored, err := db.LoadDataset(ctx, fingerprint)
	if err != nil {
		return nil, err
	}
	if len(stored.Dataset.Records) == 0 {
		return nil, fmt.Errorf("%w: stored dataset %s", ErrEmptySource, ShortFingerprint(stored.Metadata.Fingerprint))
	}
	return NewAppState(stored.Dataset, stored.Metadata.Source, stored.Metadata.Fingerprint), nil
}

// Import reads the CSV file and stores it in the database.
// It returns the stored metadata and whether a new dataset was created.
func Import(ctx context.Context, db *database.RentalDB, path string) (database.DatasetMetadata, bool, error) {
	ds, fp, err := ReadFile(path)
	if err != nil {
		return database.DatasetMetadata{}, false, err
	}

	_, created, err := db.SaveDataset(ctx, fp, path, ds)
	if err != nil {
		return database.DatasetMetadata{}, false, err
	}

	meta, err := db.FindDataset(ctx, fp)
	if err != nil {
		return database.DatasetMetadata{}, false, err
	}
	return meta, created, nil
}
