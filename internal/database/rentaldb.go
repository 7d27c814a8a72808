package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/bikereport/internal/metrics"
	"github.com/nao1215/bikereport/internal/model"
)

// FileName is the name of the SQLite file inside the database directory.
const FileName = "bikereport.db"

var (
	// ErrDatasetNotFound is returned when no stored dataset matches a lookup.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrAmbiguousFingerprint is returned when a fingerprint prefix matches
	// more than one stored dataset.
	ErrAmbiguousFingerprint = errors.New("fingerprint prefix matches more than one dataset")
)

// RentalDB stores imported rental datasets in SQLite so reports can be
// generated without the original CSV file.
//
// Design decision: each import is keyed by the fingerprint of the source
// file. Importing the same file twice is a no-op, and a fingerprint prefix
// is enough to select a dataset from the command line.
type RentalDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RentalDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RentalDB inside dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*RentalDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run 'bikereport import' first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite: mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RentalDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Path returns the path of the SQLite file.
func (rdb *RentalDB) Path() string {
	return rdb.dbPath
}

// Close closes the database connection.
func (rdb *RentalDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *RentalDB) createTables() error {
	schema := `
	-- One row per imported source file
	CREATE TABLE IF NOT EXISTS datasets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		fingerprint TEXT NOT NULL UNIQUE,
		source TEXT NOT NULL,
		columns TEXT NOT NULL,
		record_count INTEGER NOT NULL,
		daily_count INTEGER NOT NULL,
		hourly_count INTEGER NOT NULL,
		imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_datasets_imported ON datasets(imported_at);

	-- Rental records keep the source order through position.
	-- hr is NULL for daily rows.
	CREATE TABLE IF NOT EXISTS rental_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		dataset_id INTEGER NOT NULL REFERENCES datasets(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		dteday TEXT NOT NULL,
		hr INTEGER,
		yr INTEGER NOT NULL,
		mnth INTEGER NOT NULL,
		workingday INTEGER NOT NULL,
		weathersit INTEGER NOT NULL,
		hum REAL NOT NULL,
		windspeed REAL NOT NULL,
		cnt INTEGER NOT NULL,
		measures TEXT,
		UNIQUE(dataset_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_records_dataset ON rental_records(dataset_id, position);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// DatasetMetadata summarizes a stored dataset without its records.
type DatasetMetadata struct {
	ID          int64
	Fingerprint string
	Source      string
	Columns     []string
	RecordCount int
	DailyCount  int
	HourlyCount int
	ImportedAt  time.Time
}

// StoredDataset is a dataset loaded back from the database.
type StoredDataset struct {
	Metadata DatasetMetadata
	Dataset  model.Dataset
}

// SaveDataset stores the dataset under its fingerprint inside a single
// transaction. When a dataset with the same fingerprint already exists the
// existing ID is returned and created is false.
func (rdb *RentalDB) SaveDataset(ctx context.Context, fingerprint, source string, ds model.Dataset) (id int64, created bool, err error) {
	defer func() { metrics.RecordDBQuery("save", err) }()

	existing, err := rdb.lookupID(ctx, fingerprint)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrDatasetNotFound) {
		return 0, false, err
	}

	columnsJSON, err := json.Marshal(ds.Columns)
	if err != nil {
		return 0, false, fmt.Errorf("failed to serialize columns: %w", err)
	}

	daily, hourly := 0, 0
	for _, r := range ds.Records {
		if r.IsHourly() {
			hourly++
		} else {
			daily++
		}
	}

	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO datasets (fingerprint, source, columns, record_count, daily_count, hourly_count)
	VALUES (?, ?, ?, ?, ?, ?)
	`, fingerprint, source, string(columnsJSON), len(ds.Records), daily, hourly)
	if err != nil {
		return 0, false, fmt.Errorf("failed to insert dataset: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get dataset id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO rental_records
		(dataset_id, position, dteday, hr, yr, mnth, workingday, weathersit, hum, windspeed, cnt, measures)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, false, fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range ds.Records {
		var hour sql.NullInt64
		if r.Hour != nil {
			hour = sql.NullInt64{Int64: int64(*r.Hour), Valid: true}
		}
		var measures sql.NullString
		if len(r.Measures) > 0 {
			data, mErr := json.Marshal(r.Measures)
			if mErr != nil {
				err = fmt.Errorf("failed to serialize measures of record %d: %w", i, mErr)
				return 0, false, err
			}
			measures = sql.NullString{String: string(data), Valid: true}
		}
		workingDay := 0
		if r.WorkingDay {
			workingDay = 1
		}
		if _, err = stmt.ExecContext(ctx,
			id, i, r.Date.Format(model.DateLayout), hour,
			r.YearCode, r.Month, workingDay, r.WeatherSituation,
			r.Humidity, r.Windspeed, r.Count, measures,
		); err != nil {
			return 0, false, fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("failed to commit dataset: %w", err)
	}
	return id, true, nil
}

// lookupID returns the ID of the dataset with exactly this fingerprint.
func (rdb *RentalDB) lookupID(ctx context.Context, fingerprint string) (int64, error) {
	var id int64
	err := rdb.db.QueryRowContext(ctx,
		`SELECT id FROM datasets WHERE fingerprint = ?`, fingerprint).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrDatasetNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up dataset: %w", err)
	}
	return id, nil
}

// ListDatasets returns the metadata of every stored dataset, newest first.
func (rdb *RentalDB) ListDatasets(ctx context.Context) ([]DatasetMetadata, error) {
	rows, err := rdb.db.QueryContext(ctx, `
	SELECT id, fingerprint, source, columns, record_count, daily_count, hourly_count, imported_at
	FROM datasets
	ORDER BY imported_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	var results []DatasetMetadata
	for rows.Next() {
		meta, err := scanMetadata(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, meta)
	}
	return results, rows.Err()
}

// FindDataset resolves a full fingerprint or a unique fingerprint prefix.
// An empty fingerprint selects the most recently imported dataset.
func (rdb *RentalDB) FindDataset(ctx context.Context, fingerprint string) (DatasetMetadata, error) {
	query := `
	SELECT id, fingerprint, source, columns, record_count, daily_count, hourly_count, imported_at
	FROM datasets
	WHERE fingerprint LIKE ? || '%'
	ORDER BY imported_at DESC, id DESC
	`
	rows, err := rdb.db.QueryContext(ctx, query, strings.ToLower(strings.TrimSpace(fingerprint)))
	if err != nil {
		return DatasetMetadata{}, fmt.Errorf("failed to find dataset: %w", err)
	}
	defer rows.Close()

	var matches []DatasetMetadata
	for rows.Next() {
		meta, err := scanMetadata(rows)
		if err != nil {
			return DatasetMetadata{}, err
		}
		matches = append(matches, meta)
	}
	if err := rows.Err(); err != nil {
		return DatasetMetadata{}, err
	}

	switch {
	case len(matches) == 0:
		return DatasetMetadata{}, fmt.Errorf("%w: %q", ErrDatasetNotFound, fingerprint)
	case fingerprint == "":
		return matches[0], nil
	case len(matches) > 1:
		return DatasetMetadata{}, fmt.Errorf("%w: %q", ErrAmbiguousFingerprint, fingerprint)
	}
	return matches[0], nil
}

// LoadDataset loads the dataset selected by fingerprint (see FindDataset).
func (rdb *RentalDB) LoadDataset(ctx context.Context, fingerprint string) (*StoredDataset, error) {
	stored, err := rdb.loadDataset(ctx, fingerprint)
	metrics.RecordDBQuery("load", err)
	return stored, err
}

func (rdb *RentalDB) loadDataset(ctx context.Context, fingerprint string) (*StoredDataset, error) {
	meta, err := rdb.FindDataset(ctx, fingerprint)
	if err != nil {
		return nil, err
	}

	rows, err := rdb.db.QueryContext(ctx, `
	SELECT dteday, hr, yr, mnth, workingday, weathersit, hum, windspeed, cnt, measures
	FROM rental_records
	WHERE dataset_id = ?
	ORDER BY position
	`, meta.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	defer rows.Close()

	records := make([]model.RentalRecord, 0, meta.RecordCount)
	for rows.Next() {
		var (
			r          model.RentalRecord
			dteday     string
			hour       sql.NullInt64
			workingDay int
			measures   sql.NullString
		)
		if err := rows.Scan(&dteday, &hour, &r.YearCode, &r.Month, &workingDay,
			&r.WeatherSituation, &r.Humidity, &r.Windspeed, &r.Count, &measures); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		r.Date, err = time.Parse(model.DateLayout, dteday)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored date %q: %w", dteday, err)
		}
		if hour.Valid {
			h := int(hour.Int64)
			r.Hour = &h
		}
		r.WorkingDay = workingDay != 0
		if measures.Valid && measures.String != "" {
			if err := json.Unmarshal([]byte(measures.String), &r.Measures); err != nil {
				return nil, fmt.Errorf("failed to parse stored measures: %w", err)
			}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &StoredDataset{
		Metadata: meta,
		Dataset: model.Dataset{
			Columns: meta.Columns,
			Records: records,
		},
	}, nil
}

// DeleteDataset removes a stored dataset and its records.
func (rdb *RentalDB) DeleteDataset(ctx context.Context, fingerprint string) error {
	meta, err := rdb.FindDataset(ctx, fingerprint)
	if err != nil {
		return err
	}
	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM rental_records WHERE dataset_id = ?`, meta.ID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, meta.ID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	return tx.Commit()
}

// rowScanner is implemented by *sql.Rows and *sql.Row.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMetadata(row rowScanner) (DatasetMetadata, error) {
	var (
		meta        DatasetMetadata
		columnsJSON string
		importedAt  string
	)
	if err := row.Scan(&meta.ID, &meta.Fingerprint, &meta.Source, &columnsJSON,
		&meta.RecordCount, &meta.DailyCount, &meta.HourlyCount, &importedAt); err != nil {
		return DatasetMetadata{}, fmt.Errorf("failed to scan dataset metadata: %w", err)
	}
	if err := json.Unmarshal([]byte(columnsJSON), &meta.Columns); err != nil {
		return DatasetMetadata{}, fmt.Errorf("failed to parse stored columns: %w", err)
	}
	meta.ImportedAt = parseTimestamp(importedAt)
	return meta, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// More specific formats come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp parses a SQLite timestamp, returning the zero time when
// no known format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
