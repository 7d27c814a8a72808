package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/bikereport/internal/config"
	"github.com/nao1215/bikereport/internal/database"
	"github.com/nao1215/bikereport/internal/dataset"
	"github.com/nao1215/bikereport/internal/log"
	"github.com/nao1215/bikereport/internal/metrics"
	"github.com/nao1215/bikereport/internal/model"
)

// addSourceFlags registers the flags that select the dataset.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("data", "d", config.DefaultDataPath,
		"Rental data file (CSV)")
	cmd.Flags().Bool("from-db", false,
		"Load the dataset from the local store instead of --data (see 'bikereport import')")
	cmd.Flags().String("dataset", "",
		"Fingerprint prefix of the stored dataset to load (default: latest import)")
	addStoreFlags(cmd)
}

// addStoreFlags registers the flags shared by every command using the store
// or the configuration file.
func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("db-dir", "",
		"Directory of the dataset store (default: XDG data directory)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .bikereport.yaml in current or home directory)")
}

// changed reports whether the named flag exists on cmd and was set by the user.
func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

func getLogJSONFlag(cmd *cobra.Command) bool {
	logJSON, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		return false
	}
	return logJSON
}

// buildConfig creates a Config from defaults, the configuration file and
// the flags the user set, in that order of precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, usedPath, err := config.Load(configPath)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("%w: %s", err, configPath)
		}
		return nil, fmt.Errorf("failed to load config file %s: %w", usedPath, err)
	}
	cfg.ConfigFilePath = usedPath
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.LogJSON = getLogJSONFlag(cmd)

	if err := applySourceFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applySourceFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	if changed(cmd, "data") {
		if cfg.DataPath, err = cmd.Flags().GetString("data"); err != nil {
			return err
		}
	}
	if changed(cmd, "from-db") {
		if cfg.FromDB, err = cmd.Flags().GetBool("from-db"); err != nil {
			return err
		}
	}
	if changed(cmd, "dataset") {
		if cfg.DatasetID, err = cmd.Flags().GetString("dataset"); err != nil {
			return err
		}
		// Naming a stored dataset implies loading from the store
		cfg.FromDB = true
	}
	if changed(cmd, "db-dir") {
		if cfg.DBDir, err = cmd.Flags().GetString("db-dir"); err != nil {
			return err
		}
	}
	return nil
}

// setupLogger creates the process logger and makes it the slog default.
func setupLogger(cfg *config.Config) *slog.Logger {
	logger := log.New(os.Stderr, log.Options{Verbose: cfg.Verbose, JSON: cfg.LogJSON})
	slog.SetDefault(logger)
	return logger
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// openStore opens the dataset store in cfg.DBDir.
func openStore(cfg *config.Config) (*database.RentalDB, error) {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// loadState builds the AppState once, from the file or from the store.
func loadState(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dataset.AppState, error) {
	var (
		state *dataset.AppState
		err   error
	)

	if cfg.FromDB {
		db, openErr := openStore(cfg)
		if openErr != nil {
			return nil, openErr
		}
		defer db.Close()
		state, err = dataset.LoadStored(ctx, db, cfg.DatasetID)
	} else {
		state, err = dataset.LoadFile(cfg.DataPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	metrics.SetDatasetRecords(state.Info.DailyRecords, state.Info.HourlyRecords)
	logger.Info("dataset loaded",
		"source", state.Info.Source,
		"fingerprint", state.ShortFingerprint(),
		"daily", state.Info.DailyRecords,
		"hourly", state.Info.HourlyRecords,
	)
	return state, nil
}

// createOutputFile creates (or truncates) path, creating parent directories.
func createOutputFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// selectionOutputPath derives the per-selection file name used when one
// run writes several workbooks: out.xlsx becomes out-2011.xlsx.
func selectionOutputPath(path string, sel model.YearSelection) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + "-" + sel.String() + ext
}
