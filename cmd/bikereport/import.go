package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/bikereport/internal/dataset"
)

// NewImportCmd creates the import command.
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a rental data file into the local store",
		Long: `Import parses a rental data file and stores it in the local SQLite store so
reports can be generated later with --from-db, without the original file.

Each file is identified by the SHA3-256 fingerprint of its contents.
Importing the same file twice is a no-op.

Examples:
  # Import the default data file
  bikereport import

  # Import a specific file
  bikereport import ./data/main_data.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: runImportCmd,
	}

	addStoreFlags(cmd)

	return cmd
}

// runImportCmd executes the import command.
func runImportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.DataPath = args[0]
	}

	logger := setupLogger(cfg)

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	meta, created, err := dataset.Import(cmd.Context(), db, cfg.DataPath)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", cfg.DataPath, err)
	}
	logger.Info("dataset imported",
		"source", meta.Source,
		"fingerprint", meta.Fingerprint,
		"created", created,
	)

	out := cmd.OutOrStdout()
	if !created {
		fmt.Fprintf(out, "Dataset already imported: %s\n", dataset.ShortFingerprint(meta.Fingerprint))
		return nil
	}
	fmt.Fprintf(out, "Imported %s\n", meta.Source)
	fmt.Fprintf(out, "  fingerprint: %s\n", meta.Fingerprint)
	fmt.Fprintf(out, "  records:     %d (%d daily, %d hourly)\n", meta.RecordCount, meta.DailyCount, meta.HourlyCount)
	fmt.Fprintf(out, "\nUse 'bikereport report --from-db --dataset %s' to report on it.\n", dataset.ShortFingerprint(meta.Fingerprint))
	return nil
}
