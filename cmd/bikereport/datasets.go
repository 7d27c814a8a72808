package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/bikereport/internal/database"
	"github.com/nao1215/bikereport/internal/dataset"
)

// NewDatasetsCmd creates the datasets command.
func NewDatasetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "List datasets in the local store",
		Long: `Datasets lists the datasets imported with 'bikereport import', newest first.

Examples:
  # List imported datasets
  bikereport datasets

  # Remove an imported dataset by fingerprint prefix
  bikereport datasets --delete 3f2a9c`,
		Args: cobra.NoArgs,
		RunE: runDatasetsCmd,
	}

	addStoreFlags(cmd)
	cmd.Flags().String("delete", "",
		"Delete the dataset with this fingerprint prefix")

	return cmd
}

// runDatasetsCmd executes the datasets command.
func runDatasetsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	setupLogger(cfg)

	deleteID, err := cmd.Flags().GetString("delete")
	if err != nil {
		return err
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	if deleteID != "" {
		if err := db.DeleteDataset(ctx, deleteID); err != nil {
			return fmt.Errorf("failed to delete dataset %s: %w", deleteID, err)
		}
		fmt.Fprintf(out, "Deleted dataset %s\n", deleteID)
		return nil
	}

	metas, err := db.ListDatasets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list datasets: %w", err)
	}

	if len(metas) == 0 {
		fmt.Fprintln(out, "No datasets found in the store.")
		fmt.Fprintln(out, "\nUse 'bikereport import <file>' to import one.")
		return nil
	}

	printDatasets(out, metas)
	return nil
}

func printDatasets(out io.Writer, metas []database.DatasetMetadata) {
	fmt.Fprintf(out, "Imported datasets (%d):\n\n", len(metas))
	fmt.Fprintf(out, "  %-12s  %-20s  %7s  %7s  %s\n", "Fingerprint", "Imported", "Daily", "Hourly", "Source")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 72))
	for _, m := range metas {
		fmt.Fprintf(out, "  %-12s  %-20s  %7d  %7d  %s\n",
			dataset.ShortFingerprint(m.Fingerprint),
			m.ImportedAt.Local().Format("2006-01-02 15:04:05"),
			m.DailyCount,
			m.HourlyCount,
			m.Source,
		)
	}
}
