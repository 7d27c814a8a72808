package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for bikereport.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bikereport",
		Short: "Business performance reports for bike-sharing rentals",
		Long: `bikereport analyses the daily and hourly bike-sharing rental dataset of
2011 and 2012 and reports customer averages, monthly, weekly and hourly
rentals, the correlation of weather measures with demand and rentals by
weather situation.

Reports are written as text, JSON, Markdown or an Excel workbook, or served
as an interactive dashboard.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")

	// Add subcommands
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewImportCmd())
	cmd.AddCommand(NewDatasetsCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
