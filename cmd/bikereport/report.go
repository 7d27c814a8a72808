package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/bikereport/internal/analysis"
	"github.com/nao1215/bikereport/internal/config"
	"github.com/nao1215/bikereport/internal/metrics"
	"github.com/nao1215/bikereport/internal/model"
	"github.com/nao1215/bikereport/internal/report"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a business performance report",
		Long: `Report loads the rental dataset and writes the business performance report
for one year or for both years side by side.

The report contains:
- Average number of customers per year (and the overall average when comparing)
- Monthly and weekly rentals per year
- Hourly rentals on working and non-working days
- Correlation of every daily measure with the rental count
- Rentals by weather situation

Examples:
  # Text report for 2011 from ./dashboard/main_data.csv
  bikereport report

  # Compare both years as Markdown
  bikereport report --compare --markdown -o report.md

  # Excel workbook for 2012 including the daily data sheet
  bikereport report -y 2012 --xlsx -o report.xlsx

  # All selections at once (report-2011.xlsx, report-2012.xlsx, report-both.xlsx)
  bikereport report --all --xlsx -o report.xlsx

  # Use a dataset imported with 'bikereport import'
  bikereport report --from-db --json`,
		Args: cobra.NoArgs,
		RunE: runReportCmd,
	}

	addSourceFlags(cmd)

	// Selection flags
	cmd.Flags().StringP("year", "y", model.Year2011.String(),
		"Year to report: 2011, 2012 or both")
	cmd.Flags().BoolP("compare", "C", false,
		"Compare 2011 and 2012 (same as --year both)")
	cmd.Flags().BoolP("all", "a", false,
		"Generate the 2011, 2012 and comparison reports in one run")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of reports generated concurrently with --all")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown and --xlsx)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json and --xlsx)")
	cmd.Flags().BoolP("xlsx", "x", false,
		"Output Excel workbook (requires --output)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().IntP("show-data", "n", config.DefaultShowData,
		"Number of daily rows appended to the report (0 disables)")
	cmd.Flags().String("locale", config.DefaultLocale,
		"Locale for number formatting in text reports (BCP 47)")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildReportConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg)

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	return runReport(ctx, cfg, cmd.OutOrStdout(), logger)
}

// buildReportConfig layers the report flags over the loaded configuration.
func buildReportConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}

	if changed(cmd, "year") {
		year, err := cmd.Flags().GetString("year")
		if err != nil {
			return nil, err
		}
		sel, err := model.ParseYearSelection(year)
		if err != nil {
			return nil, fmt.Errorf("configuration error: %w", config.ErrInvalidYear)
		}
		cfg.Selection = sel
	}

	compare, err := cmd.Flags().GetBool("compare")
	if err != nil {
		return nil, err
	}
	if compare {
		cfg.Selection = model.CompareBoth
	}

	if cfg.AllSelections, err = cmd.Flags().GetBool("all"); err != nil {
		return nil, err
	}
	if changed(cmd, "batch") {
		if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
			return nil, err
		}
	}

	jsonReport, err := cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	markdownReport, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	xlsxReport, err := cmd.Flags().GetBool("xlsx")
	if err != nil {
		return nil, err
	}
	if cfg.Format, err = config.ResolveFormat(jsonReport, markdownReport, xlsxReport, cfg.Format); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	if cfg.OutputFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if changed(cmd, "show-data") {
		if cfg.ShowData, err = cmd.Flags().GetInt("show-data"); err != nil {
			return nil, err
		}
	}
	if changed(cmd, "locale") {
		if cfg.Locale, err = cmd.Flags().GetString("locale"); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// runReport loads the dataset once, generates every requested selection and
// writes the reports.
func runReport(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	state, err := loadState(ctx, cfg, logger)
	if err != nil {
		return err
	}

	generator := analysis.NewGenerator(state,
		analysis.WithLogger(logger),
		analysis.WithConcurrency(cfg.BatchSize),
	)

	selections := cfg.Selections()
	start := time.Now()
	results, err := generator.GenerateAll(ctx, selections)
	elapsed := time.Since(start)
	for _, sel := range selections {
		metrics.RecordReport(sel.String(), metrics.SurfaceCLI, elapsed, err)
	}
	if err != nil {
		return err
	}

	logger.Info("reports generated",
		"selections", len(results),
		"elapsed", elapsed.Round(time.Millisecond),
	)

	return outputReports(cfg, results, stdout)
}

// outputReports writes the reports in the requested format.
// Workbooks are one file per selection; every other format writes the
// reports one after another to the same destination.
func outputReports(cfg *config.Config, results []*model.ReportResult, stdout io.Writer) error {
	if cfg.Format == config.FormatXLSX {
		for _, result := range results {
			path := cfg.OutputFile
			if len(results) > 1 {
				path = selectionOutputPath(path, result.Selection)
			}
			if err := writeReportFile(cfg, path, result); err != nil {
				return err
			}
		}
		return nil
	}

	output := stdout
	if cfg.OutputFile != "" {
		f, err := createOutputFile(cfg.OutputFile)
		if err != nil {
			return err
		}
		defer f.Close()
		output = f
	}

	writer := newWriter(cfg, output)
	for _, result := range results {
		if _, err := writer.Write(result); err != nil {
			return fmt.Errorf("failed to write %s report: %w", result.Selection, err)
		}
	}
	return nil
}

func writeReportFile(cfg *config.Config, path string, result *model.ReportResult) error {
	f, err := createOutputFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := newWriter(cfg, f).Write(result); err != nil {
		return fmt.Errorf("failed to write %s report: %w", result.Selection, err)
	}
	return nil
}

// newWriter returns the report writer for the configured format.
func newWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch cfg.Format {
	case config.FormatJSON:
		return report.NewJSONWriter(output,
			report.WithPrettyPrint(),
			report.WithVersion(getVersion()),
			report.WithDataDump(cfg.ShowData),
		)
	case config.FormatMarkdown:
		return report.NewMarkdownWriter(output, report.WithMarkdownData(cfg.ShowData))
	case config.FormatXLSX:
		return report.NewXLSXWriter(output)
	default:
		return report.NewSimpleWriter(output,
			report.WithLocale(cfg.Locale),
			report.WithShowData(cfg.ShowData),
		)
	}
}
