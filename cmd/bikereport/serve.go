package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/bikereport/internal/config"
	"github.com/nao1215/bikereport/internal/web"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive dashboard",
		Long: `Serve loads the rental dataset once and serves the dashboard over HTTP.

The dashboard has a "Compare 2011 and 2012" checkbox and a year selector and
shows the same sections as the report command with interactive charts, plus
a paginated table of the daily data.

Endpoints:
  GET /                dashboard
  GET /api/v1/report   report as JSON (?year=2011|2012|both)
  GET /api/v1/daily    daily data page as JSON (?page=N)
  GET /healthz         health check
  GET /metrics         Prometheus metrics

Examples:
  # Serve ./dashboard/main_data.csv on 127.0.0.1:8501
  bikereport serve

  # Listen on all interfaces
  bikereport serve --addr :8080

  # Serve the latest imported dataset
  bikereport serve --from-db`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	addSourceFlags(cmd)
	cmd.Flags().String("addr", config.DefaultServeAddr,
		"Listen address of the dashboard")
	cmd.Flags().Int("page-size", config.DefaultPageSize,
		"Number of daily rows per dashboard page")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if changed(cmd, "addr") {
		if cfg.ServeAddr, err = cmd.Flags().GetString("addr"); err != nil {
			return err
		}
	}
	if changed(cmd, "page-size") {
		if cfg.PageSize, err = cmd.Flags().GetInt("page-size"); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg)

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	state, err := loadState(ctx, cfg, logger)
	if err != nil {
		return err
	}

	srv, err := web.New(state,
		web.WithLogger(logger),
		web.WithPageSize(cfg.PageSize),
		web.WithVersion(getVersion()),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Serving dashboard at http://%s (dataset %s)\n", cfg.ServeAddr, state.ShortFingerprint())
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop.")

	return srv.Run(ctx, cfg.ServeAddr)
}
