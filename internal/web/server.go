package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/bikereport/internal/analysis"
	"github.com/nao1215/bikereport/internal/dataset"
)

const (
	// DefaultPageSize is the number of daily rows shown per dashboard page.
	DefaultPageSize = 31

	// shutdownTimeout bounds how long in-flight requests may take after
	// the server is asked to stop.
	shutdownTimeout = 10 * time.Second

	readHeaderTimeout = 5 * time.Second
)

// Server serves the dashboard and the JSON API for one loaded dataset.
// Requests only read the AppState, so handlers run concurrently without
// locking.
type Server struct {
	state     *dataset.AppState
	generator *analysis.Generator
	templates *template.Template
	logger    *slog.Logger
	pageSize  int
	version   string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request and lifecycle logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithPageSize sets the number of daily rows per page.
// Non-positive values keep the default.
func WithPageSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithVersion sets the version reported in API responses.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// New creates a Server for state. It parses the embedded templates and
// fails if they cannot be loaded, so a broken build never starts serving.
func New(state *dataset.AppState, opts ...Option) (*Server, error) {
	if state == nil {
		return nil, errors.New("web: nil app state")
	}

	s := &Server{
		state:    state,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard templates: %w", err)
	}
	s.templates = tmpl
	s.generator = analysis.NewGenerator(state, analysis.WithLogger(s.logger))

	return s, nil
}

// Handler returns the routed handler wrapped in the request middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /api/v1/report", s.handleReport)
	mux.HandleFunc("GET /api/v1/daily", s.handleDaily)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())
	return s.requestLogger(mux)
}

// Run listens on addr until ctx is cancelled, then shuts the server down
// gracefully. A cancelled context is not an error.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("http listening", "addr", addr, "dataset", s.state.ShortFingerprint())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve on %s: %w", addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Info("http shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	})

	return g.Wait()
}
