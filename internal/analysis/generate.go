package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/bikereport/internal/dataset"
	"github.com/nao1215/bikereport/internal/model"
	"github.com/nao1215/bikereport/internal/pipeline"
)

// Generator produces reports from one loaded dataset.
// It never modifies the AppState, so one Generator serves concurrent callers.
type Generator struct {
	state       *dataset.AppState
	logger      *slog.Logger
	concurrency int
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger passed to the pipeline and its steps.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithConcurrency sets how many reports GenerateAll builds at once.
func WithConcurrency(n int) Option {
	return func(g *Generator) {
		g.concurrency = n
	}
}

// NewGenerator creates a Generator for state.
func NewGenerator(state *dataset.AppState, opts ...Option) *Generator {
	g := &Generator{
		state:       state,
		concurrency: pipeline.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// StepNames returns the names of the report steps in execution order.
func (g *Generator) StepNames() []string {
	return g.newPipeline().StepNames()
}

// Generate builds the report for one selection.
func (g *Generator) Generate(ctx context.Context, sel model.YearSelection) (*model.ReportResult, error) {
	if !sel.Valid() {
		return nil, fmt.Errorf("%w: %d", model.ErrInvalidSelection, int(sel))
	}

	result := model.NewReportResult(sel)
	if err := g.newPipeline().Execute(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to generate report for %s: %w", sel, err)
	}
	return result, nil
}

// GenerateAll builds one report per selection concurrently and returns them
// in the order of sels.
func (g *Generator) GenerateAll(ctx context.Context, sels []model.YearSelection) ([]*model.ReportResult, error) {
	for _, sel := range sels {
		if !sel.Valid() {
			return nil, fmt.Errorf("%w: %d", model.ErrInvalidSelection, int(sel))
		}
	}

	bp := pipeline.NewBatchProcessor(g.newPipeline,
		pipeline.WithConcurrency(g.concurrency),
		pipeline.WithBatchLogger(g.logger),
	)
	results, err := bp.ProcessBatch(ctx, sels)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reports: %w", err)
	}
	return results, nil
}

func (g *Generator) newPipeline() *pipeline.Pipeline {
	p := pipeline.New(pipeline.WithLogger(g.logger))
	p.AddSteps(reportSteps(g.state, g.logger)...)
	return p
}

// GenerateReport builds the report for sel from state with default options.
func GenerateReport(ctx context.Context, state *dataset.AppState, sel model.YearSelection) (*model.ReportResult, error) {
	return NewGenerator(state).Generate(ctx, sel)
}
