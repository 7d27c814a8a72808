package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/bikereport/internal/model"
)

// DefaultConcurrency is the number of reports generated at once when no
// WithConcurrency option is given.
const DefaultConcurrency = 3

// BatchProcessor generates reports for several selections concurrently.
// It is safe only because every step reads the immutable AppState.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline for each selection.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of reports generated at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent generations.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch generates one report per selection.
// Results are returned in the order of selections. The first failure
// cancels the remaining generations and is returned.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, selections []model.YearSelection) ([]*model.ReportResult, error) {
	bp.logger.Info("starting batch report generation",
		"selections", len(selections),
		"concurrency", bp.concurrency,
	)
	start := time.Now()

	// Each goroutine writes only its own index.
	results := make([]*model.ReportResult, len(selections))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, sel := range selections {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			result := model.NewReportResult(sel)
			if err := bp.pipelineFactory().Execute(ctx, result); err != nil {
				return err
			}
			results[i] = result

			bp.logger.Debug("report generated",
				"selection", sel.String(),
				"index", i+1,
				"total", len(selections),
			)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch report generation complete",
		"selections", len(selections),
		"elapsed", time.Since(start),
	)

	return results, err
}
