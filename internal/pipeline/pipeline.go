package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/bikereport/internal/model"
)

// Step is one stage of report generation.
// Steps run in sequence and each one fills in part of the shared result.
//
// Design decision: We use an interface rather than function types so steps
// can carry their inputs (the views they read) and a Name for logging.
type Step interface {
	// Do executes the step against the result being built.
	// Non-fatal conditions are recorded on the result and Do returns nil.
	Do(ctx context.Context, result *model.ReportResult) error

	// Name returns the step's name for logging and the result's step list.
	Name() string
}

// StepFunc adapts a function to the Step interface.
type StepFunc struct {
	name string
	fn   func(ctx context.Context, result *model.ReportResult) error
}

// NewStepFunc creates a named Step from fn.
func NewStepFunc(name string, fn func(ctx context.Context, result *model.ReportResult) error) StepFunc {
	return StepFunc{name: name, fn: fn}
}

// Do implements Step.
func (s StepFunc) Do(ctx context.Context, result *model.ReportResult) error {
	return s.fn(ctx, result)
}

// Name implements Step.
func (s StepFunc) Name() string {
	return s.name
}

// Pipeline runs steps in order against one ReportResult.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options and steps.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence.
//
// Cancellation is checked between steps. The first failing step stops the
// pipeline: a report with a missing section is never handed to a writer.
func (p *Pipeline) Execute(ctx context.Context, result *model.ReportResult) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("report generation cancelled",
				"step", step.Name(),
				"selection", result.Selection.String(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		start := time.Now()
		if err := step.Do(ctx, result); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"selection", result.Selection.String(),
				"error", err,
			)
			return fmt.Errorf("%s: %w", step.Name(), err)
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"selection", result.Selection.String(),
			"elapsed", time.Since(start),
		)
		result.Steps = append(result.Steps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
