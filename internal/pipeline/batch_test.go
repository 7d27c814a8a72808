package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/nao1215/bikereport/internal/model"
)

// TestBatchProcessorNew tests batch processor construction.
func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	factory := func() *Pipeline { return New() }

	t.Run("default concurrency", func(t *testing.T) {
		t.Parallel()
		bp := NewBatchProcessor(factory)
		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected %d, got %d", DefaultConcurrency, bp.concurrency)
		}
		if bp.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("custom concurrency", func(t *testing.T) {
		t.Parallel()
		bp := NewBatchProcessor(factory, WithConcurrency(1))
		if bp.concurrency != 1 {
			t.Errorf("expected 1, got %d", bp.concurrency)
		}
	})

	t.Run("non-positive concurrency is ignored", func(t *testing.T) {
		t.Parallel()
		for _, n := range []int{0, -1} {
			bp := NewBatchProcessor(factory, WithConcurrency(n))
			if bp.concurrency != DefaultConcurrency {
				t.Errorf("WithConcurrency(%d): expected default, got %d", n, bp.concurrency)
			}
		}
	})
}

// TestBatchProcessorProcessBatch tests concurrent generation.
func TestBatchProcessorProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("results keep input order", func(t *testing.T) {
		t.Parallel()

		factory := func() *Pipeline {
			p := New(WithLogger(discardLogger()))
			p.AddStep(NewStepFunc("label", func(_ context.Context, r *model.ReportResult) error {
				r.AddWarning(r.Selection.String())
				return nil
			}))
			return p
		}

		bp := NewBatchProcessor(factory, WithConcurrency(2), WithBatchLogger(discardLogger()))
		sels := model.AllSelections()
		results, err := bp.ProcessBatch(context.Background(), sels)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != len(sels) {
			t.Fatalf("expected %d results, got %d", len(sels), len(results))
		}
		for i, r := range results {
			if r.Selection != sels[i] {
				t.Errorf("result %d: expected %v, got %v", i, sels[i], r.Selection)
			}
			if len(r.Warnings) != 1 || r.Warnings[0] != sels[i].String() {
				t.Errorf("result %d: unexpected warnings %v", i, r.Warnings)
			}
		}
	})

	t.Run("each selection gets a fresh pipeline", func(t *testing.T) {
		t.Parallel()

		var built atomic.Int32
		factory := func() *Pipeline {
			built.Add(1)
			return New(WithLogger(discardLogger()))
		}

		bp := NewBatchProcessor(factory, WithBatchLogger(discardLogger()))
		if _, err := bp.ProcessBatch(context.Background(), model.AllSelections()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if built.Load() != 3 {
			t.Errorf("expected 3 pipelines, got %d", built.Load())
		}
	})

	t.Run("failure is returned", func(t *testing.T) {
		t.Parallel()

		errBoom := errors.New("boom")
		factory := func() *Pipeline {
			p := New(WithLogger(discardLogger()))
			p.AddStep(NewStepFunc("fail", func(_ context.Context, r *model.ReportResult) error {
				if r.Selection == model.Year2012 {
					return errBoom
				}
				return nil
			}))
			return p
		}

		bp := NewBatchProcessor(factory, WithConcurrency(1), WithBatchLogger(discardLogger()))
		_, err := bp.ProcessBatch(context.Background(), model.AllSelections())
		if !errors.Is(err, errBoom) {
			t.Errorf("expected errBoom, got %v", err)
		}
	})

	t.Run("empty batch", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithBatchLogger(discardLogger()))
		results, err := bp.ProcessBatch(context.Background(), nil)
		if err != nil || len(results) != 0 {
			t.Errorf("expected empty result, got %v, %v", results, err)
		}
	})
}
