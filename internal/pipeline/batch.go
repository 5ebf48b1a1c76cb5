package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of files processed at once when no
// limit is configured.
const DefaultConcurrency = 4

// BatchProcessor runs one pipeline per source file concurrently.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each file so that no step
	// state leaks between files.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of files processed at once.
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

// WithConcurrency sets the maximum number of concurrent files.
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

// ProcessBatch runs the pipeline for every file in dir. Results are returned
// in the order of files; a file whose pipeline failed still has its job in
// the result with Err set. The returned error is non-nil only when ctx was
// cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, dir string, files []string) ([]*Job, error) {
	bp.logger.Info("starting batch processing",
		"total_files", len(files),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()
	results := make([]*Job, len(files))

	err := bp.run(ctx, dir, files, func(job *Job, index int) {
		results[index] = job
	})

	bp.logger.Info("batch processing complete",
		"total_files", len(files),
		"elapsed", time.Since(startTime),
	)

	return results, err
}

// ProcessBatchWithCallback runs the pipeline for every file and calls
// callback as each job completes. The callback runs on the worker goroutine
// and must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	dir string,
	files []string,
	callback func(job *Job, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_files", len(files),
		"concurrency", bp.concurrency,
	)
	return bp.run(ctx, dir, files, callback)
}

func (bp *BatchProcessor) run(ctx context.Context, dir string, files []string, done func(job *Job, index int)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, file := range files {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("processing file",
				"file", file,
				"index", i+1,
				"total", len(files),
			)

			job := NewJob(dir, file)
			err := bp.pipelineFactory().Execute(ctx, job)
			done(job, i)

			if err != nil {
				bp.logger.Warn("file failed",
					"file", file,
					"error", err,
				)
				// Other files keep going; the error is on the job.
				return nil
			}

			bp.logger.Debug("file completed",
				"file", file,
				"questions", len(job.Questions),
			)
			return nil
		})
	}

	return g.Wait()
}
