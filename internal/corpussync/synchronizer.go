package corpussync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielglinatsis/HSC-AI/internal/model"
	"github.com/danielglinatsis/HSC-AI/internal/pipeline"
)

// Result describes one sync run.
type Result struct {
	// Corpus is the in-memory corpus after the run, whether or not it was
	// saved.
	Corpus *model.Corpus

	// Sources lists every source file found in the exam directory.
	Sources []string

	// Processed lists the files extracted in this run.
	Processed []string

	// Shadowed lists files skipped because their normalized name is already
	// taken.
	Shadowed []string

	// SourceErrors holds the files that could not be rendered. Their records
	// were still added with no questions.
	SourceErrors []*SourceReadError

	// LoadError is set when the stored corpus could not be read and the run
	// started from an empty corpus.
	LoadError *StoreReadError

	// Written reports whether the corpus was saved.
	Written bool

	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// NewQuestions returns the number of questions extracted in this run.
func (r *Result) NewQuestions() int {
	if r.Corpus == nil {
		return 0
	}
	total := 0
	for _, name := range r.Processed {
		if rec, ok := r.Corpus.Lookup(name); ok {
			total += len(rec.Questions)
		}
	}
	return total
}

// Synchronizer reconciles an exam directory with a corpus store.
type Synchronizer struct {
	store           Store
	examDir         string
	pipelineFactory func() *pipeline.Pipeline
	concurrency     int
	accept          func(name string) bool
	logger          *slog.Logger
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = logger
	}
}

// WithConcurrency sets how many new files are extracted at once.
func WithConcurrency(n int) Option {
	return func(s *Synchronizer) {
		s.concurrency = n
	}
}

// WithSourceFilter sets which directory entries count as source files.
// The default accepts PDFs and JSON layout dumps.
func WithSourceFilter(accept func(name string) bool) Option {
	return func(s *Synchronizer) {
		s.accept = accept
	}
}

// New creates a Synchronizer. pipelineFactory builds the per-file chain for
// each new file.
func New(store Store, examDir string, pipelineFactory func() *pipeline.Pipeline, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		store:           store,
		examDir:         examDir,
		pipelineFactory: pipelineFactory,
		concurrency:     pipeline.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Sync runs one synchronization. Unreadable sources and an unreadable store
// are logged and recorded on the result. The returned error is non-nil when
// the store cannot be locked, the exam directory cannot be listed, the run is
// cancelled before saving, or the save fails (*StoreWriteError). In the last
// two cases the result still carries the in-memory corpus.
func (s *Synchronizer) Sync(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{}
	defer func() {
		result.Elapsed = time.Since(start)
	}()

	unlock, err := s.store.Lock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock corpus store: %w", err)
	}
	defer unlock()

	sources, err := ListSources(s.examDir, s.accept)
	if err != nil {
		return nil, err
	}
	result.Sources = sources

	corpus, err := s.store.Load(ctx)
	if err != nil {
		result.LoadError = &StoreReadError{Store: s.store.Location(), Err: err}
		s.logger.Warn("starting from an empty corpus",
			"store", s.store.Location(),
			"error", result.LoadError,
		)
		corpus = model.NewCorpus()
	}
	result.Corpus = corpus

	plan := Reconcile(corpus, sources)
	result.Shadowed = plan.Shadowed
	for _, f := range plan.Shadowed {
		s.logger.Info("skipping file with an already processed name",
			"file", f,
			"key", model.NormalizeName(f),
		)
	}

	if len(plan.New) == 0 {
		s.logger.Info("no new exams found",
			"records", corpus.Len(),
			"sources", len(sources),
		)
		return result, nil
	}

	s.logger.Info("processing new exams", "count", len(plan.New))

	batch := pipeline.NewBatchProcessor(s.pipelineFactory,
		pipeline.WithConcurrency(s.concurrency),
		pipeline.WithBatchLogger(s.logger),
	)
	jobs, err := batch.ProcessBatch(ctx, s.examDir, plan.New)
	if err != nil {
		return result, fmt.Errorf("sync cancelled before save: %w", err)
	}

	for i, job := range jobs {
		if job == nil || errors.Is(job.Err, context.Canceled) || errors.Is(job.Err, context.DeadlineExceeded) {
			return result, fmt.Errorf("sync cancelled before save: %s was not processed", plan.New[i])
		}
		if job.RenderErr != nil {
			srcErr := &SourceReadError{File: job.File, Err: job.RenderErr}
			result.SourceErrors = append(result.SourceErrors, srcErr)
			s.logger.Warn("source could not be read; recording it with no questions",
				"file", job.File,
				"error", job.RenderErr,
			)
		} else if job.Err != nil {
			s.logger.Warn("pipeline step failed; recording it with partial results",
				"file", job.File,
				"error", job.Err,
			)
		}
		if err := corpus.Add(job.Record()); err != nil {
			s.logger.Warn("skipping duplicate record", "file", job.File, "error", err)
			continue
		}
		result.Processed = append(result.Processed, job.File)
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("sync cancelled before save: %w", err)
	}

	if err := s.store.Save(ctx, corpus); err != nil {
		werr := &StoreWriteError{Store: s.store.Location(), Err: err}
		s.logger.Error("failed to save corpus", "store", s.store.Location(), "error", err)
		return result, werr
	}
	result.Written = true

	s.logger.Info("corpus updated",
		"store", s.store.Location(),
		"new_records", len(result.Processed),
		"new_questions", result.NewQuestions(),
		"records", corpus.Len(),
	)
	return result, nil
}
