package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielglinatsis/HSC-AI/internal/extract"
	"github.com/danielglinatsis/HSC-AI/internal/layout"
)

// RenderStep turns the source file into a layout document.
type RenderStep struct {
	renderer layout.Renderer
	logger   *slog.Logger
}

// RenderStepOption configures a RenderStep.
type RenderStepOption func(*RenderStep)

// WithRenderLogger sets a custom logger for the render step.
func WithRenderLogger(logger *slog.Logger) RenderStepOption {
	return func(s *RenderStep) {
		s.logger = logger
	}
}

// NewRenderStep creates a render step backed by renderer.
func NewRenderStep(renderer layout.Renderer, opts ...RenderStepOption) *RenderStep {
	s := &RenderStep{
		renderer: renderer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *RenderStep) Name() string {
	return "render"
}

// Do renders the job's source. A render failure leaves an empty document and
// is recorded in job.RenderErr; later steps then produce no questions.
func (s *RenderStep) Do(ctx context.Context, job *Job) error {
	doc, err := s.renderer.Render(ctx, job.Path)
	if err != nil {
		s.logger.Debug("render failed", "file", job.File, "error", err)
		job.RenderErr = err
		job.Document = layout.Document{}
		return nil
	}
	job.Document = doc
	return nil
}

// ExtractStep runs the question extraction state machine.
type ExtractStep struct {
	extractor *extract.Extractor
}

// NewExtractStep creates an extract step.
func NewExtractStep(extractor *extract.Extractor) *ExtractStep {
	return &ExtractStep{extractor: extractor}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do extracts fragments from the job's document.
func (s *ExtractStep) Do(_ context.Context, job *Job) error {
	job.Fragments, job.Trace = s.extractor.ExtractWithTrace(job.Document)
	return nil
}

// CombineStep merges fragments into questions.
type CombineStep struct{}

// Name returns the step name.
func (CombineStep) Name() string {
	return "combine"
}

// Do combines the job's fragments.
func (CombineStep) Do(_ context.Context, job *Job) error {
	job.Questions = extract.Combine(job.Fragments)
	return nil
}

// StampStep labels every question with the source filename.
type StampStep struct {
	now func() time.Time
}

// NewStampStep creates a stamp step. A nil clock uses time.Now.
func NewStampStep(now func() time.Time) *StampStep {
	if now == nil {
		now = time.Now
	}
	return &StampStep{now: now}
}

// Name returns the step name.
func (s *StampStep) Name() string {
	return "stamp"
}

// Do sets Exam on every question and records the processing time.
func (s *StampStep) Do(_ context.Context, job *Job) error {
	for i := range job.Questions {
		job.Questions[i].Exam = job.File
	}
	job.ProcessedAt = s.now().UTC()
	return nil
}

// FingerprintStep records a checksum of the source bytes.
type FingerprintStep struct{}

// Name returns the step name.
func (FingerprintStep) Name() string {
	return "fingerprint"
}

// Do hashes the source file. An unreadable file leaves the checksum empty
// and fails the step.
func (FingerprintStep) Do(ctx context.Context, job *Job) error {
	sum, err := FingerprintFile(ctx, job.Path)
	if err != nil {
		return fmt.Errorf("failed to fingerprint %s: %w", job.File, err)
	}
	job.Checksum = sum
	return nil
}

// ExamPipelineConfig holds the collaborators of the standard chain.
type ExamPipelineConfig struct {
	Renderer  layout.Renderer
	Extractor *extract.Extractor
	Logger    *slog.Logger
	Now       func() time.Time
}

// NewExamPipeline builds the standard render, extract, combine, stamp and
// fingerprint chain. A failing step is recorded on the job and the rest of
// the chain still runs, so a source that cannot be hashed keeps its
// questions.
func NewExamPipeline(cfg ExamPipelineConfig) (*Pipeline, error) {
	if cfg.Renderer == nil {
		return nil, fmt.Errorf("exam pipeline: renderer is required")
	}
	if cfg.Extractor == nil {
		return nil, fmt.Errorf("exam pipeline: extractor is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p := New(WithLogger(logger), WithContinueOnError(true))
	p.AddSteps(
		NewRenderStep(cfg.Renderer, WithRenderLogger(logger)),
		NewExtractStep(cfg.Extractor),
		CombineStep{},
		NewStampStep(cfg.Now),
		FingerprintStep{},
	)
	return p, nil
}
