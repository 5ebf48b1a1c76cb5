package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// Step is one stage of the per-file chain.
type Step interface {
	// Do executes the step against job. Recoverable problems (such as a
	// source that cannot be rendered) are recorded on the job and Do returns
	// nil; a returned error stops the pipeline unless it continues on error.
	Do(ctx context.Context, job *Job) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in order against a single job.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline. A nil logger is
// ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithContinueOnError configures the pipeline to run later steps even when
// one fails. The failure is still recorded on the job.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline. Add steps with AddStep or AddSteps.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
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

// Execute runs all steps in sequence against job. Cancellation is checked
// before each step; a cancelled job keeps the steps that already ran.
func (p *Pipeline) Execute(ctx context.Context, job *Job) error {
	for _, step := range p.steps {
		log := p.logger.With("step", step.Name(), "file", job.File)

		if err := ctx.Err(); err != nil {
			log.Warn("pipeline cancelled", "reason", err)
			job.Err = err
			return err
		}

		started := time.Now()
		err := step.Do(ctx, job)
		log.Debug("step finished", "elapsed", time.Since(started))
		if err != nil {
			log.Error("step failed", "error", err)
			job.Err = err
			if !p.continueOnError {
				return err
			}
		}

		job.PerformedSteps = append(job.PerformedSteps, step.Name())
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
