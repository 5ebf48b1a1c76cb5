package pipeline

import (
	"path/filepath"
	"time"

	"github.com/danielglinatsis/HSC-AI/internal/extract"
	"github.com/danielglinatsis/HSC-AI/internal/layout"
	"github.com/danielglinatsis/HSC-AI/internal/model"
)

// Job carries one source file through the pipeline.
type Job struct {
	// File is the source filename, used as the exam label.
	File string

	// Path is the full path to the source file.
	Path string

	// Document is the rendered layout. Empty when rendering failed.
	Document layout.Document

	// Fragments are the raw fragments found by the extractor.
	Fragments []model.Fragment

	// Trace holds the extractor's per-line counters.
	Trace extract.Trace

	// Questions are the combined, stamped questions.
	Questions []model.Question

	// Checksum is the hex-encoded fingerprint of the source bytes.
	Checksum string

	// ProcessedAt is when the stamp step ran.
	ProcessedAt time.Time

	// RenderErr records why the source could not be rendered. A failed
	// render still yields a record with no questions.
	RenderErr error

	// Err is the error of the last step that failed, if any. A pipeline
	// that continues on error keeps running after setting it.
	Err error

	// PerformedSteps lists the names of the steps that ran.
	PerformedSteps []string
}

// NewJob creates a job for file inside dir.
func NewJob(dir, file string) *Job {
	return &Job{
		File: file,
		Path: filepath.Join(dir, file),
	}
}

// Record converts the job's results into a corpus record.
func (j *Job) Record() model.ExamRecord {
	questions := j.Questions
	if questions == nil {
		questions = []model.Question{}
	}
	return model.ExamRecord{
		Exam:        j.File,
		Metadata:    j.Document.Metadata,
		Checksum:    j.Checksum,
		ProcessedAt: j.ProcessedAt,
		Questions:   questions,
	}
}
