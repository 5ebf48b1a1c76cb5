package model

import (
	"time"

	"github.com/danielglinatsis/HSC-AI/internal/layout"
)

// ExamRecord groups every question extracted from one source document.
type ExamRecord struct {
	// Exam is the source filename this record was produced from.
	Exam string `json:"exam"`

	// Metadata is the renderer's document metadata, stored opaquely. Its
	// title is used as a provenance fallback for records without questions.
	Metadata layout.Metadata `json:"metadata,omitempty"`

	// Checksum is the hex-encoded fingerprint of the source file at the time
	// it was processed. Empty for records loaded from older corpora.
	Checksum string `json:"checksum,omitempty"`

	// ProcessedAt is when the record was produced.
	ProcessedAt time.Time `json:"processed_at,omitzero"`

	// Questions is the ordered list of questions found in the document.
	Questions []Question `json:"questions"`
}

// Provenance returns the name a record was produced from: the first
// question's exam label, else the metadata title, else the record's Exam.
func (r ExamRecord) Provenance() string {
	if len(r.Questions) > 0 && r.Questions[0].Exam != "" {
		return r.Questions[0].Exam
	}
	if title := r.Metadata.Title(); title != "" {
		return title
	}
	return r.Exam
}

// Relabel sets the record's Exam and every question's Exam to name.
func (r *ExamRecord) Relabel(name string) {
	r.Exam = name
	for i := range r.Questions {
		r.Questions[i].Exam = name
	}
}
