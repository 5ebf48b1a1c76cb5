package report

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/danielglinatsis/HSC-AI/internal/model"
	"github.com/danielglinatsis/HSC-AI/internal/pipeline"
)

// SourceStatus describes a record's source file relative to the checksum
// stored when it was processed.
type SourceStatus string

const (
	// SourceUnchanged means the file still has the stored checksum.
	SourceUnchanged SourceStatus = "unchanged"

	// SourceChanged means the file was modified after processing. It is not
	// reprocessed; the flag only tells the user.
	SourceChanged SourceStatus = "changed"

	// SourceMissing means the file is no longer in the exam directory.
	SourceMissing SourceStatus = "missing"

	// SourceUnknown means no checksum was stored or the file could not be
	// read.
	SourceUnknown SourceStatus = "unknown"
)

// ExamSummary describes one record of the corpus.
type ExamSummary struct {
	Exam        string       `json:"exam"`
	Title       string       `json:"title,omitempty"`
	Questions   int          `json:"questions"`
	Tagged      int          `json:"tagged"`
	FirstPage   int          `json:"first_page,omitempty"`
	LastPage    int          `json:"last_page,omitempty"`
	ProcessedAt time.Time    `json:"processed_at,omitzero"`
	Source      SourceStatus `json:"source"`
}

// Summary is the corpus report rendered by every Writer.
type Summary struct {
	GeneratedAt time.Time      `json:"generated_at"`
	ExamDir     string         `json:"exam_dir"`
	Store       string         `json:"store"`
	Exams       []ExamSummary  `json:"exams"`
	Questions   int            `json:"questions"`
	Tagged      int            `json:"tagged"`
	Tags        map[string]int `json:"tags,omitempty"`
	Difficulty  map[string]int `json:"difficulty,omitempty"`
}

// EmptyExams returns the number of records without questions.
func (s *Summary) EmptyExams() int {
	n := 0
	for _, e := range s.Exams {
		if e.Questions == 0 {
			n++
		}
	}
	return n
}

// ChangedSources returns the exams whose source file changed or went
// missing since processing.
func (s *Summary) ChangedSources() []ExamSummary {
	var out []ExamSummary
	for _, e := range s.Exams {
		if e.Source == SourceChanged || e.Source == SourceMissing {
			out = append(out, e)
		}
	}
	return out
}

// TagNames returns the tag names ordered by descending count, then name.
func (s *Summary) TagNames() []string {
	names := make([]string, 0, len(s.Tags))
	for name := range s.Tags {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if s.Tags[a] != s.Tags[b] {
			return s.Tags[b] - s.Tags[a]
		}
		return cmp.Compare(a, b)
	})
	return names
}

// SummaryOptions describes where the corpus came from.
type SummaryOptions struct {
	// ExamDir is checked for source changes. Empty skips the check.
	ExamDir string

	// Store identifies the corpus store.
	Store string

	// Now stamps the summary. Nil uses time.Now.
	Now func() time.Time
}

// NewSummary builds the report for corpus. Source files are fingerprinted
// to detect changes; failures to read them are joined into the returned
// error while the summary is still complete.
func NewSummary(ctx context.Context, corpus *model.Corpus, opts SummaryOptions) (*Summary, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Summary{
		GeneratedAt: now().UTC(),
		ExamDir:     opts.ExamDir,
		Store:       opts.Store,
		Exams:       make([]ExamSummary, 0, corpus.Len()),
		Tags:        make(map[string]int),
		Difficulty:  make(map[string]int),
	}

	var errs []error
	for _, rec := range corpus.Records {
		e := ExamSummary{
			Exam:        rec.Exam,
			Title:       rec.Metadata.Title(),
			Questions:   len(rec.Questions),
			ProcessedAt: rec.ProcessedAt,
			Source:      SourceUnknown,
		}
		for i, q := range rec.Questions {
			if i == 0 || q.Page < e.FirstPage {
				e.FirstPage = q.Page
			}
			if q.Page > e.LastPage {
				e.LastPage = q.Page
			}
			if q.Tagged() {
				e.Tagged++
			}
			for _, tag := range q.Tags {
				s.Tags[tag]++
			}
			if q.Difficulty != "" {
				s.Difficulty[q.Difficulty]++
			}
		}

		if opts.ExamDir != "" && rec.Checksum != "" {
			status, err := sourceStatus(ctx, filepath.Join(opts.ExamDir, rec.Exam), rec.Checksum)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", rec.Exam, err))
			}
			e.Source = status
		}

		s.Questions += e.Questions
		s.Tagged += e.Tagged
		s.Exams = append(s.Exams, e)
	}

	return s, errors.Join(errs...)
}

func sourceStatus(ctx context.Context, path, checksum string) (SourceStatus, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return SourceMissing, nil
	}
	current, err := pipeline.FingerprintFile(ctx, path)
	if err != nil {
		return SourceUnknown, err
	}
	if current != checksum {
		return SourceChanged, nil
	}
	return SourceUnchanged, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
