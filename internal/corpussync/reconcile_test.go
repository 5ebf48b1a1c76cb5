package corpussync

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/danielglinatsis/HSC-AI/internal/layout"
	"github.com/danielglinatsis/HSC-AI/internal/model"
)

func record(exam string, questionExam string) model.ExamRecord {
	rec := model.ExamRecord{Exam: exam}
	if questionExam != "" {
		rec.Questions = []model.Question{{Exam: questionExam, Page: 2, Text: "Question 1"}}
	}
	return rec
}

// TestReconcile tests record resolution and new file detection.
func TestReconcile(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		records      []model.ExamRecord
		files        []string
		wantNew      []string
		wantShadowed []string
		wantExams    []string
	}{
		{
			name:      "empty corpus processes everything",
			files:     []string{"b.pdf", "a.pdf"},
			wantNew:   []string{"a.pdf", "b.pdf"},
			wantExams: []string{},
		},
		{
			name:      "exact match is processed",
			records:   []model.ExamRecord{record("a.pdf", "a.pdf")},
			files:     []string{"a.pdf", "b.pdf"},
			wantNew:   []string{"b.pdf"},
			wantExams: []string{"a.pdf"},
		},
		{
			name:      "renamed file resolves through normalization",
			records:   []model.ExamRecord{record("2022-paper.pdf", "2022-paper.pdf")},
			files:     []string{"2022 Paper.pdf"},
			wantNew:   nil,
			wantExams: []string{"2022 Paper.pdf"},
		},
		{
			name:         "normalized twin of a processed file is not reprocessed",
			records:      []model.ExamRecord{record("2023-paper.pdf", "2023-paper.pdf")},
			files:        []string{"2023 Paper.pdf", "2023-paper.pdf"},
			wantNew:      nil,
			wantShadowed: []string{"2023 Paper.pdf"},
			wantExams:    []string{"2023-paper.pdf"},
		},
		{
			name:         "two new twins keep the first",
			files:        []string{"2020-trial.pdf", "2020 trial.pdf"},
			wantNew:      []string{"2020 trial.pdf"},
			wantShadowed: []string{"2020-trial.pdf"},
			wantExams:    []string{},
		},
		{
			name: "metadata title is the fallback provenance",
			records: []model.ExamRecord{{
				Exam:     "",
				Metadata: layout.Metadata{"title": "2019 HSC"},
			}},
			files:     []string{"2019-hsc.pdf"},
			wantNew:   nil,
			wantExams: []string{"2019-hsc.pdf"},
		},
		{
			name:      "unresolved record keeps its name",
			records:   []model.ExamRecord{record("retired.pdf", "retired.pdf")},
			files:     []string{"current.pdf"},
			wantNew:   []string{"current.pdf"},
			wantExams: []string{"retired.pdf"},
		},
		{
			name:      "question provenance wins over record exam",
			records:   []model.ExamRecord{record("stale name", "2021.pdf")},
			files:     []string{"2021.pdf"},
			wantNew:   nil,
			wantExams: []string{"2021.pdf"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			corpus := &model.Corpus{Records: tc.records}
			plan := Reconcile(corpus, tc.files)

			if !reflect.DeepEqual(plan.New, tc.wantNew) {
				t.Errorf("new = %v, expected %v", plan.New, tc.wantNew)
			}
			if !reflect.DeepEqual(plan.Shadowed, tc.wantShadowed) {
				t.Errorf("shadowed = %v, expected %v", plan.Shadowed, tc.wantShadowed)
			}
			exams := []string{}
			for _, r := range corpus.Records {
				exams = append(exams, r.Exam)
				for _, q := range r.Questions {
					if q.Exam != r.Exam {
						t.Errorf("question exam %q differs from record %q", q.Exam, r.Exam)
					}
				}
			}
			if !reflect.DeepEqual(exams, tc.wantExams) {
				t.Errorf("exams = %v, expected %v", exams, tc.wantExams)
			}
		})
	}
}

// TestListSources tests source discovery.
func TestListSources(t *testing.T) {
	t.Parallel()

	t.Run("filters and sorts", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		for _, name := range []string{"b.pdf", "a.json", "notes.txt", ".hidden.pdf", "C.PDF"} {
			if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
				t.Fatal(err)
			}
		}
		if err := os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o750); err != nil {
			t.Fatal(err)
		}

		files, err := ListSources(dir, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		expected := []string{"C.PDF", "a.json", "b.pdf"}
		if !reflect.DeepEqual(files, expected) {
			t.Errorf("got %v, expected %v", files, expected)
		}
	})

	t.Run("creates missing directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "exams")
		files, err := ListSources(dir, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(files) != 0 {
			t.Errorf("expected no files, got %v", files)
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("expected directory to be created: %v", err)
		}
	})
}
