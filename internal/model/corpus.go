package model

import (
	"errors"
	"strings"
)

// ErrDuplicateExam is returned when a record's normalized exam name is
// already present in the corpus.
var ErrDuplicateExam = errors.New("exam already present in corpus")

// documentExtensions are stripped from the end of names during normalization.
var documentExtensions = []string{".pdf", ".json"}

// NormalizeName maps an exam label or filename to its comparison key:
// lowercased, hyphens replaced by spaces, trailing document extensions
// removed and surrounding whitespace trimmed. NormalizeName is idempotent.
func NormalizeName(name string) string {
	key := strings.TrimSpace(strings.ReplaceAll(strings.ToLower(name), "-", " "))
	for {
		stripped := false
		for _, ext := range documentExtensions {
			if strings.HasSuffix(key, ext) {
				key = strings.TrimSpace(strings.TrimSuffix(key, ext))
				stripped = true
			}
		}
		if !stripped {
			return key
		}
	}
}

// Corpus is the persisted collection of exam records. It is a fixed
// two-level container: records, each holding questions.
type Corpus struct {
	Records []ExamRecord `json:"records"`
}

// NewCorpus returns an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{Records: []ExamRecord{}}
}

// Len returns the number of records.
func (c *Corpus) Len() int {
	return len(c.Records)
}

// Lookup returns the record whose exam name normalizes to the same key as
// name.
func (c *Corpus) Lookup(name string) (*ExamRecord, bool) {
	key := NormalizeName(name)
	for i := range c.Records {
		if NormalizeName(c.Records[i].Exam) == key {
			return &c.Records[i], true
		}
	}
	return nil, false
}

// Add appends a record. It returns ErrDuplicateExam if a record with the same
// normalized exam name already exists.
func (c *Corpus) Add(rec ExamRecord) error {
	if _, ok := c.Lookup(rec.Exam); ok {
		return ErrDuplicateExam
	}
	c.Records = append(c.Records, rec)
	return nil
}

// Questions returns every question in record order, then question order.
func (c *Corpus) Questions() []Question {
	out := make([]Question, 0, c.QuestionCount())
	for _, r := range c.Records {
		out = append(out, r.Questions...)
	}
	return out
}

// QuestionCount returns the total number of questions in the corpus.
func (c *Corpus) QuestionCount() int {
	total := 0
	for _, r := range c.Records {
		total += len(r.Questions)
	}
	return total
}
