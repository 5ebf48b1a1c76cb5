package extract

import (
	"errors"
	"fmt"
	"regexp"
)

// Default layout thresholds, in PDF points.
const (
	DefaultLeftMargin   = 80
	DefaultTopMargin    = 50
	DefaultBottomMargin = 50
	DefaultMinFontSize  = 8
)

// DefaultQuestionPattern matches "Question 12" style and bare "12" style
// question labels.
const DefaultQuestionPattern = `(?i)^(Question\s+\d{1,3}|\d{1,3})$`

// DefaultStopPhrase ends extraction for the rest of a document once a kept
// line contains it.
const DefaultStopPhrase = "end of paper"

var (
	// ErrInvalidMargin is returned when a margin threshold is negative.
	ErrInvalidMargin = errors.New("margin thresholds must not be negative")

	// ErrInvalidFontSize is returned when the minimum font size is negative.
	ErrInvalidFontSize = errors.New("minimum font size must not be negative")

	// ErrInvalidPattern is returned when the question pattern does not compile.
	ErrInvalidPattern = errors.New("invalid question pattern")
)

// Options holds the layout thresholds and text rules used during extraction.
type Options struct {
	// LeftMargin is the maximum x0 of a question label span.
	LeftMargin float64

	// TopMargin is the height of the running header band.
	TopMargin float64

	// BottomMargin is the height of the running footer band.
	BottomMargin float64

	// MinFontSize is the minimum size of a question label span.
	MinFontSize float64

	// QuestionPattern is the label grammar. It must match the whole stripped
	// span text.
	QuestionPattern string

	// Boilerplate lists phrases whose presence (case-insensitive) drops a
	// body line.
	Boilerplate []string

	// StopPhrase ends extraction once a kept line contains it
	// (case-insensitive). Empty means DefaultStopPhrase.
	StopPhrase string
}

// DefaultOptions returns the thresholds used for typeset exam papers.
func DefaultOptions() Options {
	return Options{
		LeftMargin:      DefaultLeftMargin,
		TopMargin:       DefaultTopMargin,
		BottomMargin:    DefaultBottomMargin,
		MinFontSize:     DefaultMinFontSize,
		QuestionPattern: DefaultQuestionPattern,
		Boilerplate:     DefaultBoilerplate(),
		StopPhrase:      DefaultStopPhrase,
	}
}

// DefaultBoilerplate returns the standard set of exam paper boilerplate
// phrases. DefaultStopPhrase is not in the set: a line containing it has to survive
// filtering to end extraction.
func DefaultBoilerplate() []string {
	return []string{
		"Do NOT write in this area.",
		"HIGHER SCHOOL CERTIFICATE EXAMINATION",
		"Instructions",
		"General Instructions",
		"page",
		"marks",
		"provide guidance for the expected length of response",
		"expected length of response",
		"and/or calculations",
		"do not write",
		"office use only",
		"reading time",
		"working time",
		"NESA",
		"a reference sheet is provided at the back of this paper",
		"attempt questions",
		"minutes for this section",
		"centre number",
		"student number",
		"extra writing space",
		"section II extra writing space",
		"if you use this space, clearly indicate which question you are answering",
		"clearly indicate which question you are answering",
		"if you use this space",
		"NSW Education Standards Authority",
		"blank page",
		"reference sheet",
		"please turn over",
		"end of question",
		"mathematics advanced",
		"............",
		"use the multiple-choice answer sheet for questions",
		"total marks",
		"section i",
		"section ii",
		"10 marks (pages ",
		"90 marks (pages ",
		"general  instructions",
		"answer the questions in the spaces provided",
		"these spaces  provide guidance for the expected length of response.",
		"your responses should include relevant mathematical reasoning",
		"extra writing space is provided at the back of this booklet.",
		"continues on page",
		"marks in total",
	}
}

// Validate checks the options for consistency.
func (o Options) Validate() error {
	if o.LeftMargin < 0 || o.TopMargin < 0 || o.BottomMargin < 0 {
		return ErrInvalidMargin
	}
	if o.MinFontSize < 0 {
		return ErrInvalidFontSize
	}
	if _, err := compileLabelPattern(o.QuestionPattern); err != nil {
		return err
	}
	return nil
}

// compileLabelPattern anchors the pattern so it must match the whole text.
func compileLabelPattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		pattern = DefaultQuestionPattern
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	return re, nil
}
