package extract

import (
	"regexp"
	"strings"

	"github.com/danielglinatsis/HSC-AI/internal/layout"
)

// Classifier decides whether a span opens a new question.
type Classifier struct {
	label       *regexp.Regexp
	leftMargin  float64
	minFontSize float64
}

// NewClassifier compiles the label pattern from opts.
func NewClassifier(opts Options) (*Classifier, error) {
	label, err := compileLabelPattern(opts.QuestionPattern)
	if err != nil {
		return nil, err
	}
	return &Classifier{
		label:       label,
		leftMargin:  opts.LeftMargin,
		minFontSize: opts.MinFontSize,
	}, nil
}

// IsQuestionStart reports whether span is a question label: non-empty, bold,
// matching the label pattern in full, left aligned and at least body size.
//
// Four digit numbers such as years are rejected by the pattern; bare page
// numbers in the footer never reach the classifier because the margin filter
// drops them first.
func (c *Classifier) IsQuestionStart(span layout.Span) bool {
	text := strings.TrimSpace(span.Text)
	switch {
	case text == "":
		return false
	case !span.Bold:
		return false
	case !c.label.MatchString(text):
		return false
	case span.BBox.X0 > c.leftMargin:
		return false
	case span.Size < c.minFontSize:
		return false
	}
	return true
}
