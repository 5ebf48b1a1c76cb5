package extract

import (
	"errors"
	"testing"

	"github.com/danielglinatsis/HSC-AI/internal/layout"
)

// TestClassifierIsQuestionStart tests start-of-question detection.
func TestClassifierIsQuestionStart(t *testing.T) {
	t.Parallel()

	c, err := NewClassifier(DefaultOptions())
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}

	base := layout.Span{Text: "Question 12", Bold: true, Size: 10, BBox: layout.BBox{X0: 40, Y0: 100, X1: 100, Y1: 110}}
	with := func(mod func(*layout.Span)) layout.Span {
		s := base
		mod(&s)
		return s
	}

	testCases := []struct {
		name     string
		span     layout.Span
		expected bool
	}{
		{"question label at left margin", base, true},
		{"bare multiple choice number", with(func(s *layout.Span) { s.Text = "7" }), true},
		{"surrounding whitespace", with(func(s *layout.Span) { s.Text = "  Question 3 " }), true},
		{"lower case label", with(func(s *layout.Span) { s.Text = "question 3" }), true},
		{"x0 exactly on margin", with(func(s *layout.Span) { s.BBox.X0 = 80 }), true},
		{"font exactly minimum", with(func(s *layout.Span) { s.Size = 8 }), true},
		{"not bold", with(func(s *layout.Span) { s.Bold = false }), false},
		{"empty text", with(func(s *layout.Span) { s.Text = "   " }), false},
		{"four digit year", with(func(s *layout.Span) { s.Text = "2024" }), false},
		{"continued heading", with(func(s *layout.Span) { s.Text = "Question 12 (continued)" }), false},
		{"trailing words", with(func(s *layout.Span) { s.Text = "12 marks" }), false},
		{"indented past margin", with(func(s *layout.Span) { s.BBox.X0 = 80.5 }), false},
		{"small font", with(func(s *layout.Span) { s.Size = 7.5 }), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := c.IsQuestionStart(tc.span); got != tc.expected {
				t.Errorf("IsQuestionStart(%+v) = %v, expected %v", tc.span, got, tc.expected)
			}
		})
	}
}

// TestClassifierCustomPattern tests that a configured pattern must match the
// whole label.
func TestClassifierCustomPattern(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.QuestionPattern = `Q\d+`
	c, err := NewClassifier(opts)
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}

	span := label("Q4", 100)
	if !c.IsQuestionStart(span) {
		t.Error("expected Q4 to start a question")
	}
	span.Text = "Q4 and more"
	if c.IsQuestionStart(span) {
		t.Error("expected partial match to be rejected")
	}
}

// TestOptionsValidate tests option validation.
func TestOptionsValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		modify  func(*Options)
		wantErr error
	}{
		{"defaults", func(*Options) {}, nil},
		{"negative margin", func(o *Options) { o.TopMargin = -1 }, ErrInvalidMargin},
		{"negative font", func(o *Options) { o.MinFontSize = -2 }, ErrInvalidFontSize},
		{"bad pattern", func(o *Options) { o.QuestionPattern = "(" }, ErrInvalidPattern},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			opts := DefaultOptions()
			tc.modify(&opts)
			err := opts.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

// TestDefaultBoilerplateKeepsStopPhrase checks the stop line is not filtered.
func TestDefaultBoilerplateKeepsStopPhrase(t *testing.T) {
	t.Parallel()

	m := newPhraseMatcher(DefaultBoilerplate())
	if p, ok := m.Match("End of paper"); ok {
		t.Errorf("stop line matched boilerplate phrase %q", p)
	}
}
