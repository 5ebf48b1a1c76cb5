package extract

import (
	"regexp"
	"strings"

	"github.com/danielglinatsis/HSC-AI/internal/model"
)

// FragmentKind classifies the lead line of a fragment for combining.
type FragmentKind int

const (
	// KindOther is a fragment that matches no known heading. It is merged
	// into the previous question.
	KindOther FragmentKind = iota

	// KindContinued is a "Question N (continued)" heading.
	KindContinued

	// KindSubpart is a "(a)" style subpart.
	KindSubpart

	// KindMain is a "Question N" heading.
	KindMain

	// KindMCQ is a bare numbered multiple-choice item.
	KindMCQ
)

// String returns the kind name.
func (k FragmentKind) String() string {
	switch k {
	case KindContinued:
		return "continued"
	case KindSubpart:
		return "subpart"
	case KindMain:
		return "main"
	case KindMCQ:
		return "mcq"
	default:
		return "other"
	}
}

// StartsQuestion reports whether a fragment of this kind opens a new
// question rather than extending the previous one.
func (k FragmentKind) StartsQuestion() bool {
	return k == KindMain || k == KindMCQ
}

var (
	continuedPattern = regexp.MustCompile(`(?i)^Question\s+\d+\s*\(continued\)`)
	subpartPattern   = regexp.MustCompile(`^\([a-z]\)`)
	mainPattern      = regexp.MustCompile(`(?i)^Question\s+\d+`)
	mcqPattern       = regexp.MustCompile(`^\d+\b`)
)

// ClassifyLead classifies a fragment by its first line. Continued headings
// are checked before main headings, and subparts before either numbered form.
func ClassifyLead(line string) FragmentKind {
	line = strings.TrimSpace(line)
	switch {
	case continuedPattern.MatchString(line):
		return KindContinued
	case subpartPattern.MatchString(line):
		return KindSubpart
	case mainPattern.MatchString(line):
		return KindMain
	case mcqPattern.MatchString(line):
		return KindMCQ
	default:
		return KindOther
	}
}

// firstLine returns the first line of text.
func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return line
}

// Combine merges fragments of one document into questions. The first
// fragment always opens a question; after that, main headings and
// multiple-choice items open a new question and every other fragment is
// appended to the previous one. A question's page is the page of its first
// fragment. Fragments with no text are skipped. Exam is left empty.
func Combine(frags []model.Fragment) []model.Question {
	var (
		out   []model.Question
		parts []string
	)
	closeGroup := func() {
		if len(parts) == 0 {
			return
		}
		out[len(out)-1].Text = strings.Join(parts, "\n")
		parts = nil
	}

	for _, f := range frags {
		text := f.Text()
		if text == "" {
			continue
		}
		if len(out) == 0 || ClassifyLead(firstLine(text)).StartsQuestion() {
			closeGroup()
			out = append(out, model.Question{Page: f.Page})
		}
		parts = append(parts, text)
	}
	closeGroup()

	return out
}

// Fragments converts questions back into single-fragment form, one fragment
// per question, for re-combining or inspection.
func Fragments(questions []model.Question) []model.Fragment {
	out := make([]model.Fragment, 0, len(questions))
	for _, q := range questions {
		out = append(out, model.Fragment{Page: q.Page, Lines: strings.Split(q.Text, "\n")})
	}
	return out
}
