package model

import "strings"

// Fragment is a contiguous run of lines captured by the extraction state
// machine between two question starts. Fragments are intermediate: the
// combiner turns them into questions.
type Fragment struct {
	// Page is the detected (printed) page number of the first line.
	Page int `json:"page"`

	// Lines holds the reconstructed text of every accepted line in order.
	// The first entry is the question label line.
	Lines []string `json:"lines"`
}

// Text joins the fragment's lines with newlines and trims the result.
func (f Fragment) Text() string {
	return strings.TrimSpace(strings.Join(f.Lines, "\n"))
}

// Lead returns the first line of the fragment, or "" when it has none.
func (f Fragment) Lead() string {
	if len(f.Lines) == 0 {
		return ""
	}
	return f.Lines[0]
}
