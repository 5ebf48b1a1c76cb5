package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// MarginFilter drops lines that sit in the running header or footer band.
type MarginFilter struct {
	Top    float64
	Bottom float64
}

// Discard reports whether a line spanning y0..y1 on a page of the given
// height lies in a margin band. An unknown (zero) page height disables the
// filter.
func (m MarginFilter) Discard(pageHeight, y0, y1 float64) bool {
	if pageHeight <= 0 {
		return false
	}
	return y0 < m.Top || y1 > pageHeight-m.Bottom
}

// pageNumberPatterns are tried in order; the first capture wins.
var pageNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Page\s+(\d+)`),
	regexp.MustCompile(`(?i)Pg\s+(\d+)`),
	regexp.MustCompile(`(\d+)\s*/\s*\d+`),
}

// DetectPageNumber returns the printed page number found in text, or
// fallback when none of the page number patterns match.
func DetectPageNumber(text string, fallback int) int {
	for _, re := range pageNumberPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return n
	}
	return fallback
}

// IsDivider reports whether text consists only of dashes, whitespace and
// digits, such as "— 14 —" or a bare page number.
func IsDivider(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		switch {
		case r == '-', r == '–', r == '—':
		case unicode.IsSpace(r):
		case unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// minLineLength is the shortest body line kept, in runes.
const minLineLength = 3

// IsShort reports whether the stripped text is too short to be body text.
func IsShort(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) < minLineLength
}

// phraseMatcher does case-insensitive substring matching against a fixed
// phrase set. Phrases are case folded once; a Caser is stateful, so each
// Match builds its own and the matcher can be shared between goroutines.
type phraseMatcher struct {
	phrases []string
}

func newPhraseMatcher(phrases []string) *phraseMatcher {
	fold := cases.Fold()
	m := &phraseMatcher{}
	for _, p := range phrases {
		if p == "" {
			continue
		}
		m.phrases = append(m.phrases, fold.String(p))
	}
	return m
}

// Match returns the first phrase contained in text, if any.
func (m *phraseMatcher) Match(text string) (string, bool) {
	folded := cases.Fold().String(text)
	for _, p := range m.phrases {
		if strings.Contains(folded, p) {
			return p, true
		}
	}
	return "", false
}
