package extract

import "testing"

// TestMarginFilterDiscard tests header and footer band detection.
func TestMarginFilterDiscard(t *testing.T) {
	t.Parallel()

	m := MarginFilter{Top: 50, Bottom: 50}

	testCases := []struct {
		name     string
		height   float64
		y0, y1   float64
		expected bool
	}{
		{"body line", 842, 100, 111, false},
		{"header band", 842, 30, 41, true},
		{"top edge is kept", 842, 50, 61, false},
		{"footer band", 842, 790, 801, true},
		{"bottom edge is kept", 842, 780, 792, false},
		{"unknown height disables filter", 0, 5, 900, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := m.Discard(tc.height, tc.y0, tc.y1); got != tc.expected {
				t.Errorf("Discard(%v, %v, %v) = %v, expected %v", tc.height, tc.y0, tc.y1, got, tc.expected)
			}
		})
	}
}

// TestDetectPageNumber tests printed page number detection and fallback.
func TestDetectPageNumber(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		text     string
		fallback int
		expected int
	}{
		{"page word", "Page 7", 2, 7},
		{"page word lower case", "see page 12 for details", 2, 12},
		{"pg abbreviation", "Pg 3", 2, 3},
		{"fraction form", "4 / 20", 2, 4},
		{"fraction without spaces", "9/24", 2, 9},
		{"page takes priority over fraction", "3/10 Page 5", 2, 5},
		{"no pattern falls back", "Question 11 (continued)", 6, 6},
		{"divider falls back", "— 14 —", 3, 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := DetectPageNumber(tc.text, tc.fallback); got != tc.expected {
				t.Errorf("DetectPageNumber(%q, %d) = %d, expected %d", tc.text, tc.fallback, got, tc.expected)
			}
		})
	}
}

// TestIsDivider tests divider-only line detection.
func TestIsDivider(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		text     string
		expected bool
	}{
		{"— 14 —", true},
		{"– 3 –", true},
		{"-----", true},
		{"12", true},
		{"  ", true},
		{"", false},
		{"14a", false},
		{"x - 1", false},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			t.Parallel()
			if got := IsDivider(tc.text); got != tc.expected {
				t.Errorf("IsDivider(%q) = %v, expected %v", tc.text, got, tc.expected)
			}
		})
	}
}

// TestIsShort tests the minimum line length rule.
func TestIsShort(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		text     string
		expected bool
	}{
		{"ab", true},
		{" ab ", true},
		{"abc", false},
		{"√π", true},
		{"√π²", false},
	}

	for _, tc := range testCases {
		if got := IsShort(tc.text); got != tc.expected {
			t.Errorf("IsShort(%q) = %v, expected %v", tc.text, got, tc.expected)
		}
	}
}

// TestPhraseMatcher tests case-insensitive boilerplate matching.
func TestPhraseMatcher(t *testing.T) {
	t.Parallel()

	m := newPhraseMatcher([]string{"Do NOT write in this area.", "", "NESA"})

	if _, ok := m.Match("do not write in this area."); !ok {
		t.Error("expected case-insensitive match")
	}
	if p, ok := m.Match("© 2023 nesa"); !ok || p != "nesa" {
		t.Errorf("expected nesa match, got %q %v", p, ok)
	}
	if _, ok := m.Match("Find the value of k."); ok {
		t.Error("expected no match")
	}
}
