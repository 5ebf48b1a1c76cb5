package layout

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ligatures expands the Latin ligatures PDF fonts substitute for letter
// pairs.
var ligatures = strings.NewReplacer(
	"\ufb00", "ff",
	"\ufb01", "fi",
	"\ufb02", "fl",
	"\ufb03", "ffi",
	"\ufb04", "ffl",
	"\ufb05", "st",
	"\ufb06", "st",
)

// NormalizeText composes s to NFC, expands font ligatures such as "ﬁ",
// folds full-width ASCII and odd spaces, and drops invisible characters.
// Other compatibility characters (superscripts, vulgar fractions,
// double-struck letters) carry meaning in question text and are kept.
func NormalizeText(s string) string {
	s = ligatures.Replace(norm.NFC.String(s))
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\u00a0', r == '\u2007', r == '\u202f', r == '\u3000':
			return ' '
		case r == '\u00ad', r == '\u200b', r == '\ufeff':
			return -1
		case r >= '\uff01' && r <= '\uff5e':
			return r - 0xfee0
		}
		return r
	}, s)
}

// normalizeDocument applies NormalizeText to every span of doc in place.
func normalizeDocument(doc *Document) {
	for pi := range doc.Pages {
		for bi := range doc.Pages[pi].Blocks {
			for li := range doc.Pages[pi].Blocks[bi].Lines {
				spans := doc.Pages[pi].Blocks[bi].Lines[li].Spans
				for si := range spans {
					spans[si].Text = NormalizeText(spans[si].Text)
				}
			}
		}
	}
}
