package extract

import "strings"

// mathTokens maps isolated differential tokens to a retrieval friendly form.
var mathTokens = []struct {
	token       string
	replacement string
}{
	{"dx", "dx (integration)"},
	{"dt", "dt (integration)"},
}

// CleanMath rewrites differential tokens such as "dx" that are not part of
// a longer word, so lexical search can match integration questions. It is
// applied to indexed content only.
func CleanMath(text string) string {
	for _, m := range mathTokens {
		text = replaceIsolated(text, m.token, m.replacement)
	}
	return text
}

// replaceIsolated replaces occurrences of token that have no ASCII letter
// immediately before or after them.
func replaceIsolated(text, token, replacement string) string {
	if !strings.Contains(text, token) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + len(replacement))
	rest := text
	consumed := 0
	for {
		i := strings.Index(rest, token)
		if i < 0 {
			b.WriteString(rest)
			return b.String()
		}
		abs := consumed + i
		end := abs + len(token)
		before := abs > 0 && isASCIILetter(text[abs-1])
		after := end < len(text) && isASCIILetter(text[end])

		b.WriteString(rest[:i])
		if before || after {
			b.WriteString(token)
		} else {
			b.WriteString(replacement)
		}
		rest = rest[i+len(token):]
		consumed = end
	}
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
