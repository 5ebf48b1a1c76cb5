package tagger

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/danielglinatsis/HSC-AI/internal/model"
)

// KeywordTagger assigns tags by matching topic keywords against question
// text. It never sets Difficulty or SkillTypes.
type KeywordTagger struct {
	topics map[string][]string
}

// NewKeywordTagger returns a tagger for topics, a map from tag to the
// keywords that select it. Keywords match case-insensitively on word
// boundaries.
func NewKeywordTagger(topics map[string][]string) *KeywordTagger {
	return &KeywordTagger{topics: topics}
}

// Empty reports whether no topics are configured.
func (k *KeywordTagger) Empty() bool {
	return k == nil || len(k.topics) == 0
}

// Tags returns the sorted tags whose keywords occur in q's text.
func (k *KeywordTagger) Tags(q model.Question) []string {
	if k.Empty() {
		return nil
	}
	fold := cases.Fold()
	text := " " + strings.Join(strings.FieldsFunc(fold.String(q.Text), isSeparator), " ") + " "

	var tags []string
	for tag, keywords := range k.topics {
		for _, kw := range keywords {
			words := strings.FieldsFunc(fold.String(kw), isSeparator)
			if len(words) == 0 {
				continue
			}
			if strings.Contains(text, " "+strings.Join(words, " ")+" ") {
				tags = append(tags, tag)
				break
			}
		}
	}
	slices.Sort(tags)
	return tags
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
