package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Question is a single exam question as persisted in the corpus.
//
// Exam, Page and Text are written by the extraction engine and stay stable
// across synchronization runs. Tags, Difficulty, SkillTypes and Extra are
// enrichment added by collaborators such as the tagger; the core carries them
// through load and save untouched.
type Question struct {
	// Exam is the source filename the question was extracted from.
	Exam string

	// Page is the printed page number (or physical page index when the page
	// carries no detectable number).
	Page int

	// Text is the combined question text, newline separated, never empty.
	Text string

	// Tags lists topic labels.
	Tags []string

	// Difficulty is a free-form difficulty label.
	Difficulty string

	// SkillTypes lists the skills a question exercises.
	SkillTypes []string

	// Extra holds any other enrichment fields found in the persisted record.
	// They are written back at the top level of the question object.
	Extra map[string]json.RawMessage
}

const (
	fieldExam       = "exam"
	fieldPage       = "page"
	fieldText       = "text"
	fieldTags       = "tags"
	fieldDifficulty = "difficulty"
	fieldSkillTypes = "skill_types"
)

// Tagged reports whether the question already carries enrichment from a
// tagger run.
func (q Question) Tagged() bool {
	return len(q.Tags) > 0 || q.Difficulty != "" || len(q.SkillTypes) > 0
}

// SearchContent returns the text indexed for retrieval: the question text
// followed by Topics, Difficulty and Skills lines for whichever enrichment
// fields are present.
func (q Question) SearchContent() string {
	var b strings.Builder
	b.WriteString(q.Text)
	if len(q.Tags) > 0 {
		b.WriteString("\nTopics: ")
		b.WriteString(strings.Join(q.Tags, ", "))
	}
	if q.Difficulty != "" {
		b.WriteString("\nDifficulty: ")
		b.WriteString(q.Difficulty)
	}
	if len(q.SkillTypes) > 0 {
		b.WriteString("\nSkills: ")
		b.WriteString(strings.Join(q.SkillTypes, ", "))
	}
	return b.String()
}

// MarshalJSON writes the question as a flat object. Known fields and Extra
// share one namespace; known fields win on conflict. Keys are emitted in
// sorted order so repeated saves of the same corpus are byte-identical.
func (q Question) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(q.Extra)+6)
	for k, v := range q.Extra {
		fields[k] = v
	}
	fields[fieldExam] = q.Exam
	fields[fieldPage] = q.Page
	fields[fieldText] = q.Text
	if len(q.Tags) > 0 {
		fields[fieldTags] = q.Tags
	}
	if q.Difficulty != "" {
		fields[fieldDifficulty] = q.Difficulty
	}
	if len(q.SkillTypes) > 0 {
		fields[fieldSkillTypes] = q.SkillTypes
	}
	return json.Marshal(fields)
}

// UnmarshalJSON reads a flat question object. Unknown keys are kept in Extra.
func (q *Question) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var out Question
	targets := []struct {
		key string
		dst any
	}{
		{fieldExam, &out.Exam},
		{fieldPage, &out.Page},
		{fieldText, &out.Text},
		{fieldTags, &out.Tags},
		{fieldDifficulty, &out.Difficulty},
		{fieldSkillTypes, &out.SkillTypes},
	}
	for _, t := range targets {
		raw, ok := fields[t.key]
		if !ok {
			continue
		}
		delete(fields, t.key)
		if string(raw) == "null" {
			continue
		}
		if err := json.Unmarshal(raw, t.dst); err != nil {
			return fmt.Errorf("question field %q: %w", t.key, err)
		}
	}
	if len(fields) > 0 {
		out.Extra = fields
	}

	*q = out
	return nil
}
