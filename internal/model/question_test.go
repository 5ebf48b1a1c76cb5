package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

// TestQuestionJSONPreservesEnrichment tests that unknown fields survive a
// load and save cycle and that output is stable.
func TestQuestionJSONPreservesEnrichment(t *testing.T) {
	t.Parallel()

	input := `{"exam":"2023.pdf","page":4,"text":"Question 3\nFind x.","tags":["Calculus"],"difficulty":"Hard","skill_types":["Proof"],"source_rank":7,"notes":{"by":"tutor"}}`

	var q Question
	if err := json.Unmarshal([]byte(input), &q); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if q.Exam != "2023.pdf" || q.Page != 4 || q.Text != "Question 3\nFind x." {
		t.Errorf("unexpected core fields: %+v", q)
	}
	if !reflect.DeepEqual(q.Tags, []string{"Calculus"}) {
		t.Errorf("tags = %v", q.Tags)
	}
	if q.Difficulty != "Hard" {
		t.Errorf("difficulty = %q", q.Difficulty)
	}
	if len(q.Extra) != 2 {
		t.Fatalf("expected 2 extra fields, got %v", q.Extra)
	}
	if string(q.Extra["source_rank"]) != "7" {
		t.Errorf("source_rank = %s", q.Extra["source_rank"])
	}

	first, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var again Question
	if err := json.Unmarshal(first, &again); err != nil {
		t.Fatalf("second Unmarshal failed: %v", err)
	}
	second, err := json.Marshal(again)
	if err != nil {
		t.Fatalf("second Marshal failed: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("output not stable:\n%s\n%s", first, second)
	}
}

// TestQuestionJSONOmitsEmptyEnrichment tests the minimal encoding.
func TestQuestionJSONOmitsEmptyEnrichment(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Question{Exam: "a.pdf", Page: 2, Text: "1 Which"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	expected := `{"exam":"a.pdf","page":2,"text":"1 Which"}`
	if string(data) != expected {
		t.Errorf("got %s, expected %s", data, expected)
	}
}

// TestQuestionJSONRejectsBadField tests type errors on known fields.
func TestQuestionJSONRejectsBadField(t *testing.T) {
	t.Parallel()

	var q Question
	if err := json.Unmarshal([]byte(`{"page":"four"}`), &q); err == nil {
		t.Error("expected error for non-numeric page")
	}
}

// TestQuestionSearchContent tests retrieval content expansion.
func TestQuestionSearchContent(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		question Question
		expected string
	}{
		{
			name:     "untagged",
			question: Question{Text: "Question 1\nFind y."},
			expected: "Question 1\nFind y.",
		},
		{
			name: "fully tagged",
			question: Question{
				Text:       "Question 2",
				Tags:       []string{"Calculus", "Integration"},
				Difficulty: "Medium",
				SkillTypes: []string{"Calculation"},
			},
			expected: "Question 2\nTopics: Calculus, Integration\nDifficulty: Medium\nSkills: Calculation",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.question.SearchContent(); got != tc.expected {
				t.Errorf("got %q, expected %q", got, tc.expected)
			}
			if tc.question.Tagged() != (len(tc.question.Tags) > 0) {
				t.Errorf("Tagged() = %v", tc.question.Tagged())
			}
		})
	}
}

// TestFragmentText tests fragment joining.
func TestFragmentText(t *testing.T) {
	t.Parallel()

	f := Fragment{Page: 3, Lines: []string{"Question 4", "Find the area.", ""}}
	if got := f.Text(); got != "Question 4\nFind the area." {
		t.Errorf("Text() = %q", got)
	}
	if f.Lead() != "Question 4" {
		t.Errorf("Lead() = %q", f.Lead())
	}
	if (Fragment{}).Lead() != "" {
		t.Error("empty fragment lead should be empty")
	}
}
