package tagger

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/danielglinatsis/HSC-AI/internal/model"
)

// ErrInvalidResponse is returned when a model reply does not follow the
// JSON contract.
var ErrInvalidResponse = errors.New("invalid tagger response")

const systemMessage = `You classify HSC mathematics exam questions. Respond with strict JSON only, no narration.
The JSON schema is {"questions": [{"id": int, "tags": string[1..3], "difficulty": "Easy"|"Medium"|"Hard", "skill_types": string[0..3]}]}.
Return exactly one entry per question id you were given. Tags name syllabus topics; skill_types name what the student must do, such as "Proof", "Calculation", "Graphing" or "Modelling".`

// assignment is one question's entry in a model reply.
type assignment struct {
	ID         int      `json:"id"`
	Tags       []string `json:"tags"`
	Difficulty string   `json:"difficulty"`
	SkillTypes []string `json:"skill_types"`
}

type reply struct {
	Questions []assignment `json:"questions"`
}

// buildUserPrompt lists the batch with ids equal to their position and, when
// non-empty, the allowed topic names.
func buildUserPrompt(batch []model.Question, allowed []string) string {
	var sb strings.Builder
	if len(allowed) > 0 {
		sb.WriteString("Use only these topic names as tags:\n")
		for _, t := range allowed {
			sb.WriteString("- ")
			sb.WriteString(t)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Questions:\n")
	for i, q := range batch {
		fmt.Fprintf(&sb, "\n[id %d] %s, page %d\n%s\n", i, q.Exam, q.Page, q.Text)
	}
	return sb.String()
}

// parseReply decodes a model reply for a batch of n questions. Entries with
// ids outside the batch are dropped.
func parseReply(content string, n int) (map[int]assignment, error) {
	raw := strings.TrimSpace(content)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var r reply
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if len(r.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", ErrInvalidResponse)
	}

	out := make(map[int]assignment, len(r.Questions))
	for _, a := range r.Questions {
		if a.ID < 0 || a.ID >= n {
			continue
		}
		out[a.ID] = a
	}
	return out, nil
}
