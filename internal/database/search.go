package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/danielglinatsis/HSC-AI/internal/model"
)

// DefaultSearchLimit is the number of hits returned when no limit is given.
const DefaultSearchLimit = 25

// ErrEmptyQuery is returned by Search for a query without searchable terms.
var ErrEmptyQuery = errors.New("search query is empty")

// Hit is one search result.
type Hit struct {
	// Question is the stored question.
	Question model.Question

	// Score is the relevance of the hit; higher is better.
	Score float64

	// Snippet is the matched region of the indexed content with terms
	// wrapped in brackets.
	Snippet string
}

var termPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// matchExpression turns free text into an FTS5 expression that matches any
// of its terms. Each term is quoted so operators in user input are literal.
func matchExpression(query string) string {
	terms := termPattern.FindAllString(query, -1)
	if len(terms) == 0 {
		return ""
	}
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = `"` + t + `"`
	}
	return strings.Join(quoted, " OR ")
}

// Search ranks stored questions against query with BM25 and returns at most
// limit hits. A limit of zero or less means DefaultSearchLimit.
func (cdb *CorpusDB) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	expr := matchExpression(query)
	if expr == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	rows, err := cdb.db.QueryContext(ctx, `
	SELECT q.question_json,
		bm25(questions_fts),
		snippet(questions_fts, 0, '[', ']', '...', 12)
	FROM questions_fts
	JOIN questions q ON q.id = questions_fts.rowid
	WHERE questions_fts MATCH ?
	ORDER BY bm25(questions_fts), q.exam_position, q.position
	LIMIT ?
	`, expr, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search questions: %w", err)
	}
	defer rows.Close()

	hits := make([]Hit, 0, limit)
	for rows.Next() {
		var (
			raw  string
			rank float64
			hit  Hit
		)
		if err := rows.Scan(&raw, &rank, &hit.Snippet); err != nil {
			return nil, fmt.Errorf("failed to scan search hit: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &hit.Question); err != nil {
			return nil, fmt.Errorf("failed to parse question: %w", err)
		}
		// bm25() is negative; more negative is more relevant.
		hit.Score = -rank
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read search hits: %w", err)
	}
	return hits, nil
}
