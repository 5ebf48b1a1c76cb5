package tagger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/danielglinatsis/HSC-AI/internal/model"
)

// ErrNoMethod is returned when neither a chat client nor keyword topics are
// configured.
var ErrNoMethod = errors.New("no tagging method configured: set an API key or keyword topics")

// DefaultBatchSize is the number of questions sent per model request.
const DefaultBatchSize = 10

// ChatClient is the subset of the OpenAI client used for tagging.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewOpenAIClient returns a chat client for apiKey. A non-empty baseURL
// points it at a compatible server.
func NewOpenAIClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// Result describes one tagging run.
type Result struct {
	// Candidates is the number of questions that had no enrichment.
	Candidates int

	// Tagged is the number of questions that gained enrichment.
	Tagged int

	// Keyword is the number of those tagged by keyword matching.
	Keyword int

	// FailedBatches counts model requests that failed and fell back to
	// keywords.
	FailedBatches int
}

// Tagger fills Tags, Difficulty and SkillTypes on questions that have none.
// It never modifies Exam, Page or Text.
type Tagger struct {
	client    ChatClient
	model     string
	batchSize int
	allowed   []string
	keywords  *KeywordTagger
	cache     *Cache
	logger    *slog.Logger
}

// Option configures a Tagger.
type Option func(*Tagger)

// WithClient enables model tagging with client and the named model.
func WithClient(client ChatClient, model string) Option {
	return func(t *Tagger) {
		t.client = client
		t.model = model
	}
}

// WithBatchSize sets how many questions go into one request.
func WithBatchSize(n int) Option {
	return func(t *Tagger) {
		if n > 0 {
			t.batchSize = n
		}
	}
}

// WithAllowedTopics restricts model tags to topics. Tags outside the set are
// dropped.
func WithAllowedTopics(topics []string) Option {
	return func(t *Tagger) {
		t.allowed = topics
	}
}

// WithKeywords sets the keyword topics used when no model is configured or a
// request fails.
func WithKeywords(topics map[string][]string) Option {
	return func(t *Tagger) {
		t.keywords = NewKeywordTagger(topics)
	}
}

// WithCache caches model replies.
func WithCache(cache *Cache) Option {
	return func(t *Tagger) {
		t.cache = cache
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tagger) {
		t.logger = logger
	}
}

// New returns a Tagger configured by opts.
func New(opts ...Option) *Tagger {
	t := &Tagger{
		batchSize: DefaultBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type questionRef struct {
	record, question int
}

// Tag enriches every untagged question of corpus in place.
func (t *Tagger) Tag(ctx context.Context, corpus *model.Corpus) (Result, error) {
	if t.client == nil && t.keywords.Empty() {
		return Result{}, ErrNoMethod
	}

	var refs []questionRef
	for ri := range corpus.Records {
		for qi, q := range corpus.Records[ri].Questions {
			if !q.Tagged() {
				refs = append(refs, questionRef{ri, qi})
			}
		}
	}

	res := Result{Candidates: len(refs)}
	norm := newNormalizer(t.allowed)

	for start := 0; start < len(refs); start += t.batchSize {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		chunk := refs[start:min(start+t.batchSize, len(refs))]
		batch := make([]model.Question, len(chunk))
		for i, ref := range chunk {
			batch[i] = corpus.Records[ref.record].Questions[ref.question]
		}

		var assigned map[int]assignment
		if t.client != nil {
			var err error
			assigned, err = t.tagWithModel(ctx, batch)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return res, ctxErr
				}
				res.FailedBatches++
				t.logger.Warn("model tagging failed, using keywords", "batch_start", start, "error", err)
			}
		}

		for i, ref := range chunk {
			q := &corpus.Records[ref.record].Questions[ref.question]
			if a, ok := assigned[i]; ok && norm.apply(q, a) {
				res.Tagged++
				continue
			}
			if tags := t.keywords.Tags(*q); len(tags) > 0 {
				q.Tags = tags
				res.Tagged++
				res.Keyword++
			}
		}
	}

	t.logger.Debug("tagging complete",
		"candidates", res.Candidates,
		"tagged", res.Tagged,
		"keyword", res.Keyword,
		"failed_batches", res.FailedBatches,
	)
	return res, nil
}

func (t *Tagger) tagWithModel(ctx context.Context, batch []model.Question) (map[int]assignment, error) {
	user := buildUserPrompt(batch, t.allowed)
	key := CacheKey(t.model, systemMessage+"\n\n"+user)

	if t.cache != nil {
		data, ok, err := t.cache.Get(key)
		if err != nil {
			t.logger.Debug("cache read failed", "error", err)
		}
		if ok {
			if assigned, err := parseReply(string(data), len(batch)); err == nil {
				return assigned, nil
			}
		}
	}

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.1,
		N:           1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrInvalidResponse)
	}

	content := resp.Choices[0].Message.Content
	assigned, err := parseReply(content, len(batch))
	if err != nil {
		return nil, err
	}
	if t.cache != nil {
		if err := t.cache.Put(key, []byte(content)); err != nil {
			t.logger.Debug("cache write failed", "error", err)
		}
	}
	return assigned, nil
}

// normalizer cleans model output. A cases.Caser is not safe for concurrent
// use, so one is built per run.
type normalizer struct {
	title   cases.Caser
	fold    cases.Caser
	allowed map[string]string
}

func newNormalizer(allowed []string) *normalizer {
	n := &normalizer{
		title: cases.Title(language.English, cases.NoLower),
		fold:  cases.Fold(),
	}
	if len(allowed) > 0 {
		n.allowed = make(map[string]string, len(allowed))
		for _, a := range allowed {
			n.allowed[n.fold.String(strings.TrimSpace(a))] = a
		}
	}
	return n
}

// apply writes a's enrichment to q and reports whether anything was set.
func (n *normalizer) apply(q *model.Question, a assignment) bool {
	tags := n.tags(a.Tags)
	difficulty := n.title.String(strings.TrimSpace(a.Difficulty))
	skills := n.list(a.SkillTypes)
	if len(tags) == 0 && difficulty == "" && len(skills) == 0 {
		return false
	}
	q.Tags = tags
	q.Difficulty = difficulty
	q.SkillTypes = skills
	return true
}

func (n *normalizer) tags(in []string) []string {
	if n.allowed == nil {
		return n.list(in)
	}
	var out []string
	seen := make(map[string]bool)
	for _, tag := range in {
		canonical, ok := n.allowed[n.fold.String(strings.Join(strings.Fields(tag), " "))]
		if !ok || seen[canonical] {
			continue
		}
		seen[canonical] = true
		out = append(out, canonical)
	}
	return out
}

func (n *normalizer) list(in []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range in {
		s = n.title.String(strings.Join(strings.Fields(s), " "))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
