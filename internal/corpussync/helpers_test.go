package corpussync

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/danielglinatsis/HSC-AI/internal/extract"
	"github.com/danielglinatsis/HSC-AI/internal/layout"
	"github.com/danielglinatsis/HSC-AI/internal/layout/layouttest"
	"github.com/danielglinatsis/HSC-AI/internal/model"
	"github.com/danielglinatsis/HSC-AI/internal/pipeline"
)

var testNow = time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFactory returns a pipeline factory over the built-in renderers with a
// fixed clock.
func newFactory(t *testing.T) func() *pipeline.Pipeline {
	t.Helper()

	extractor, err := extract.NewExtractor(extract.DefaultOptions())
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}
	renderer := layout.NewFileRenderer()
	return func() *pipeline.Pipeline {
		p, err := pipeline.NewExamPipeline(pipeline.ExamPipelineConfig{
			Renderer:  renderer,
			Extractor: extractor,
			Logger:    discardLogger(),
			Now:       func() time.Time { return testNow },
		})
		if err != nil {
			panic(err)
		}
		return p
	}
}

// samplePaper returns a two question paper.
func samplePaper(year string) layout.Document {
	return layouttest.Paper(year+" Mathematics Advanced",
		layouttest.Question{Label: "1", Body: []string{"Which expression is equal to " + year + "?"}},
		layouttest.Question{Label: "Question 11", Body: []string{"Differentiate the function f(x) = x^3."}},
	)
}

// memStore is an in-memory Store with injectable failures.
type memStore struct {
	mu      sync.Mutex
	corpus  *model.Corpus
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load(context.Context) (*model.Corpus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.corpus == nil {
		return model.NewCorpus(), nil
	}
	c := *m.corpus
	c.Records = append([]model.ExamRecord(nil), m.corpus.Records...)
	return &c, nil
}

func (m *memStore) Save(_ context.Context, c *model.Corpus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.corpus = c
	return nil
}

func (m *memStore) Lock(context.Context) (func(), error) {
	return func() {}, nil
}

func (m *memStore) Location() string {
	return "memory"
}
