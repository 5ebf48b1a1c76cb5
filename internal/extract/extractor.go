package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/danielglinatsis/HSC-AI/internal/layout"
	"github.com/danielglinatsis/HSC-AI/internal/model"
)

// State is the extraction state of a document.
type State int

const (
	// Scanning means no question has started yet; lines are dropped.
	Scanning State = iota

	// Accumulating means a fragment is open and body lines are appended.
	Accumulating

	// Stopped means the end-of-paper line was seen; the rest of the document
	// is ignored.
	Stopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Scanning:
		return "scanning"
	case Accumulating:
		return "accumulating"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Trace counts what the state machine did with each line of a document.
type Trace struct {
	Pages            int   `json:"pages"`
	LinesSeen        int   `json:"lines_seen"`
	MarginDrops      int   `json:"margin_drops"`
	ScanningDrops    int   `json:"scanning_drops"`
	BoilerplateDrops int   `json:"boilerplate_drops"`
	DividerDrops     int   `json:"divider_drops"`
	ShortDrops       int   `json:"short_drops"`
	LinesKept        int   `json:"lines_kept"`
	Fragments        int   `json:"fragments"`
	Stopped          bool  `json:"stopped"`
	StoppedPage      int   `json:"stopped_page,omitempty"`
	DetectedPages    []int `json:"detected_pages,omitempty"`
}

// Extractor runs the question extraction state machine over documents.
// An Extractor is safe for concurrent use.
type Extractor struct {
	classifier  *Classifier
	margins     MarginFilter
	boilerplate *phraseMatcher
	stop        *phraseMatcher
	logger      *slog.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) ExtractorOption {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor builds an Extractor from opts.
func NewExtractor(opts Options, options ...ExtractorOption) (*Extractor, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	classifier, err := NewClassifier(opts)
	if err != nil {
		return nil, err
	}
	stop := opts.StopPhrase
	if strings.TrimSpace(stop) == "" {
		stop = DefaultStopPhrase
	}
	e := &Extractor{
		classifier:  classifier,
		margins:     MarginFilter{Top: opts.TopMargin, Bottom: opts.BottomMargin},
		boilerplate: newPhraseMatcher(opts.Boilerplate),
		stop:        newPhraseMatcher([]string{stop}),
		logger:      slog.Default(),
	}
	for _, opt := range options {
		opt(e)
	}
	return e, nil
}

// Extract returns the raw question fragments of doc in document order.
func (e *Extractor) Extract(doc layout.Document) []model.Fragment {
	frags, _ := e.ExtractWithTrace(doc)
	return frags
}

// ExtractWithTrace is Extract that also reports per-line counters.
func (e *Extractor) ExtractWithTrace(doc layout.Document) ([]model.Fragment, Trace) {
	r := &run{extractor: e}

	// The first page is the cover sheet.
	for i, page := range doc.Pages {
		if i == 0 {
			continue
		}
		r.page(page)
		if r.state == Stopped {
			break
		}
	}
	r.flush()

	e.logger.Debug("extracted fragments",
		"fragments", len(r.frags),
		"lines", r.trace.LinesSeen,
		"kept", r.trace.LinesKept,
		"stopped", r.trace.Stopped,
	)
	return r.frags, r.trace
}

// run holds the mutable state of one Extract call.
type run struct {
	extractor *Extractor
	state     State
	current   *model.Fragment
	frags     []model.Fragment
	trace     Trace
}

func (r *run) page(page layout.Page) {
	r.trace.Pages++
	detected := 0
	seen := false

	for _, block := range page.Blocks {
		for _, line := range block.Lines {
			spans := line.VisibleSpans()
			if len(spans) == 0 {
				continue
			}
			r.trace.LinesSeen++
			first := spans[0]
			text := line.Text()

			if r.extractor.margins.Discard(page.Height, first.BBox.Y0, first.BBox.Y1) {
				r.trace.MarginDrops++
				continue
			}

			if !seen {
				detected = DetectPageNumber(text, page.Index)
				seen = true
				r.trace.DetectedPages = append(r.trace.DetectedPages, detected)
			}

			r.line(first, text, detected)
			if r.state == Stopped {
				r.trace.StoppedPage = page.Index
				return
			}
		}
	}
}

func (r *run) line(first layout.Span, text string, pageNumber int) {
	if r.extractor.classifier.IsQuestionStart(first) {
		r.flush()
		r.current = &model.Fragment{Page: pageNumber, Lines: []string{text}}
		r.state = Accumulating
		r.trace.LinesKept++
		return
	}

	if r.state != Accumulating {
		r.trace.ScanningDrops++
		return
	}

	if _, ok := r.extractor.boilerplate.Match(text); ok {
		r.trace.BoilerplateDrops++
		return
	}
	if IsDivider(text) {
		r.trace.DividerDrops++
		return
	}
	if IsShort(text) {
		r.trace.ShortDrops++
		return
	}

	r.current.Lines = append(r.current.Lines, text)
	r.trace.LinesKept++

	if _, ok := r.extractor.stop.Match(text); ok {
		r.flush()
		r.state = Stopped
		r.trace.Stopped = true
	}
}

// flush emits the open fragment, if any.
func (r *run) flush() {
	if r.current == nil {
		return
	}
	r.frags = append(r.frags, *r.current)
	r.current = nil
	r.trace.Fragments++
}

// String summarizes the trace for log output.
func (t Trace) String() string {
	s := fmt.Sprintf("pages=%d lines=%d kept=%d fragments=%d", t.Pages, t.LinesSeen, t.LinesKept, t.Fragments)
	if t.Stopped {
		s += fmt.Sprintf(" stopped@%d", t.StoppedPage)
	}
	return s
}
