package layout

import (
	"strings"
)

// BBox is an axis-aligned bounding box with a top-left origin.
type BBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Union returns the smallest box containing both b and o.
func (b BBox) Union(o BBox) BBox {
	return BBox{
		X0: min(b.X0, o.X0),
		Y0: min(b.Y0, o.Y0),
		X1: max(b.X1, o.X1),
		Y1: max(b.Y1, o.Y1),
	}
}

// Span is a single styled, positioned run of text within a line.
type Span struct {
	Text string  `json:"text"`
	BBox BBox    `json:"bbox"`
	Size float64 `json:"size"`
	Bold bool    `json:"bold"`
	Font string  `json:"font,omitempty"`
}

// Blank reports whether the span carries no visible text.
func (s Span) Blank() bool {
	return strings.TrimSpace(s.Text) == ""
}

// Line is an ordered sequence of spans sharing a baseline.
type Line struct {
	Spans []Span `json:"spans"`
}

// VisibleSpans returns the spans of the line that are not blank, in order.
func (l Line) VisibleSpans() []Span {
	out := make([]Span, 0, len(l.Spans))
	for _, s := range l.Spans {
		if !s.Blank() {
			out = append(out, s)
		}
	}
	return out
}

// Text reconstructs the readable line: the text of every non-blank span
// concatenated in order with no separator, then stripped.
func (l Line) Text() string {
	var sb strings.Builder
	for _, s := range l.Spans {
		if s.Blank() {
			continue
		}
		sb.WriteString(s.Text)
	}
	return strings.TrimSpace(sb.String())
}

// Block is an ordered sequence of lines.
type Block struct {
	Lines []Line `json:"lines"`
}

// Page is one rendered page. Index is 1-based and includes the cover page.
type Page struct {
	Index  int     `json:"index"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height"`
	Blocks []Block `json:"blocks"`
}

// LineCount returns the number of lines across all blocks of the page.
func (p Page) LineCount() int {
	n := 0
	for _, b := range p.Blocks {
		n += len(b.Lines)
	}
	return n
}

// Metadata is document-level information reported by the renderer.
// Its content is opaque to extraction; only the title is ever consulted.
type Metadata map[string]string

// Title returns the document title, or the empty string.
func (m Metadata) Title() string {
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m["title"])
}

// Document is a rendered source file.
type Document struct {
	Pages    []Page   `json:"pages"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// Empty reports whether the document has no pages.
func (d Document) Empty() bool {
	return len(d.Pages) == 0
}
