// Package layouttest builds synthetic exam paper layouts for tests.
package layouttest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danielglinatsis/HSC-AI/internal/layout"
)

// Page geometry of generated papers, in points.
const (
	PageWidth  = 595
	PageHeight = 842

	firstLineY  = 80
	lineSpacing = 24
	lastLineY   = 740
)

// Question is a labelled question with body lines.
type Question struct {
	Label string
	Body  []string
}

// Paper returns a document with a cover page followed by the questions laid
// out top to bottom, starting a new page when one is full. Labels are bold
// and left aligned; body lines are indented regular text.
func Paper(title string, questions ...Question) layout.Document {
	doc := layout.Document{
		Metadata: layout.Metadata{"title": title},
		Pages: []layout.Page{{
			Index:  1,
			Width:  PageWidth,
			Height: PageHeight,
			Blocks: []layout.Block{{Lines: []layout.Line{textLine(title, 60, 200, 16, true)}}},
		}},
	}

	page := newPage(2)
	y := float64(firstLineY)
	add := func(line layout.Line) {
		if y > lastLineY {
			doc.Pages = append(doc.Pages, page)
			page = newPage(page.Index + 1)
			y = firstLineY
		}
		for i := range line.Spans {
			line.Spans[i].BBox.Y0 = y
			line.Spans[i].BBox.Y1 = y + 11
		}
		page.Blocks = append(page.Blocks, layout.Block{Lines: []layout.Line{line}})
		y += lineSpacing
	}

	for _, q := range questions {
		add(textLine(q.Label, 40, 0, 11, true))
		for _, b := range q.Body {
			add(textLine(b, 60, 0, 11, false))
		}
	}
	doc.Pages = append(doc.Pages, page)
	return doc
}

func newPage(index int) layout.Page {
	return layout.Page{Index: index, Width: PageWidth, Height: PageHeight}
}

func textLine(text string, x0, y0, size float64, bold bool) layout.Line {
	font := "ArialMT"
	if bold {
		font = "Arial-BoldMT"
	}
	return layout.Line{Spans: []layout.Span{{
		Text: text,
		BBox: layout.BBox{X0: x0, Y0: y0, X1: x0 + float64(len(text))*size*0.5, Y1: y0 + size},
		Size: size,
		Bold: bold,
		Font: font,
	}}}
}

// WriteDump writes doc as a JSON layout dump named name inside dir and
// returns its path.
func WriteDump(tb testing.TB, dir, name string, doc layout.Document) string {
	tb.Helper()

	data, err := layout.EncodeDump(doc)
	if err != nil {
		tb.Fatalf("failed to encode layout dump: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		tb.Fatalf("failed to write layout dump: %v", err)
	}
	return path
}
