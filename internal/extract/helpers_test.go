package extract

import (
	"github.com/danielglinatsis/HSC-AI/internal/layout"
)

const testPageHeight = 842

// label builds a bold left-aligned question label span at vertical position y.
func label(text string, y float64) layout.Span {
	return layout.Span{
		Text: text,
		BBox: layout.BBox{X0: 40, Y0: y, X1: 110, Y1: y + 11},
		Size: 11,
		Bold: true,
		Font: "Arial-BoldMT",
	}
}

// body builds a regular body text span at vertical position y.
func body(text string, y float64) layout.Span {
	return layout.Span{
		Text: text,
		BBox: layout.BBox{X0: 60, Y0: y, X1: 400, Y1: y + 11},
		Size: 11,
		Font: "ArialMT",
	}
}

// testPage builds a page with one block per line, each line holding the
// given spans.
func testPage(index int, spans ...layout.Span) layout.Page {
	p := layout.Page{Index: index, Width: 595, Height: testPageHeight}
	for _, s := range spans {
		p.Blocks = append(p.Blocks, layout.Block{Lines: []layout.Line{{Spans: []layout.Span{s}}}})
	}
	return p
}

// coverPage returns a cover sheet that looks like it holds a question label.
func coverPage() layout.Page {
	return testPage(1, label("1", 100), body("Mathematics Advanced cover sheet", 130))
}

func testDocument(pages ...layout.Page) layout.Document {
	return layout.Document{Pages: append([]layout.Page{coverPage()}, pages...)}
}
