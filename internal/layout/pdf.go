package layout

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Defaults used when grouping PDF glyph runs.
const (
	// DefaultLineTolerance is the maximum baseline difference, in points,
	// for two glyph runs to be placed on the same line.
	DefaultLineTolerance = 2.0

	// DefaultBlockGap is the vertical gap, as a multiple of the font size,
	// that separates one block from the next.
	DefaultBlockGap = 1.2

	// defaultPageWidth and defaultPageHeight are US Letter, used when a page
	// carries no readable MediaBox.
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// infoKeys are the document information entries copied into Metadata.
var infoKeys = []string{"Title", "Author", "Subject", "Creator", "Producer"}

// PDFRenderer renders PDF files into layout Documents.
type PDFRenderer struct {
	lineTolerance float64
	blockGap      float64
}

// PDFOption configures a PDFRenderer.
type PDFOption func(*PDFRenderer)

// WithLineTolerance sets the baseline tolerance used to group glyph runs into lines.
func WithLineTolerance(pt float64) PDFOption {
	return func(r *PDFRenderer) {
		if pt > 0 {
			r.lineTolerance = pt
		}
	}
}

// WithBlockGap sets the vertical gap factor that starts a new block.
func WithBlockGap(factor float64) PDFOption {
	return func(r *PDFRenderer) {
		if factor > 0 {
			r.blockGap = factor
		}
	}
}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer(opts ...PDFOption) *PDFRenderer {
	r := &PDFRenderer{
		lineTolerance: DefaultLineTolerance,
		blockGap:      DefaultBlockGap,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render opens path and converts every page.
// The PDF reader panics on some malformed streams; that is reported as an error.
func (r *PDFRenderer) Render(ctx context.Context, path string) (doc Document, err error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	defer func() {
		if rec := recover(); rec != nil {
			doc = Document{}
			err = fmt.Errorf("malformed pdf %s: %v", path, rec)
		}
	}()

	doc.Metadata = readInfo(reader)
	total := reader.NumPage()
	doc.Pages = make([]Page, 0, total)

	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return Document{}, err
		}

		p := reader.Page(i)
		if p.V.IsNull() {
			doc.Pages = append(doc.Pages, Page{Index: i, Width: defaultPageWidth, Height: defaultPageHeight})
			continue
		}

		width, height := pageSize(p)
		doc.Pages = append(doc.Pages, Page{
			Index:  i,
			Width:  width,
			Height: height,
			Blocks: r.buildBlocks(p.Content().Text, height),
		})
	}

	normalizeDocument(&doc)
	return doc, nil
}

// readInfo copies the document information dictionary into Metadata.
func readInfo(reader *pdf.Reader) Metadata {
	meta := Metadata{}
	info := reader.Trailer().Key("Info")
	if info.IsNull() {
		return meta
	}
	for _, key := range infoKeys {
		v := info.Key(key)
		if v.IsNull() {
			continue
		}
		if text := strings.TrimSpace(v.Text()); text != "" {
			meta[strings.ToLower(key)] = text
		}
	}
	return meta
}

// pageSize reads the page MediaBox, falling back to the parent node's box.
func pageSize(p pdf.Page) (float64, float64) {
	box := p.V.Key("MediaBox")
	if box.Len() != 4 {
		box = p.V.Key("Parent").Key("MediaBox")
	}
	if box.Len() != 4 {
		return defaultPageWidth, defaultPageHeight
	}
	w := box.Index(2).Float64() - box.Index(0).Float64()
	h := box.Index(3).Float64() - box.Index(1).Float64()
	if w <= 0 || h <= 0 {
		return defaultPageWidth, defaultPageHeight
	}
	return w, h
}

// glyph is a PDF text run converted to top-left coordinates.
type glyph struct {
	text string
	font string
	size float64
	x0   float64
	x1   float64
	base float64
}

type row struct {
	base   float64
	glyphs []glyph
}

// buildBlocks groups the page's text runs into spans, lines and blocks.
func (r *PDFRenderer) buildBlocks(texts []pdf.Text, pageHeight float64) []Block {
	rows := make([]*row, 0)
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		g := glyph{
			text: t.S,
			font: t.Font,
			size: t.FontSize,
			x0:   t.X,
			x1:   t.X + t.W,
			base: pageHeight - t.Y,
		}

		var target *row
		for i := len(rows) - 1; i >= 0; i-- {
			if math.Abs(rows[i].base-g.base) <= r.lineTolerance {
				target = rows[i]
				break
			}
		}
		if target == nil {
			target = &row{base: g.base}
			rows = append(rows, target)
		}
		target.glyphs = append(target.glyphs, g)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].base < rows[j].base })

	blocks := make([]Block, 0)
	var current *Block
	prevBottom := math.Inf(-1)
	for _, rw := range rows {
		sort.SliceStable(rw.glyphs, func(i, j int) bool { return rw.glyphs[i].x0 < rw.glyphs[j].x0 })
		line := rowToLine(rw)
		if len(line.Spans) == 0 {
			continue
		}
		top := line.Spans[0].BBox.Y0
		size := line.Spans[0].Size
		if current == nil || top-prevBottom > r.blockGap*size {
			blocks = append(blocks, Block{})
			current = &blocks[len(blocks)-1]
		}
		current.Lines = append(current.Lines, line)
		prevBottom = rw.base
	}
	return blocks
}

// rowToLine merges consecutive glyphs sharing a font and size into spans.
// A horizontal gap wider than a quarter of the font size becomes a space.
func rowToLine(rw *row) Line {
	var line Line
	var sb strings.Builder
	var cur *Span

	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = sb.String()
		line.Spans = append(line.Spans, *cur)
		cur = nil
		sb.Reset()
	}

	prevX1 := math.Inf(-1)
	for _, g := range rw.glyphs {
		gap := g.x0 - prevX1
		spaced := prevX1 != math.Inf(-1) && gap > g.size*0.25

		if cur == nil || cur.Font != g.font || cur.Size != g.size {
			flush()
			cur = &Span{
				BBox: BBox{X0: g.x0, Y0: g.base - g.size, X1: g.x1, Y1: g.base},
				Size: g.size,
				Bold: IsBoldFont(g.font),
				Font: g.font,
			}
		}
		if spaced {
			sb.WriteString(" ")
		}
		sb.WriteString(g.text)
		cur.BBox = cur.BBox.Union(BBox{X0: g.x0, Y0: g.base - g.size, X1: g.x1, Y1: g.base})
		prevX1 = g.x1
	}
	flush()
	return line
}

// IsBoldFont reports whether a PDF font name denotes a bold face.
func IsBoldFont(font string) bool {
	f := strings.ToLower(font)
	for _, marker := range []string{"bold", "black", "heavy", "semibold", "demi"} {
		if strings.Contains(f, marker) {
			return true
		}
	}
	return false
}
