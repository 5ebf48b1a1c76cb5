package layout

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// boldFlag is the span flag bit marking a bold font in structured text dumps.
const boldFlag = 16

// dumpSpan mirrors one span of a structured text dump.
type dumpSpan struct {
	Text  string     `json:"text"`
	BBox  [4]float64 `json:"bbox"`
	Size  float64    `json:"size"`
	Flags int        `json:"flags"`
	Bold  *bool      `json:"bold,omitempty"`
	Font  string     `json:"font"`
}

type dumpLine struct {
	Spans []dumpSpan `json:"spans"`
}

type dumpBlock struct {
	Type  int        `json:"type"`
	Lines []dumpLine `json:"lines"`
}

type dumpPage struct {
	Index  int         `json:"index"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Blocks []dumpBlock `json:"blocks"`
}

type dumpDocument struct {
	Metadata map[string]string `json:"metadata"`
	Pages    []dumpPage        `json:"pages"`
}

// DumpRenderer reads JSON layout dumps.
type DumpRenderer struct{}

// NewDumpRenderer returns a DumpRenderer.
func NewDumpRenderer() *DumpRenderer {
	return &DumpRenderer{}
}

// Render reads and decodes the dump at path.
func (r *DumpRenderer) Render(_ context.Context, path string) (Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // exam directory is user-provided
	if err != nil {
		return Document{}, fmt.Errorf("failed to read layout dump: %w", err)
	}
	return DecodeDump(data)
}

// DecodeDump converts raw dump bytes into a Document.
// Non-text blocks (type != 0) are skipped. A page without an explicit index
// gets its 1-based position.
func DecodeDump(data []byte) (Document, error) {
	var raw dumpDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("failed to decode layout dump: %w", err)
	}

	doc := Document{
		Pages:    make([]Page, 0, len(raw.Pages)),
		Metadata: Metadata{},
	}
	for k, v := range raw.Metadata {
		doc.Metadata[k] = v
	}

	for i, rp := range raw.Pages {
		page := Page{
			Index:  rp.Index,
			Width:  rp.Width,
			Height: rp.Height,
		}
		if page.Index <= 0 {
			page.Index = i + 1
		}
		for _, rb := range rp.Blocks {
			if rb.Type != 0 {
				continue
			}
			block := Block{Lines: make([]Line, 0, len(rb.Lines))}
			for _, rl := range rb.Lines {
				line := Line{Spans: make([]Span, 0, len(rl.Spans))}
				for _, rs := range rl.Spans {
					bold := rs.Flags&boldFlag != 0
					if rs.Bold != nil {
						bold = *rs.Bold
					}
					line.Spans = append(line.Spans, Span{
						Text: rs.Text,
						BBox: BBox{X0: rs.BBox[0], Y0: rs.BBox[1], X1: rs.BBox[2], Y1: rs.BBox[3]},
						Size: rs.Size,
						Bold: bold,
						Font: rs.Font,
					})
				}
				block.Lines = append(block.Lines, line)
			}
			page.Blocks = append(page.Blocks, block)
		}
		doc.Pages = append(doc.Pages, page)
	}

	normalizeDocument(&doc)
	return doc, nil
}

// EncodeDump serializes doc in the dump shape accepted by DecodeDump.
func EncodeDump(doc Document) ([]byte, error) {
	raw := dumpDocument{
		Metadata: map[string]string(doc.Metadata),
		Pages:    make([]dumpPage, 0, len(doc.Pages)),
	}
	for _, p := range doc.Pages {
		rp := dumpPage{Index: p.Index, Width: p.Width, Height: p.Height}
		for _, b := range p.Blocks {
			rb := dumpBlock{}
			for _, l := range b.Lines {
				rl := dumpLine{}
				for _, s := range l.Spans {
					flags := 0
					if s.Bold {
						flags |= boldFlag
					}
					rl.Spans = append(rl.Spans, dumpSpan{
						Text:  s.Text,
						BBox:  [4]float64{s.BBox.X0, s.BBox.Y0, s.BBox.X1, s.BBox.Y1},
						Size:  s.Size,
						Flags: flags,
						Font:  s.Font,
					})
				}
				rb.Lines = append(rb.Lines, rl)
			}
			rp.Blocks = append(rp.Blocks, rb)
		}
		raw.Pages = append(raw.Pages, rp)
	}
	return json.MarshalIndent(raw, "", "  ")
}
