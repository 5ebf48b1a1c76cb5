// Package layout models a rendered exam paper as an ordered tree of
// pages, blocks, lines and spans, and provides the renderers that build
// that tree from source files.
//
// A Span is a positioned, styled run of text: its bounding box uses a
// top-left origin (y grows downwards), matching the coordinate system the
// extraction heuristics in package extract are tuned for.
//
// Two renderers are provided:
//   - PDFRenderer reads PDF files with github.com/ledongthuc/pdf and groups
//     glyph runs into spans, lines and blocks.
//   - DumpRenderer reads pre-rendered JSON layout dumps in the structured
//     text "dict" shape (pages → blocks → lines → spans, flags bit 16 = bold).
//
// FileRenderer dispatches on file extension so callers can mix both kinds
// of source in one exam directory.
package layout
