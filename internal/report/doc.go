// Package report renders the corpus for people.
//
// This package contains:
//   - Summary: per-exam counts, tag distribution and source change flags
//   - SimpleWriter: human-readable text output for terminal display
//   - JSONWriter: structured JSON output for tool integration
//   - MarkdownWriter: GitHub flavored Markdown with a topic pie chart
//   - PDFCompositor: a revision PDF of selected questions, each headed by the
//     paper it came from
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed with MultiWriter.
package report
