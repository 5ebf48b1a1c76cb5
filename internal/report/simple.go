package report

import (
	"fmt"
	"io"
	"strings"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// SimpleWriter outputs human-readable text reports for the terminal.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether empty sections are shown.
	showEmpty bool

	// verbose adds per-exam page ranges and processing times.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeExams(&sb, summary)
	w.writeTags(&sb, summary)
	w.writeChanged(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeHeader writes the report header with corpus totals.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, s *Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          HSC CORPUS REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Generated:  %s\n", s.GeneratedAt.Format(timeLayout))
	if s.Store != "" {
		fmt.Fprintf(sb, "Store:      %s\n", s.Store)
	}
	if s.ExamDir != "" {
		fmt.Fprintf(sb, "Exam dir:   %s\n", s.ExamDir)
	}
	fmt.Fprintf(sb, "Exams:      %d (%d without questions)\n", len(s.Exams), s.EmptyExams())
	fmt.Fprintf(sb, "Questions:  %d (%d tagged)\n", s.Questions, s.Tagged)
	sb.WriteString("\n")
}

// writeExams lists every exam record.
func (w *SimpleWriter) writeExams(sb *strings.Builder, s *Summary) {
	if len(s.Exams) == 0 && !w.showEmpty {
		return
	}
	writeSection(sb, "EXAMS")

	if len(s.Exams) == 0 {
		sb.WriteString("  No exams processed\n\n")
		return
	}
	for _, e := range s.Exams {
		fmt.Fprintf(sb, "  [%s] %s: %d questions\n", sourceIndicator(e.Source), e.Exam, e.Questions)
		if e.Title != "" {
			fmt.Fprintf(sb, "    Title: %s\n", e.Title)
		}
		if w.verbose {
			if e.Questions > 0 {
				fmt.Fprintf(sb, "    Pages: %d-%d\n", e.FirstPage, e.LastPage)
			}
			if !e.ProcessedAt.IsZero() {
				fmt.Fprintf(sb, "    Processed: %s\n", e.ProcessedAt.Format(timeLayout))
			}
		}
	}
	sb.WriteString("\n")
}

// writeTags writes tag and difficulty counts.
func (w *SimpleWriter) writeTags(sb *strings.Builder, s *Summary) {
	if len(s.Tags) == 0 && len(s.Difficulty) == 0 && !w.showEmpty {
		return
	}
	writeSection(sb, "TOPICS")

	if len(s.Tags) == 0 {
		sb.WriteString("  No tagged questions\n")
	}
	for _, name := range s.TagNames() {
		fmt.Fprintf(sb, "  %-40s %d\n", name, s.Tags[name])
	}
	for _, level := range sortedKeys(s.Difficulty) {
		fmt.Fprintf(sb, "  Difficulty %-29s %d\n", level, s.Difficulty[level])
	}
	sb.WriteString("\n")
}

// writeChanged lists sources that differ from what was processed.
func (w *SimpleWriter) writeChanged(sb *strings.Builder, s *Summary) {
	changed := s.ChangedSources()
	if len(changed) == 0 && !w.showEmpty {
		return
	}
	writeSection(sb, "SOURCE CHANGES")

	if len(changed) == 0 {
		sb.WriteString("  All sources match their stored checksums\n\n")
		return
	}
	for _, e := range changed {
		fmt.Fprintf(sb, "  * %s (%s)\n", e.Exam, e.Source)
	}
	sb.WriteString("\n  Changed papers are not reprocessed automatically.\n\n")
}

func sourceIndicator(status SourceStatus) string {
	switch status {
	case SourceUnchanged:
		return "ok"
	case SourceChanged:
		return "!!"
	case SourceMissing:
		return "--"
	default:
		return "??"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by hscai\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
