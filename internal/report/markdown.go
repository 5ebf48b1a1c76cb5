package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// maxChartSlices bounds the tag pie chart; remaining tags are folded into
// "Other".
const maxChartSlices = 8

// MarkdownWriter outputs summaries as GitHub flavored Markdown with a tag
// distribution chart.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeExams(md, summary)
	w.writeTopics(md, summary)
	w.writeAlert(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with corpus totals.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, s *Summary) {
	md.H1("HSC Corpus Report")
	md.PlainText("")

	rows := [][]string{
		{"Generated", s.GeneratedAt.Format(timeLayout)},
		{"Exams", strconv.Itoa(len(s.Exams))},
		{"Questions", strconv.Itoa(s.Questions)},
		{"Tagged", strconv.Itoa(s.Tagged)},
	}
	if s.Store != "" {
		rows = append(rows, []string{"Store", "`" + s.Store + "`"})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeExams writes one table row per exam record.
func (w *MarkdownWriter) writeExams(md *markdown.Markdown, s *Summary) {
	md.H2("Exams")
	md.PlainText("")

	if len(s.Exams) == 0 {
		md.PlainText("No exams processed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(s.Exams))
	for i, e := range s.Exams {
		pages := "-"
		if e.Questions > 0 {
			pages = strconv.Itoa(e.FirstPage) + "-" + strconv.Itoa(e.LastPage)
		}
		title := e.Title
		if title == "" {
			title = "-"
		}
		rows[i] = []string{
			"`" + e.Exam + "`",
			truncateString(title, 40),
			strconv.Itoa(e.Questions),
			strconv.Itoa(e.Tagged),
			pages,
			string(e.Source),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Exam", "Title", "Questions", "Tagged", "Pages", "Source"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeTopics writes the tag table and pie chart.
func (w *MarkdownWriter) writeTopics(md *markdown.Markdown, s *Summary) {
	md.H2("Topics")
	md.PlainText("")

	if len(s.Tags) == 0 {
		md.PlainText("No tagged questions.")
		md.PlainText("")
		return
	}

	names := s.TagNames()
	rows := make([][]string, len(names))
	for i, name := range names {
		rows[i] = []string{name, strconv.Itoa(s.Tags[name])}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Topic", "Questions"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, s, names)

	if len(s.Difficulty) > 0 {
		levels := sortedKeys(s.Difficulty)
		items := make([]string, len(levels))
		for i, level := range levels {
			items[i] = level + ": " + strconv.Itoa(s.Difficulty[level])
		}
		md.H3("Difficulty")
		md.PlainText("")
		md.BulletList(items...)
		md.PlainText("")
	}
}

// writePieChart writes a mermaid pie chart of the most common tags.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s *Summary, names []string) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Questions by Topic"),
		piechart.WithShowData(true),
	)

	other := 0
	for i, name := range names {
		if i < maxChartSlices {
			chart.LabelAndIntValue(name, uint64(s.Tags[name])) //nolint:gosec // counts are non-negative
			continue
		}
		other += s.Tags[name]
	}
	if other > 0 {
		chart.LabelAndIntValue("Other", uint64(other)) //nolint:gosec // counts are non-negative
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert for sources that changed after processing.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, s *Summary) {
	changed := s.ChangedSources()
	switch {
	case len(changed) > 0:
		md.Warningf("%d source paper(s) changed or went missing since they were processed. They are not reprocessed automatically.", len(changed))
		md.PlainText("")
		items := make([]string, len(changed))
		for i, e := range changed {
			items[i] = "`" + e.Exam + "` (" + string(e.Source) + ")"
		}
		md.BulletList(items...)
	case s.EmptyExams() > 0:
		md.Notef("%d exam(s) produced no questions. Check them with `hscai inspect`.", s.EmptyExams())
	case s.Questions > 0 && s.Tagged < s.Questions:
		md.Tipf("%d question(s) are untagged. Run `hscai tag` to enrich them.", s.Questions-s.Tagged)
	default:
		md.Tip("Corpus is up to date.")
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by hscai*")
}

// truncateString truncates a string to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
