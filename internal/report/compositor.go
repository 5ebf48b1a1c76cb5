package report

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/danielglinatsis/HSC-AI/internal/layout"
	"github.com/danielglinatsis/HSC-AI/internal/model"
)

// Composition describes a revision PDF that was written.
type Composition struct {
	// Sections lists the resolved source files in output order.
	Sections []string

	// Questions is the number of questions typeset.
	Questions int

	// Unresolved lists exam labels with no matching file in the exam
	// directory. Their questions are left out.
	Unresolved []string
}

// PDFCompositor typesets questions into a revision PDF. Every question gets
// a red "Source: <file>" header naming the paper it came from.
type PDFCompositor struct {
	examDir string
	title   string
	logger  *slog.Logger
}

// CompositorOption configures a PDFCompositor.
type CompositorOption func(*PDFCompositor)

// WithCompositorLogger sets the logger used for unresolved exams.
func WithCompositorLogger(logger *slog.Logger) CompositorOption {
	return func(c *PDFCompositor) {
		c.logger = logger
	}
}

// WithTitle sets the document title printed on the first page.
func WithTitle(title string) CompositorOption {
	return func(c *PDFCompositor) {
		c.title = title
	}
}

// NewPDFCompositor creates a compositor that resolves exam labels against
// the files in examDir.
func NewPDFCompositor(examDir string, opts ...CompositorOption) *PDFCompositor {
	c := &PDFCompositor{
		examDir: examDir,
		title:   "Revision Questions",
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// section groups the questions of one source file.
type section struct {
	file      string
	questions []model.Question
}

// Compose writes the PDF for questions to w. Questions are grouped by
// source file in order of first appearance and sorted by page within a
// group.
func (c *PDFCompositor) Compose(w io.Writer, questions []model.Question) (Composition, error) {
	resolve, err := c.resolver()
	if err != nil {
		return Composition{}, err
	}

	var comp Composition
	var sections []*section
	byFile := make(map[string]*section)
	unresolved := make(map[string]bool)

	for _, q := range questions {
		file, ok := resolve(q.Exam)
		if !ok {
			if !unresolved[q.Exam] {
				unresolved[q.Exam] = true
				comp.Unresolved = append(comp.Unresolved, q.Exam)
				c.logger.Warn("no paper matches exam label", "exam", q.Exam, "dir", c.examDir)
			}
			continue
		}
		s, ok := byFile[file]
		if !ok {
			s = &section{file: file}
			byFile[file] = s
			sections = append(sections, s)
		}
		s.questions = append(s.questions, q)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(c.title, true)
	pdf.SetCreator("hscai", false)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, tr(c.title), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, s := range sections {
		slices.SortStableFunc(s.questions, func(a, b model.Question) int {
			return a.Page - b.Page
		})
		for _, q := range s.questions {
			writeQuestion(pdf, tr, s.file, q)
			comp.Questions++
		}
		comp.Sections = append(comp.Sections, s.file)
	}

	if comp.Questions == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 5, "No questions matched.", "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return comp, fmt.Errorf("failed to write PDF: %w", err)
	}
	return comp, nil
}

// ComposeFile writes the PDF for questions to path, creating parent
// directories as needed.
func (c *PDFCompositor) ComposeFile(path string, questions []model.Question) (Composition, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return Composition{}, fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path) //nolint:gosec // output path is chosen by the user
	if err != nil {
		return Composition{}, fmt.Errorf("failed to create %s: %w", path, err)
	}

	comp, err := c.Compose(f, questions)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close %s: %w", path, closeErr)
	}
	if err != nil {
		_ = os.Remove(path)
		return comp, err
	}
	return comp, nil
}

func writeQuestion(pdf *gofpdf.Fpdf, tr func(string) string, file string, q model.Question) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(255, 0, 0)
	pdf.CellFormat(0, 7, tr("Source: "+file), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	ref := "Page " + strconv.Itoa(q.Page)
	if len(q.Tags) > 0 {
		ref += "  |  " + strings.Join(q.Tags, ", ")
	}
	pdf.CellFormat(0, 5, tr(ref), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	for _, line := range strings.Split(q.Text, "\n") {
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
	pdf.Ln(6)
}

// resolver lists the exam directory and returns a lookup from an exam label
// to a filename: exact case-insensitive name first, then normalized name.
func (c *PDFCompositor) resolver() (func(label string) (string, bool), error) {
	entries, err := os.ReadDir(c.examDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list exam directory: %w", err)
	}

	exact := make(map[string]string)
	normalized := make(map[string]string)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !layout.IsSourceFile(name) {
			continue
		}
		if _, ok := exact[strings.ToLower(name)]; !ok {
			exact[strings.ToLower(name)] = name
		}
		key := model.NormalizeName(name)
		if _, ok := normalized[key]; !ok {
			normalized[key] = name
		}
	}

	return func(label string) (string, bool) {
		if f, ok := exact[strings.ToLower(label)]; ok {
			return f, true
		}
		f, ok := normalized[model.NormalizeName(label)]
		return f, ok
	}, nil
}
