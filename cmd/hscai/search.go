package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/danielglinatsis/HSC-AI/internal/database"
	"github.com/danielglinatsis/HSC-AI/internal/model"
	"github.com/danielglinatsis/HSC-AI/internal/report"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the corpus and optionally compile a revision PDF",
		Long: `Search ranks every stored question against the query with BM25 over the
question text and its topic tags. It requires the sqlite store.

With --pdf the matching questions are typeset into a revision PDF, grouped
by source paper, each under a "Source: <paper>" header.

Examples:
  # Show the best matches
  hscai search "integration by substitution"

  # Compile the top 10 matches into a PDF
  hscai search "geometric series" --limit 10 --pdf

  # Choose where the PDF goes
  hscai search "normal distribution" --pdf -o stats.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearchCmd,
	}

	cmd.Flags().IntP("limit", "n", database.DefaultSearchLimit,
		"Maximum number of results")
	cmd.Flags().BoolP("json", "j", false,
		"Output results as JSON")
	cmd.Flags().BoolP("pdf", "p", false,
		"Compile the results into a revision PDF")
	cmd.Flags().StringP("output", "o", "",
		"PDF output path (default: <revisionDir>/<query>.pdf)")

	return cmd
}

// searchResult is the JSON form of a hit.
type searchResult struct {
	Score    float64        `json:"score"`
	Snippet  string         `json:"snippet"`
	Question model.Question `json:"question"`
}

// runSearchCmd executes the search command.
func runSearchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd, cfg.Verbose)

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	compile, err := cmd.Flags().GetBool("pdf")
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	db, err := openSearchDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	query := strings.Join(args, " ")
	hits, err := db.Search(cmd.Context(), query, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		results := make([]searchResult, len(hits))
		for i, h := range hits {
			results[i] = searchResult{Score: h.Score, Snippet: h.Snippet, Question: h.Question}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		printHits(out, hits)
		if len(hits) == 0 {
			if stats, err := db.Stats(cmd.Context()); err == nil {
				fmt.Fprintf(out, "Searched %d question(s) from %d exam(s), %d tagged.\n",
					stats.Questions, stats.Exams, stats.Tagged)
			}
		}
	}

	if !compile || len(hits) == 0 {
		return nil
	}

	if outputPath == "" {
		outputPath = filepath.Join(cfg.Output.RevisionDir, slug(query)+".pdf")
	}
	questions := make([]model.Question, len(hits))
	for i, h := range hits {
		questions[i] = h.Question
	}

	compositor := report.NewPDFCompositor(cfg.ExamDir,
		report.WithTitle("Revision: "+query),
		report.WithCompositorLogger(logger),
	)
	comp, err := compositor.ComposeFile(outputPath, questions)
	if err != nil {
		return err
	}
	for _, label := range comp.Unresolved {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: no paper in %s matches %s; its questions were left out\n", cfg.ExamDir, label)
	}
	fmt.Fprintf(out, "Wrote %d question(s) from %d paper(s) to %s\n", comp.Questions, len(comp.Sections), outputPath)
	return nil
}

// printHits writes a ranked list of hits.
func printHits(out io.Writer, hits []database.Hit) {
	if len(hits) == 0 {
		fmt.Fprintln(out, "No matches.")
		return
	}
	for i, h := range hits {
		fmt.Fprintf(out, "%2d. %s, page %d (score %.2f)\n", i+1, h.Question.Exam, h.Question.Page, h.Score)
		fmt.Fprintf(out, "    %s\n", strings.Join(strings.Fields(h.Snippet), " "))
	}
}

// slug turns a query into a file name.
func slug(s string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(sb.String(), "-")
	if name == "" {
		return "revision"
	}
	return name
}
