package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danielglinatsis/HSC-AI/internal/model"
)

// NewQuestionsCmd creates the questions command.
func NewQuestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions [exam] [number]",
		Short: "List exams or print the questions of one exam",
		Long: `Questions prints what the corpus holds.

Without arguments it lists every exam with its question count. With an exam
name it prints that exam's questions; names match the way sync matches them,
so case, hyphens and the .pdf extension do not matter. With a question
number it prints only the question whose text contains "Question <number>".

Examples:
  # List exams
  hscai questions

  # Print every question of a paper
  hscai questions 2023-hsc-maths-adv.pdf

  # Print Question 11 of a paper as JSON
  hscai questions "2023 hsc maths adv" 11 --json`,
		Args: cobra.MaximumNArgs(2),
		RunE: runQuestionsCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output questions as JSON")

	return cmd
}

// runQuestionsCmd executes the questions command.
func runQuestionsCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	setupLogger(cmd, cfg.Verbose)

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore() //nolint:errcheck // read-only

	corpus, err := store.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		return listExams(out, corpus, asJSON)
	}

	rec, ok := corpus.Lookup(args[0])
	if !ok {
		return fmt.Errorf("exam not found in corpus: %s", args[0])
	}

	questions := rec.Questions
	if len(args) == 2 {
		q, err := findQuestion(rec.Questions, args[1])
		if err != nil {
			return fmt.Errorf("%s: %w", rec.Exam, err)
		}
		questions = []model.Question{q}
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(questions)
	}
	for i, q := range questions {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printQuestion(out, q)
	}
	return nil
}

// errQuestionNotFound is returned when no question carries the requested
// number.
var errQuestionNotFound = errors.New("question not found")

// findQuestion returns the first question whose text contains
// "Question <number>" as whole words, case-insensitively.
func findQuestion(questions []model.Question, number string) (model.Question, error) {
	n, err := strconv.Atoi(number)
	if err != nil || n <= 0 {
		return model.Question{}, fmt.Errorf("invalid question number %q", number)
	}
	pattern := regexp.MustCompile(`(?i)\bQuestion\s+` + strconv.Itoa(n) + `\b`)
	for _, q := range questions {
		if pattern.MatchString(q.Text) {
			return q, nil
		}
	}
	return model.Question{}, fmt.Errorf("%w: Question %d", errQuestionNotFound, n)
}

// printQuestion writes one question in the plain format.
func printQuestion(out io.Writer, q model.Question) {
	fmt.Fprintf(out, "Exam: %s\n", q.Exam)
	fmt.Fprintf(out, "Page: %d\n", q.Page)
	if len(q.Tags) > 0 {
		fmt.Fprintf(out, "Tags: %v\n", q.Tags)
	}
	fmt.Fprintf(out, "\n%s\n", q.Text)
}

// listExams writes one line per record.
func listExams(out io.Writer, corpus *model.Corpus, asJSON bool) error {
	type examLine struct {
		Exam      string `json:"exam"`
		Questions int    `json:"questions"`
	}
	lines := make([]examLine, len(corpus.Records))
	for i, r := range corpus.Records {
		lines[i] = examLine{Exam: r.Exam, Questions: len(r.Questions)}
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(lines)
	}
	if len(lines) == 0 {
		fmt.Fprintln(out, "Corpus is empty. Run 'hscai sync' first.")
		return nil
	}
	for _, l := range lines {
		fmt.Fprintf(out, "%-50s %4d questions\n", l.Exam, l.Questions)
	}
	fmt.Fprintf(out, "\n%d exams, %d questions\n", corpus.Len(), corpus.QuestionCount())
	return nil
}
