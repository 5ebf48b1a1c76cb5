package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielglinatsis/HSC-AI/internal/corpussync"
)

// NewSyncCmd creates the sync command.
func NewSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Extract questions from new papers in the exam directory",
		Long: `Sync compares the exam directory with the stored corpus and extracts
questions from every paper that is not yet in it.

Papers already in the corpus are never re-extracted, even if the file has
changed since. Use 'hscai report' to see which sources changed. A paper whose
name normalizes to an existing record (for example "2023-paper.pdf" and
"2023 paper.pdf") is skipped and reported.

Examples:
  # Sync the configured exam directory
  hscai sync

  # Sync a different directory into a JSON corpus
  hscai sync -d ./papers --store-format json`,
		Args: cobra.NoArgs,
		RunE: runSyncCmd,
	}
}

// runSyncCmd executes the sync command.
func runSyncCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd, cfg.Verbose)

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore() //nolint:errcheck // read-only after sync returns

	s, err := newSynchronizer(cfg, store, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Syncing %s into %s...\n", cfg.ExamDir, store.Location())
	result, err := s.Sync(ctx)
	if result != nil {
		printSyncResult(cmd.OutOrStdout(), result)
	}
	return err
}

// syncFunc adapts a synchronizer for the watcher, printing each result.
func syncFunc(s *corpussync.Synchronizer, out io.Writer) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		result, err := s.Sync(ctx)
		if result != nil {
			printSyncResult(out, result)
		}
		return err
	}
}

// printSyncResult writes a short summary of a sync run.
func printSyncResult(out io.Writer, r *corpussync.Result) {
	records := 0
	questions := 0
	if r.Corpus != nil {
		records = r.Corpus.Len()
		questions = r.Corpus.QuestionCount()
	}

	if r.LoadError != nil {
		fmt.Fprintf(out, "Warning: %v; started from an empty corpus\n", r.LoadError)
	}
	for _, f := range r.Shadowed {
		fmt.Fprintf(out, "Skipped %s: an exam with the same name is already in the corpus\n", f)
	}
	for _, e := range r.SourceErrors {
		fmt.Fprintf(out, "Unreadable: %s (recorded with no questions)\n", e.File)
	}

	switch {
	case len(r.Processed) == 0:
		fmt.Fprintf(out, "No new exams (%d sources, %d records, %d questions)\n",
			len(r.Sources), records, questions)
	case r.Written:
		fmt.Fprintf(out, "Added %d exam(s) with %d question(s) in %s (%d records, %d questions)\n",
			len(r.Processed), r.NewQuestions(), r.Elapsed.Round(time.Millisecond), records, questions)
	default:
		fmt.Fprintf(out, "Extracted %d exam(s) but the corpus was not saved\n", len(r.Processed))
	}
}
