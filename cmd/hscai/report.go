package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danielglinatsis/HSC-AI/internal/report"
)

// Report formats accepted by --format.
const (
	formatText     = "text"
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize the corpus",
		Long: `Report summarizes the stored corpus: questions per exam, tag and
difficulty counts, and which source papers changed or disappeared since they
were processed. Changed papers are only reported, never reprocessed.

Examples:
  # Terminal report
  hscai report

  # Markdown report with a topic chart
  hscai report -f markdown -o corpus.md

  # JSON for other tools
  hscai report -f json`,
		Args: cobra.NoArgs,
		RunE: runReportCmd,
	}

	cmd.Flags().StringP("format", "f", formatText,
		"Output format: text, markdown or json")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("show-empty", false,
		"Show empty sections in the text report")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd, cfg.Verbose)

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	showEmpty, err := cmd.Flags().GetBool("show-empty")
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

	summary, err := report.NewSummary(cmd.Context(), corpus, report.SummaryOptions{
		ExamDir: cfg.ExamDir,
		Store:   store.Location(),
	})
	if err != nil {
		// The summary is complete; unreadable sources are marked unknown.
		logger.Warn("some sources could not be checked", "error", err)
	}

	output := cmd.OutOrStdout()
	if outputPath != "" {
		f, err := createReportFile(outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		output = f
	}

	writer, err := newReportWriter(format, output, showEmpty, cfg.Verbose)
	if err != nil {
		return err
	}
	_, err = writer.Write(summary)
	return err
}

// errUnknownFormat is returned for an unsupported --format value.
var errUnknownFormat = errors.New("unknown report format")

// newReportWriter returns the writer for format.
func newReportWriter(format string, output io.Writer, showEmpty, verbose bool) (report.Writer, error) {
	switch format {
	case formatText, "":
		return report.NewSimpleWriter(output,
			report.WithShowEmpty(showEmpty),
			report.WithVerbose(verbose),
		), nil
	case formatMarkdown, "md":
		return report.NewMarkdownWriter(output), nil
	case formatJSON:
		return report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion())), nil
	default:
		return nil, fmt.Errorf("%w: %q (use text, markdown or json)", errUnknownFormat, format)
	}
}

// createReportFile creates path and its parent directories.
func createReportFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // output path is chosen by the user
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}
