package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for hscai.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hscai",
		Short: "Build a searchable question bank from HSC exam papers",
		Long: `hscai extracts individual questions from HSC exam papers and keeps them
in a persistent corpus.

Run 'hscai sync' to process new papers from the exam directory. Papers that
are already in the corpus are never re-extracted, so repeated runs are cheap.
The corpus can then be searched, tagged by topic and compiled into revision
PDFs.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .hscai in current or home directory)")
	cmd.PersistentFlags().StringP("exam-dir", "d", "",
		"Directory holding the exam papers (overrides the configuration file)")
	cmd.PersistentFlags().String("store-dir", "",
		"Directory holding the corpus (default: XDG data directory)")
	cmd.PersistentFlags().String("store-format", "",
		"Corpus store format: sqlite or json")

	// Add subcommands
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewQuestionsCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewInspectCmd())
	cmd.AddCommand(NewTagCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
