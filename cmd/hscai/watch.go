package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielglinatsis/HSC-AI/internal/watch"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Sync whenever papers are added to the exam directory",
		Long: `Watch runs a sync, then keeps running and syncs again shortly after a
paper is created or written in the exam directory. Removing a paper does not
change the corpus.

Stop with Ctrl+C.

Examples:
  hscai watch
  hscai watch --debounce 5s`,
		Args: cobra.NoArgs,
		RunE: runWatchCmd,
	}

	cmd.Flags().Duration("debounce", watch.DefaultDebounce,
		"Quiet period after the last change before syncing")

	return cmd
}

// runWatchCmd executes the watch command.
func runWatchCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd, cfg.Verbose)

	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore() //nolint:errcheck // nothing to flush

	s, err := newSynchronizer(cfg, store, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", cfg.ExamDir)
	w := watch.New(cfg.ExamDir, syncFunc(s, cmd.OutOrStdout()),
		watch.WithDebounce(debounce),
		watch.WithInitialSync(true),
		watch.WithLogger(logger),
	)
	return w.Run(ctx)
}
