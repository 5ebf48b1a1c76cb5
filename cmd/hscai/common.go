package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danielglinatsis/HSC-AI/internal/config"
	"github.com/danielglinatsis/HSC-AI/internal/corpussync"
	"github.com/danielglinatsis/HSC-AI/internal/database"
	"github.com/danielglinatsis/HSC-AI/internal/extract"
	"github.com/danielglinatsis/HSC-AI/internal/layout"
	hlog "github.com/danielglinatsis/HSC-AI/internal/log"
	"github.com/danielglinatsis/HSC-AI/internal/pipeline"
)

// errSearchNeedsSQLite is returned by commands that query the search index
// while the corpus is kept in the JSON store.
var errSearchNeedsSQLite = errors.New("search requires the sqlite store (set storeFormat: sqlite)")

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// stringFlag returns the value of a flag that may be local or inherited.
func stringFlag(cmd *cobra.Command, name string) (string, bool) {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		f = cmd.Root().PersistentFlags().Lookup(name)
	}
	if f == nil || !f.Changed {
		return "", false
	}
	return f.Value.String(), true
}

// buildConfig loads the configuration file and applies the global flags on
// top of it.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := stringFlag(cmd, "config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if v, ok := stringFlag(cmd, "exam-dir"); ok {
		cfg.ExamDir = v
	}
	if v, ok := stringFlag(cmd, "store-dir"); ok {
		cfg.StoreDir = v
	}
	if v, ok := stringFlag(cmd, "store-format"); ok {
		cfg.StoreFormat = v
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// setupLogger creates the redacting stderr logger and installs it as the
// default. --log-json switches to JSON lines.
func setupLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	asJSON, err := cmd.Root().PersistentFlags().GetBool("log-json")
	if err != nil {
		asJSON = false
	}

	var logger *slog.Logger
	if asJSON {
		logger = hlog.NewJSONLogger(cmd.ErrOrStderr(), verbose)
	} else {
		logger = hlog.NewLogger(cmd.ErrOrStderr(), verbose)
	}
	slog.SetDefault(logger)
	return logger
}

// signalContext returns a context canceled on interrupt or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// openStore opens the corpus store selected by the configuration. The
// returned close function must be called when done.
func openStore(cfg *config.Config) (corpussync.Store, func() error, error) {
	switch cfg.StoreFormat {
	case config.StoreFormatJSON:
		return corpussync.NewFileStore(cfg.JSONStorePath()), func() error { return nil }, nil
	default:
		db, err := database.Open(cfg.StoreDir, database.DefaultOptions())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		return db, db.Close, nil
	}
}

// openSearchDB opens the SQLite store for commands that need the search
// index.
func openSearchDB(cfg *config.Config) (*database.CorpusDB, error) {
	if cfg.StoreFormat != config.StoreFormatSQLite {
		return nil, errSearchNeedsSQLite
	}
	db, err := database.Open(cfg.StoreDir, database.Options{EnableWAL: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open database (run 'hscai sync' first): %w", err)
	}
	return db, nil
}

// newPipelineFactory validates the layout settings once and returns a
// factory of exam pipelines sharing one extractor.
func newPipelineFactory(cfg *config.Config, logger *slog.Logger) (func() *pipeline.Pipeline, error) {
	extractor, err := extract.NewExtractor(cfg.ExtractOptions(), extract.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("invalid layout settings: %w", err)
	}
	renderer := layout.NewFileRenderer()

	return func() *pipeline.Pipeline {
		// The collaborators are checked above, so construction cannot fail.
		p, _ := pipeline.NewExamPipeline(pipeline.ExamPipelineConfig{ //nolint:errcheck // see above
			Renderer:  renderer,
			Extractor: extractor,
			Logger:    logger,
		})
		return p
	}, nil
}

// newSynchronizer wires a synchronizer for cfg around store.
func newSynchronizer(cfg *config.Config, store corpussync.Store, logger *slog.Logger) (*corpussync.Synchronizer, error) {
	factory, err := newPipelineFactory(cfg, logger)
	if err != nil {
		return nil, err
	}
	return corpussync.New(store, cfg.ExamDir, factory,
		corpussync.WithLogger(logger),
		corpussync.WithConcurrency(cfg.Concurrency),
	), nil
}
