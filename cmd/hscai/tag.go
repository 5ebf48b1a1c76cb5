package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/danielglinatsis/HSC-AI/internal/config"
	"github.com/danielglinatsis/HSC-AI/internal/tagger"
)

// NewTagCmd creates the tag command.
func NewTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Assign topic tags to untagged questions",
		Long: `Tag fills in topic tags, a difficulty label and skill types for every
question that has none, then saves the corpus. Question text is never
changed.

When the tagger is enabled in the configuration file and an API key is set,
questions are sent in batches to an OpenAI-compatible chat model. Replies
are cached, so re-running after an interruption does not repeat requests.
Otherwise, and for any batch the model fails on, tags come from the keyword
topics in the configuration file.

Configuration file (.hscai) example:
  tagger:
    enabled: true
    apiKey: $OPENAI_API_KEY
    syllabus: syllabus/maths-advanced.json
    topics:
      Trigonometry: [sin, cos, tan, radians]
      Statistics: [mean, standard deviation, normal distribution]`,
		Args: cobra.NoArgs,
		RunE: runTagCmd,
	}

	cmd.Flags().Bool("keywords-only", false, "Skip the model and tag by keywords only")
	cmd.Flags().Bool("dry-run", false, "Tag in memory and print counts without saving")

	return cmd
}

// runTagCmd executes the tag command.
func runTagCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd, cfg.Verbose)

	keywordsOnly, err := cmd.Flags().GetBool("keywords-only")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}

	t, err := newTagger(cfg, keywordsOnly, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore() //nolint:errcheck // saved explicitly below

	unlock, err := store.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to lock corpus store: %w", err)
	}
	defer unlock()

	corpus, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	res, err := t.Tag(ctx, corpus)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Tagged %d of %d untagged question(s)", res.Tagged, res.Candidates)
	if res.Keyword > 0 {
		fmt.Fprintf(out, " (%d by keyword)", res.Keyword)
	}
	fmt.Fprintln(out)
	if res.FailedBatches > 0 {
		fmt.Fprintf(out, "Warning: %d model request(s) failed; see the log for details\n", res.FailedBatches)
	}

	if dryRun || res.Tagged == 0 {
		return nil
	}
	if err := store.Save(ctx, corpus); err != nil {
		return fmt.Errorf("failed to save corpus: %w", err)
	}
	fmt.Fprintf(out, "Saved %s\n", store.Location())
	return nil
}

// newTagger builds a tagger from the tagger settings.
func newTagger(cfg *config.Config, keywordsOnly bool, logger *slog.Logger) (*tagger.Tagger, error) {
	opts := []tagger.Option{
		tagger.WithBatchSize(cfg.Tagger.BatchSize),
		tagger.WithKeywords(cfg.Tagger.Topics),
		tagger.WithLogger(logger),
	}

	if cfg.Tagger.Enabled && cfg.Tagger.APIKey != "" && !keywordsOnly {
		opts = append(opts, tagger.WithClient(
			tagger.NewOpenAIClient(cfg.Tagger.APIKey, cfg.Tagger.BaseURL),
			cfg.Tagger.Model,
		))
		if cfg.Tagger.CacheDir != "" {
			opts = append(opts, tagger.WithCache(tagger.NewCache(cfg.Tagger.CacheDir)))
		}
		logger.Debug("model tagging enabled", "model", cfg.Tagger.Model, "base_url", cfg.Tagger.BaseURL)
	}

	if cfg.Tagger.Syllabus != "" {
		topics, err := tagger.LoadSyllabus(cfg.Tagger.Syllabus)
		if err != nil {
			return nil, err
		}
		opts = append(opts, tagger.WithAllowedTopics(topics))
	}

	return tagger.New(opts...), nil
}
