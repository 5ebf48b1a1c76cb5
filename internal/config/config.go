package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/danielglinatsis/HSC-AI/internal/extract"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "hscai"

	// DefaultExamDir is the directory scanned for source papers when none is
	// configured. It is resolved against the working directory.
	DefaultExamDir = "exams"

	// DefaultConcurrency is the number of new papers extracted in parallel.
	// Extraction is CPU bound, so a small number keeps memory use flat on
	// large PDFs.
	DefaultConcurrency = 4

	// StoreFormatSQLite keeps the corpus in a SQLite database with a search
	// index.
	StoreFormatSQLite = "sqlite"

	// StoreFormatJSON keeps the corpus in a single JSON document.
	StoreFormatJSON = "json"

	// JSONStoreFile is the corpus file name used by the JSON store.
	JSONStoreFile = "corpus.json"

	// DefaultTaggerModel is the chat model used by the tagger.
	DefaultTaggerModel = "gpt-4o-mini"

	// DefaultTaggerBatchSize is the number of questions sent per tagging
	// request.
	DefaultTaggerBatchSize = 10
)

// Config holds all configuration options for hscai.
// It is populated from defaults, then the configuration file, then CLI
// flags, and passed to commands explicitly rather than through globals.
type Config struct {
	// ExamDir is the directory holding the source papers.
	ExamDir string

	// StoreDir is the directory holding the persisted corpus.
	// Defaults to the XDG data directory (~/.local/share/hscai on Linux).
	StoreDir string

	// StoreFormat selects the corpus store: StoreFormatSQLite or
	// StoreFormatJSON.
	StoreFormat string

	// Concurrency is the number of new papers extracted in parallel.
	Concurrency int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .hscai in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// Layout holds the extraction thresholds.
	Layout LayoutConfig

	// Tagger configures question enrichment.
	Tagger TaggerConfig

	// Output configures generated artifacts.
	Output OutputConfig
}

// LayoutConfig holds the layout heuristics used by the extractor.
type LayoutConfig struct {
	LeftMargin      float64
	TopMargin       float64
	BottomMargin    float64
	MinFontSize     float64
	QuestionPattern string
	StopPhrase      string

	// Boilerplate replaces the default boilerplate phrase set when non-empty.
	Boilerplate []string
}

// TaggerConfig configures the tagger.
type TaggerConfig struct {
	// Enabled turns on the model-backed tagger. When false, or when no API
	// key is configured, tagging uses keyword matching only.
	Enabled bool

	// Model is the chat model name.
	Model string

	// BaseURL overrides the API endpoint for compatible servers.
	BaseURL string

	// APIKey authenticates against the API. Environment references such as
	// $OPENAI_API_KEY are expanded when the file is loaded.
	APIKey string

	// BatchSize is the number of questions sent per request.
	BatchSize int

	// Syllabus is an optional JSON file of major topics mapping to minor
	// topics. Its topic names form the allowed tag set.
	Syllabus string

	// Topics maps a tag to the keywords that select it in keyword mode.
	Topics map[string][]string

	// CacheDir holds cached model responses.
	CacheDir string
}

// OutputConfig configures generated artifacts.
type OutputConfig struct {
	// RevisionDir is where revision PDFs are written.
	RevisionDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	defaults := extract.DefaultOptions()
	return &Config{
		ExamDir:     DefaultExamDir,
		StoreDir:    XDGDataDir(),
		StoreFormat: StoreFormatSQLite,
		Concurrency: DefaultConcurrency,
		Layout: LayoutConfig{
			LeftMargin:      defaults.LeftMargin,
			TopMargin:       defaults.TopMargin,
			BottomMargin:    defaults.BottomMargin,
			MinFontSize:     defaults.MinFontSize,
			QuestionPattern: defaults.QuestionPattern,
			StopPhrase:      defaults.StopPhrase,
		},
		Tagger: TaggerConfig{
			Model:     DefaultTaggerModel,
			BatchSize: DefaultTaggerBatchSize,
			CacheDir:  filepath.Join(XDGCacheDir(), "tagger"),
		},
		Output: OutputConfig{
			RevisionDir: filepath.Join(XDGDataDir(), "revisions"),
		},
	}
}

// XDGDataDir returns the XDG data directory for hscai.
// On Linux: ~/.local/share/hscai
// On macOS: ~/Library/Application Support/hscai
// On Windows: %LOCALAPPDATA%\hscai
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for hscai.
// On Linux: ~/.config/hscai
// On macOS: ~/Library/Application Support/hscai
// On Windows: %APPDATA%\hscai
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for hscai.
// On Linux: ~/.cache/hscai
// On macOS: ~/Library/Caches/hscai
// On Windows: %LOCALAPPDATA%\hscai\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// ExtractOptions builds the extractor options from the layout settings.
func (c *Config) ExtractOptions() extract.Options {
	opts := extract.DefaultOptions()
	opts.LeftMargin = c.Layout.LeftMargin
	opts.TopMargin = c.Layout.TopMargin
	opts.BottomMargin = c.Layout.BottomMargin
	opts.MinFontSize = c.Layout.MinFontSize
	if c.Layout.QuestionPattern != "" {
		opts.QuestionPattern = c.Layout.QuestionPattern
	}
	if len(c.Layout.Boilerplate) > 0 {
		opts.Boilerplate = append([]string(nil), c.Layout.Boilerplate...)
	}
	if c.Layout.StopPhrase != "" {
		opts.StopPhrase = c.Layout.StopPhrase
	}
	return opts
}

// JSONStorePath returns the corpus file used by the JSON store.
func (c *Config) JSONStorePath() string {
	return filepath.Join(c.StoreDir, JSONStoreFile)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if c.ExamDir == "" {
		return ErrNoExamDir
	}
	if c.StoreDir == "" {
		return ErrNoStoreDir
	}
	if sameDir(c.ExamDir, c.StoreDir) {
		return ErrStoreInExamDir
	}
	switch c.StoreFormat {
	case StoreFormatSQLite, StoreFormatJSON:
	default:
		return ErrInvalidStoreFormat
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Tagger.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if err := c.ExtractOptions().Validate(); err != nil {
		return err
	}
	return nil
}

// sameDir reports whether a and b name the same directory after cleaning.
func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
