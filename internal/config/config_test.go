package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/danielglinatsis/HSC-AI/internal/extract"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default ExamDir is exams", func(t *testing.T) {
		t.Parallel()
		if cfg.ExamDir != "exams" {
			t.Errorf("expected ExamDir to be 'exams', got '%s'", cfg.ExamDir)
		}
	})

	t.Run("default StoreDir is the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.StoreDir != XDGDataDir() {
			t.Errorf("expected StoreDir to be %q, got %q", XDGDataDir(), cfg.StoreDir)
		}
	})

	t.Run("default StoreFormat is sqlite", func(t *testing.T) {
		t.Parallel()
		if cfg.StoreFormat != StoreFormatSQLite {
			t.Errorf("expected StoreFormat to be sqlite, got %q", cfg.StoreFormat)
		}
	})

	t.Run("default Concurrency is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.Concurrency != 4 {
			t.Errorf("expected Concurrency to be 4, got %d", cfg.Concurrency)
		}
	})

	t.Run("default layout thresholds match the extractor", func(t *testing.T) {
		t.Parallel()
		if cfg.Layout.LeftMargin != 80 || cfg.Layout.TopMargin != 50 || cfg.Layout.BottomMargin != 50 || cfg.Layout.MinFontSize != 8 {
			t.Errorf("unexpected layout defaults %+v", cfg.Layout)
		}
	})

	t.Run("default tagger is disabled", func(t *testing.T) {
		t.Parallel()
		if cfg.Tagger.Enabled {
			t.Error("expected tagger to be disabled")
		}
		if cfg.Tagger.Model != DefaultTaggerModel {
			t.Errorf("expected model %q, got %q", DefaultTaggerModel, cfg.Tagger.Model)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.ExamDir = "/srv/papers"
		cfg.StoreDir = "/srv/corpus"
		return cfg
	}

	testCases := []struct {
		name     string
		mutate   func(*Config)
		expected error
	}{
		{"valid config returns nil", func(*Config) {}, nil},
		{"json store is valid", func(c *Config) { c.StoreFormat = StoreFormatJSON }, nil},
		{"empty exam dir", func(c *Config) { c.ExamDir = "" }, ErrNoExamDir},
		{"empty store dir", func(c *Config) { c.StoreDir = "" }, ErrNoStoreDir},
		{"store dir equals exam dir", func(c *Config) { c.StoreDir = "/srv/papers/" }, ErrStoreInExamDir},
		{"unknown store format", func(c *Config) { c.StoreFormat = "pickle" }, ErrInvalidStoreFormat},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, ErrInvalidConcurrency},
		{"negative tagger batch", func(c *Config) { c.Tagger.BatchSize = -1 }, ErrInvalidBatchSize},
		{"negative margin", func(c *Config) { c.Layout.TopMargin = -1 }, extract.ErrInvalidMargin},
		{"bad pattern", func(c *Config) { c.Layout.QuestionPattern = "(" }, extract.ErrInvalidPattern},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.expected == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.expected) {
				t.Errorf("expected %v, got %v", tc.expected, err)
			}
		})
	}
}

// TestExtractOptions tests the mapping from layout settings to extractor
// options.
func TestExtractOptions(t *testing.T) {
	t.Parallel()

	t.Run("defaults produce the default extractor options", func(t *testing.T) {
		t.Parallel()

		got := NewConfig().ExtractOptions()
		if !reflect.DeepEqual(got, extract.DefaultOptions()) {
			t.Errorf("got %+v, expected %+v", got, extract.DefaultOptions())
		}
	})

	t.Run("overrides replace thresholds and boilerplate", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Layout.LeftMargin = 72
		cfg.Layout.TopMargin = 0
		cfg.Layout.Boilerplate = []string{"turn over"}
		cfg.Layout.QuestionPattern = `Q\d+`
		cfg.Layout.StopPhrase = "end of examination"

		got := cfg.ExtractOptions()
		if got.LeftMargin != 72 || got.TopMargin != 0 {
			t.Errorf("unexpected margins %+v", got)
		}
		if !reflect.DeepEqual(got.Boilerplate, []string{"turn over"}) {
			t.Errorf("unexpected boilerplate %v", got.Boilerplate)
		}
		if got.QuestionPattern != `Q\d+` {
			t.Errorf("unexpected pattern %q", got.QuestionPattern)
		}
		if got.StopPhrase != "end of examination" {
			t.Errorf("unexpected stop phrase %q", got.StopPhrase)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.hscai")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".hscai")
		content := `examDir: papers
storeDir: /var/lib/hscai
storeFormat: json
concurrency: 2
layout:
  topMargin: 0
  minFontSize: 9.5
  boilerplate:
    - "do not write in this area"
tagger:
  enabled: true
  model: gpt-4o
  cacheDir: /tmp/hscai-cache
  topics:
    Calculus:
      - derivative
      - integral
output:
  revisionDir: out
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		file, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		file.Apply(cfg)

		if cfg.ExamDir != "papers" || cfg.StoreDir != "/var/lib/hscai" || cfg.StoreFormat != StoreFormatJSON {
			t.Errorf("unexpected paths %q %q %q", cfg.ExamDir, cfg.StoreDir, cfg.StoreFormat)
		}
		if cfg.Concurrency != 2 {
			t.Errorf("expected concurrency 2, got %d", cfg.Concurrency)
		}
		if cfg.Layout.TopMargin != 0 {
			t.Errorf("explicit zero top margin must be kept, got %v", cfg.Layout.TopMargin)
		}
		if cfg.Layout.BottomMargin != 50 {
			t.Errorf("absent bottom margin must keep default, got %v", cfg.Layout.BottomMargin)
		}
		if cfg.Layout.MinFontSize != 9.5 {
			t.Errorf("expected min font size 9.5, got %v", cfg.Layout.MinFontSize)
		}
		if len(cfg.Layout.Boilerplate) != 1 {
			t.Errorf("expected 1 boilerplate phrase, got %v", cfg.Layout.Boilerplate)
		}
		if !cfg.Tagger.Enabled || cfg.Tagger.Model != "gpt-4o" {
			t.Errorf("unexpected tagger %+v", cfg.Tagger)
		}
		if cfg.Tagger.CacheDir != "/tmp/hscai-cache" {
			t.Errorf("unexpected cache dir %q", cfg.Tagger.CacheDir)
		}
		if !reflect.DeepEqual(cfg.Tagger.Topics["Calculus"], []string{"derivative", "integral"}) {
			t.Errorf("unexpected topics %v", cfg.Tagger.Topics)
		}
		if cfg.Output.RevisionDir != "out" {
			t.Errorf("unexpected revision dir %q", cfg.Output.RevisionDir)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".hscai")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestApplyExpandsAPIKey tests environment expansion of the API key.
func TestApplyExpandsAPIKey(t *testing.T) {
	t.Setenv("HSCAI_TEST_KEY", "sk-test-123")

	cfg := NewConfig()
	file := &File{Tagger: TaggerFile{APIKey: "$HSCAI_TEST_KEY"}}
	file.Apply(cfg)

	if cfg.Tagger.APIKey != "sk-test-123" {
		t.Errorf("expected expanded key, got %q", cfg.Tagger.APIKey)
	}
}

// TestLoad tests building the effective configuration.
func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("explicit missing file is an error", func(t *testing.T) {
		t.Parallel()

		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("explicit file is applied", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("concurrency: 7\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := Load(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Concurrency != 7 {
			t.Errorf("expected concurrency 7, got %d", cfg.Concurrency)
		}
		if cfg.ConfigFilePath != configPath {
			t.Errorf("expected config path %q, got %q", configPath, cfg.ConfigFilePath)
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("examDir: exams\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{
		"data":   XDGDataDir(),
		"config": XDGConfigDir(),
		"cache":  XDGCacheDir(),
	} {
		if dir == "" {
			t.Errorf("expected non-empty XDG %s dir", name)
		}
		if filepath.Base(dir) != AppName {
			t.Errorf("expected XDG %s dir to end in %q, got %q", name, AppName, dir)
		}
	}
}
