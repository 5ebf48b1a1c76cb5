package config

import "os"

// LayoutFile is the layout section of the configuration file.
// Pointer fields distinguish an explicit zero from an absent key.
type LayoutFile struct {
	LeftMargin      *float64 `yaml:"leftMargin,omitempty"`
	TopMargin       *float64 `yaml:"topMargin,omitempty"`
	BottomMargin    *float64 `yaml:"bottomMargin,omitempty"`
	MinFontSize     *float64 `yaml:"minFontSize,omitempty"`
	QuestionPattern string   `yaml:"questionPattern,omitempty"`
	StopPhrase      string   `yaml:"stopPhrase,omitempty"`
	Boilerplate     []string `yaml:"boilerplate,omitempty"`
}

// TaggerFile is the tagger section of the configuration file.
type TaggerFile struct {
	Enabled   bool                `yaml:"enabled,omitempty"`
	Model     string              `yaml:"model,omitempty"`
	BaseURL   string              `yaml:"baseURL,omitempty"`
	APIKey    string              `yaml:"apiKey,omitempty"`
	BatchSize int                 `yaml:"batchSize,omitempty"`
	Syllabus  string              `yaml:"syllabus,omitempty"`
	Topics    map[string][]string `yaml:"topics,omitempty"`
	CacheDir  string              `yaml:"cacheDir,omitempty"`
}

// OutputFile is the output section of the configuration file.
type OutputFile struct {
	RevisionDir string `yaml:"revisionDir,omitempty"`
}

// File represents the structure of the .hscai configuration file.
type File struct {
	ExamDir     string     `yaml:"examDir,omitempty"`
	StoreDir    string     `yaml:"storeDir,omitempty"`
	StoreFormat string     `yaml:"storeFormat,omitempty"`
	Concurrency int        `yaml:"concurrency,omitempty"`
	Layout      LayoutFile `yaml:"layout,omitempty"`
	Tagger      TaggerFile `yaml:"tagger,omitempty"`
	Output      OutputFile `yaml:"output,omitempty"`
}

// Apply overrides c with every value set in f. Unset keys keep the value
// already in c.
func (f *File) Apply(c *Config) {
	if f.ExamDir != "" {
		c.ExamDir = f.ExamDir
	}
	if f.StoreDir != "" {
		c.StoreDir = f.StoreDir
	}
	if f.StoreFormat != "" {
		c.StoreFormat = f.StoreFormat
	}
	if f.Concurrency != 0 {
		c.Concurrency = f.Concurrency
	}

	if f.Layout.LeftMargin != nil {
		c.Layout.LeftMargin = *f.Layout.LeftMargin
	}
	if f.Layout.TopMargin != nil {
		c.Layout.TopMargin = *f.Layout.TopMargin
	}
	if f.Layout.BottomMargin != nil {
		c.Layout.BottomMargin = *f.Layout.BottomMargin
	}
	if f.Layout.MinFontSize != nil {
		c.Layout.MinFontSize = *f.Layout.MinFontSize
	}
	if f.Layout.QuestionPattern != "" {
		c.Layout.QuestionPattern = f.Layout.QuestionPattern
	}
	if f.Layout.StopPhrase != "" {
		c.Layout.StopPhrase = f.Layout.StopPhrase
	}
	if len(f.Layout.Boilerplate) > 0 {
		c.Layout.Boilerplate = f.Layout.Boilerplate
	}

	if f.Tagger.Enabled {
		c.Tagger.Enabled = true
	}
	if f.Tagger.Model != "" {
		c.Tagger.Model = f.Tagger.Model
	}
	if f.Tagger.BaseURL != "" {
		c.Tagger.BaseURL = f.Tagger.BaseURL
	}
	if f.Tagger.APIKey != "" {
		c.Tagger.APIKey = os.ExpandEnv(f.Tagger.APIKey)
	}
	if f.Tagger.BatchSize != 0 {
		c.Tagger.BatchSize = f.Tagger.BatchSize
	}
	if f.Tagger.Syllabus != "" {
		c.Tagger.Syllabus = f.Tagger.Syllabus
	}
	if f.Tagger.CacheDir != "" {
		c.Tagger.CacheDir = f.Tagger.CacheDir
	}
	if len(f.Tagger.Topics) > 0 {
		if c.Tagger.Topics == nil {
			c.Tagger.Topics = make(map[string][]string, len(f.Tagger.Topics))
		}
		for k, v := range f.Tagger.Topics {
			c.Tagger.Topics[k] = v
		}
	}

	if f.Output.RevisionDir != "" {
		c.Output.RevisionDir = f.Output.RevisionDir
	}
}
