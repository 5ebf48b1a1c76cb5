package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() while still printing a readable message.
var (
	// ErrNoExamDir is returned when no exam directory is configured.
	ErrNoExamDir = errors.New("no exam directory specified: set examDir or use --exam-dir")

	// ErrNoStoreDir is returned when no store directory is configured.
	ErrNoStoreDir = errors.New("no store directory specified: set storeDir or use --store-dir")

	// ErrStoreInExamDir is returned when the store directory is the exam
	// directory. The corpus file would otherwise be listed as a source.
	ErrStoreInExamDir = errors.New("store directory must differ from the exam directory")

	// ErrInvalidStoreFormat is returned for an unknown storeFormat value.
	ErrInvalidStoreFormat = errors.New("invalid store format: must be sqlite or json")

	// ErrInvalidConcurrency is returned when concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidBatchSize is returned when the tagger batch size is not
	// positive.
	ErrInvalidBatchSize = errors.New("invalid tagger batch size: must be positive")
)
