package corpussync

import (
	"context"

	"github.com/danielglinatsis/HSC-AI/internal/model"
)

// Store persists the corpus as a whole.
type Store interface {
	// Load returns the persisted corpus. A store that has never been saved
	// returns an empty corpus and no error.
	Load(ctx context.Context) (*model.Corpus, error)

	// Save replaces the persisted corpus atomically.
	Save(ctx context.Context, corpus *model.Corpus) error

	// Lock acquires exclusive write access. The returned function releases
	// it.
	Lock(ctx context.Context) (func(), error)

	// Location identifies the store in logs and errors.
	Location() string
}
