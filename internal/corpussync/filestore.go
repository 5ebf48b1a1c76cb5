package corpussync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/danielglinatsis/HSC-AI/internal/model"
)

// DefaultLockTimeout is how long a store lock waits for another run.
const DefaultLockTimeout = 10 * time.Second

// FileStore keeps the corpus in a single JSON file. Saves go to a temporary
// file in the same directory that is renamed over the target, so readers
// never see a partial corpus.
type FileStore struct {
	path        string
	lockTimeout time.Duration
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithLockTimeout sets how long Lock waits before giving up.
func WithLockTimeout(d time.Duration) FileStoreOption {
	return func(s *FileStore) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// NewFileStore returns a store backed by the JSON file at path.
func NewFileStore(path string, opts ...FileStoreOption) *FileStore {
	s := &FileStore{
		path:        path,
		lockTimeout: DefaultLockTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the corpus file path.
func (s *FileStore) Location() string {
	return s.path
}

// Load reads the corpus file. A missing file is an empty corpus.
func (s *FileStore) Load(_ context.Context) (*model.Corpus, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.NewCorpus(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}

	corpus := model.NewCorpus()
	if err := json.Unmarshal(data, corpus); err != nil {
		return nil, fmt.Errorf("failed to decode corpus file: %w", err)
	}
	if corpus.Records == nil {
		corpus.Records = []model.ExamRecord{}
	}
	return corpus, nil
}

// Save writes the corpus through a temporary file and renames it into
// place.
func (s *FileStore) Save(_ context.Context, corpus *model.Corpus) error {
	data, err := json.MarshalIndent(corpus, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode corpus: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create corpus directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary corpus file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath) //nolint:errcheck // best effort cleanup
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("failed to write corpus: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // sync error takes precedence
		return fmt.Errorf("failed to sync corpus: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close corpus: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace corpus file: %w", err)
	}
	committed = true
	return nil
}

// Lock creates an exclusive lock file next to the corpus. It waits up to
// the lock timeout for a concurrent run to finish.
func (s *FileStore) Lock(ctx context.Context) (func(), error) {
	return LockFile(ctx, s.path+".lock", s.lockTimeout)
}
