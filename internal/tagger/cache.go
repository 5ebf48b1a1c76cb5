package tagger

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/sha3"
)

// Cache stores model responses on disk keyed by a digest of the model name
// and prompt.
type Cache struct {
	dir string
}

// NewCache returns a cache rooted at dir. The directory is created on first
// write.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// CacheKey returns the hex SHA3-256 digest of model and prompt.
func CacheKey(model, prompt string) string {
	sum := sha3.Sum256([]byte(model + "\n\n" + prompt))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Get returns the cached response for key. A missing entry is not an error.
func (c *Cache) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(c.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return data, true, nil
}

// Put stores data under key.
func (c *Cache) Put(key string, data []byte) error {
	if err := os.MkdirAll(c.dir, 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(c.path(key), data, 0600); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}
