package corpussync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const lockPollInterval = 50 * time.Millisecond

// LockFile takes an exclusive lock by creating path, which must not exist.
// The lock is held across processes until the returned function removes the
// file. It polls until timeout and returns ErrStoreLocked when another
// holder keeps the file.
func LockFile(ctx context.Context, path string, timeout time.Duration) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()

	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600) //nolint:gosec // lock path derives from the configured store
		if err == nil {
			_, _ = f.WriteString(strconv.Itoa(os.Getpid())) //nolint:errcheck // pid is informational
			_ = f.Close()                                   //nolint:errcheck // lock is held by existence
			return func() { _ = os.Remove(path) }, nil      //nolint:errcheck // best effort release
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrStoreLocked, path)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
