package pipeline

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/minio/highwayhash"
)

// fingerprintKey is the fixed HighwayHash key. Changing it invalidates every
// stored checksum.
var fingerprintKey = []byte("hscai-source-fingerprint-key-v01")

// Fingerprint returns the hex-encoded 64-bit HighwayHash of r.
func Fingerprint(ctx context.Context, r io.Reader) (string, error) {
	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return "", fmt.Errorf("failed to create hash: %w", err)
	}

	buf := make([]byte, 64*1024)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read source: %w", err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// FingerprintFile returns the fingerprint of the file at path.
func FingerprintFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the configured exam directory
	if err != nil {
		return "", fmt.Errorf("failed to open source: %w", err)
	}
	defer f.Close()

	return Fingerprint(ctx, f)
}
