// Package thumbs caches story thumbnail images so the new-tab page can
// serve them without refetching from the original site. Keys are
// derived from the story URL, so repeated rows share one cached image.
package thumbs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when no thumbnail is cached for a key.
var ErrNotFound = errors.New("thumbs: not found")

// ErrTooLarge is returned when an image exceeds the size limit.
var ErrTooLarge = errors.New("thumbs: image too large")

// Store is the interface for thumbnail storage backends.
type Store interface {
	// Put caches a thumbnail under the given key.
	Put(ctx context.Context, key, contentType string, r io.Reader) error

	// Get returns a cached thumbnail. The caller closes it.
	Get(ctx context.Context, key string) (*Thumb, error)

	// Delete removes a cached thumbnail. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Cleanup removes thumbnails older than maxAge.
	Cleanup(ctx context.Context, maxAge time.Duration) error
}

// Thumb is one cached thumbnail.
type Thumb struct {
	Key         string
	ContentType string
	Size        int64

	// Reader provides the image bytes.
	Reader io.ReadCloser
}

// Close closes the underlying reader.
func (t *Thumb) Close() error {
	if t.Reader != nil {
		return t.Reader.Close()
	}
	return nil
}

// KeyFor derives the cache key for a story URL.
func KeyFor(storyURL string) string {
	sum := sha256.Sum256([]byte(storyURL))
	return hex.EncodeToString(sum[:16])
}
