package thumbs

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DiskStore caches thumbnails on the local filesystem. This is the
// default backend.
type DiskStore struct {
	dir      string
	maxBytes int64

	mu   sync.RWMutex
	meta map[string]*diskMeta
}

type diskMeta struct {
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewDiskStore creates a disk-backed store rooted at dir.
// maxBytes caps a single image (0 = no limit).
func NewDiskStore(dir string, maxBytes int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DiskStore{
		dir:      dir,
		maxBytes: maxBytes,
		meta:     make(map[string]*diskMeta),
	}, nil
}

// Put implements Store.
func (s *DiskStore) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(s.dir, key)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := r
	if s.maxBytes > 0 {
		reader = io.LimitReader(r, s.maxBytes+1) // +1 to detect overflow
	}

	written, err := io.Copy(f, reader)
	if err != nil {
		os.Remove(path)
		return err
	}
	if s.maxBytes > 0 && written > s.maxBytes {
		os.Remove(path)
		return ErrTooLarge
	}

	meta := &diskMeta{
		ContentType: contentType,
		Size:        written,
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	s.meta[key] = meta
	s.mu.Unlock()

	return s.saveMeta(key, meta)
}

// Get implements Store.
func (s *DiskStore) Get(ctx context.Context, key string) (*Thumb, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	meta, ok := s.meta[key]
	s.mu.RUnlock()

	// Fall back to the sidecar file after a restart.
	if !ok {
		var err error
		meta, err = s.loadMeta(key)
		if err != nil {
			return nil, ErrNotFound
		}
		s.mu.Lock()
		s.meta[key] = meta
		s.mu.Unlock()
	}

	f, err := os.Open(filepath.Join(s.dir, key))
	if err != nil {
		return nil, ErrNotFound
	}

	return &Thumb{
		Key:         key,
		ContentType: meta.ContentType,
		Size:        meta.Size,
		Reader:      f,
	}, nil
}

// Delete implements Store.
func (s *DiskStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.meta, key)
	s.mu.Unlock()

	os.Remove(filepath.Join(s.dir, key))
	os.Remove(s.metaPath(key))
	return nil
}

// Cleanup implements Store.
func (s *DiskStore) Cleanup(ctx context.Context, maxAge time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	for key, meta := range s.meta {
		if meta.CreatedAt.Before(cutoff) {
			delete(s.meta, key)
			os.Remove(filepath.Join(s.dir, key))
			os.Remove(s.metaPath(key))
		}
	}
	s.mu.Unlock()

	// Orphaned files from before a restart age out by mtime.
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(s.dir, entry.Name()))
		}
	}
	return nil
}

func (s *DiskStore) metaPath(key string) string {
	return filepath.Join(s.dir, key+".meta")
}

func (s *DiskStore) saveMeta(key string, meta *diskMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(s.metaPath(key), data, 0644)
}

func (s *DiskStore) loadMeta(key string) (*diskMeta, error) {
	data, err := os.ReadFile(s.metaPath(key))
	if err != nil {
		return nil, err
	}
	var meta diskMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
