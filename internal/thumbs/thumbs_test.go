package thumbs

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestKeyFor(t *testing.T) {
	a := KeyFor("https://example.com/story")
	b := KeyFor("https://example.com/story")
	c := KeyFor("https://example.com/other")

	if a != b {
		t.Error("same URL must yield the same key")
	}
	if a == c {
		t.Error("different URLs must yield different keys")
	}
	if len(a) != 32 {
		t.Errorf("key length: %d", len(a))
	}
}

func TestDiskStorePutGet(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	key := KeyFor("https://example.com/story")

	if err := store.Put(ctx, key, "image/jpeg", strings.NewReader("jpegbytes")); err != nil {
		t.Fatal(err)
	}

	thumb, err := store.Get(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	defer thumb.Close()

	if thumb.ContentType != "image/jpeg" {
		t.Errorf("content type: %q", thumb.ContentType)
	}
	data, _ := io.ReadAll(thumb.Reader)
	if string(data) != "jpegbytes" {
		t.Errorf("data: %q", data)
	}
}

func TestDiskStoreMissing(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}

	_, err = store.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error: %v", err)
	}
}

func TestDiskStoreSizeLimit(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), 4)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	err = store.Put(ctx, "big", "image/png", strings.NewReader("too many bytes"))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("error: %v", err)
	}

	// The oversized file must not linger.
	if _, err := store.Get(ctx, "big"); !errors.Is(err, ErrNotFound) {
		t.Errorf("rejected put left a file behind: %v", err)
	}

	if err := store.Put(ctx, "ok", "image/png", strings.NewReader("tiny")); err != nil {
		t.Errorf("within limit: %v", err)
	}
}

func TestDiskStoreDelete(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := store.Put(ctx, "k", "image/png", strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error: %v", err)
	}

	// Deleting again is fine.
	if err := store.Delete(ctx, "k"); err != nil {
		t.Errorf("repeat delete: %v", err)
	}
}

func TestDiskStoreSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewDiskStore(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Put(ctx, "k", "image/webp", strings.NewReader("persisted")); err != nil {
		t.Fatal(err)
	}

	// A fresh store over the same directory reads the sidecar metadata.
	second, err := NewDiskStore(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	thumb, err := second.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	defer thumb.Close()
	if thumb.ContentType != "image/webp" {
		t.Errorf("content type lost across restart: %q", thumb.ContentType)
	}
}

func TestDiskStoreCleanup(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := store.Put(ctx, "old", "image/png", strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}
	store.mu.Lock()
	store.meta["old"].CreatedAt = time.Now().Add(-2 * time.Hour)
	store.mu.Unlock()

	if err := store.Put(ctx, "fresh", "image/png", strings.NewReader("y")); err != nil {
		t.Fatal(err)
	}

	if err := store.Cleanup(ctx, time.Hour); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Get(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Error("expired entry should be gone")
	}
	if _, err := store.Get(ctx, "fresh"); err != nil {
		t.Errorf("fresh entry should survive: %v", err)
	}
}

func TestDiskStoreCancelledContext(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Put(ctx, "k", "image/png", strings.NewReader("x")); err == nil {
		t.Error("put should honor the cancelled context")
	}
}
