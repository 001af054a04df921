package thumbs

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Hwangyonghwan/activity-stream/pkg/actions"
	"github.com/Hwangyonghwan/activity-stream/pkg/sections"
)

func newImageServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	hits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	t.Cleanup(ts.Close)
	return ts, &hits
}

func TestIngestFetchesAndCaches(t *testing.T) {
	ts, hits := newImageServer(t)
	store, err := NewDiskStore(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	ing := NewIngester(store, nil)

	imageURL := ts.URL + "/story.png"
	path, err := ing.Ingest(context.Background(), imageURL)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if path != PathPrefix+KeyFor(imageURL) {
		t.Errorf("path: got %q", path)
	}

	thumb, err := store.Get(context.Background(), KeyFor(imageURL))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer thumb.Close()
	if thumb.ContentType != "image/png" {
		t.Errorf("content type: %q", thumb.ContentType)
	}
	data, _ := io.ReadAll(thumb.Reader)
	if string(data) != "png-bytes" {
		t.Errorf("data: %q", data)
	}

	// A second ingest serves from the cache without refetching.
	if _, err := ing.Ingest(context.Background(), imageURL); err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if *hits != 1 {
		t.Errorf("origin fetches: got %d, want 1", *hits)
	}
}

func TestIngestFetchFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	store, err := NewDiskStore(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	ing := NewIngester(store, nil)

	if _, err := ing.Ingest(context.Background(), ts.URL+"/missing.png"); err == nil {
		t.Error("expected error for non-200 fetch")
	}
}

func TestRewriterRewritesSectionRows(t *testing.T) {
	ts, _ := newImageServer(t)
	store, err := NewDiskStore(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}

	var received []actions.Action
	next := actions.DispatcherFunc(func(a actions.Action) {
		received = append(received, a)
	})
	rw := NewRewriter(NewIngester(store, nil), next, nil)

	imageURL := ts.URL + "/card.png"
	section := &sections.Section{
		ID:   "topstories",
		Rows: []sections.Row{{"guid": "a", "image_src": imageURL}},
	}
	rw.Dispatch(actions.BroadcastToContent(actions.TypeSectionRegister,
		sections.RegisterPayload{ID: "topstories", Section: section}))

	if len(received) != 1 {
		t.Fatalf("dispatched: %d actions", len(received))
	}
	got, _ := section.Rows[0]["image_src"].(string)
	if !strings.HasPrefix(got, PathPrefix) {
		t.Errorf("image_src not rewritten: %q", got)
	}
	if _, err := store.Get(context.Background(), KeyFor(imageURL)); err != nil {
		t.Errorf("image not cached: %v", err)
	}

	// An already-local path is left alone and never refetched.
	rw.Dispatch(actions.BroadcastToContent(actions.TypeSectionUpdate,
		sections.RegisterPayload{
			ID:    "topstories",
			Patch: &sections.Patch{Rows: []sections.Row{{"image_src": got}}},
		}))
	if len(received) != 2 {
		t.Fatalf("dispatched: %d actions", len(received))
	}
}

func TestRewriterKeepsRowOnFetchFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	store, err := NewDiskStore(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	var received []actions.Action
	rw := NewRewriter(NewIngester(store, nil), actions.DispatcherFunc(func(a actions.Action) {
		received = append(received, a)
	}), nil)

	imageURL := ts.URL + "/broken.png"
	patch := &sections.Patch{Rows: []sections.Row{{"image_url": imageURL}}}
	rw.Dispatch(actions.BroadcastToContent(actions.TypeSectionUpdate,
		sections.RegisterPayload{ID: "highlights", Patch: patch}))

	if len(received) != 1 {
		t.Fatalf("dispatched: %d actions", len(received))
	}
	if got := patch.Rows[0]["image_url"]; got != imageURL {
		t.Errorf("failed ingest should keep the original URL, got %v", got)
	}
}
