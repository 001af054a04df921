package thumbs

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Hwangyonghwan/activity-stream/pkg/actions"
	"github.com/Hwangyonghwan/activity-stream/pkg/sections"
)

// PathPrefix is where the server mounts cached thumbnails.
const PathPrefix = "/thumbs/"

const defaultFetchTimeout = 10 * time.Second

// Ingester fetches story images into a Store so cards can reference the
// local cached copy instead of the origin site.
type Ingester struct {
	store  Store
	client *http.Client
	logger *slog.Logger
}

// NewIngester creates an Ingester over the given store.
func NewIngester(store Store, logger *slog.Logger) *Ingester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingester{
		store:  store,
		client: &http.Client{Timeout: defaultFetchTimeout},
		logger: logger,
	}
}

// Ingest caches the image behind imageURL and returns its local path.
// Already-cached images are not refetched.
func (in *Ingester) Ingest(ctx context.Context, imageURL string) (string, error) {
	key := KeyFor(imageURL)
	if t, err := in.store.Get(ctx, key); err == nil {
		t.Close()
		return PathPrefix + key, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := in.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("thumbs: fetch %s: status %d", imageURL, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	if err := in.store.Put(ctx, key, contentType, resp.Body); err != nil {
		return "", err
	}
	return PathPrefix + key, nil
}

// imageFields are the row fields that may carry a story image URL.
var imageFields = []string{"image_src", "image_url"}

// Rewriter is dispatcher middleware. Section broadcasts pass through it
// on the way to connected surfaces; every story image URL in their rows
// is ingested into the store and rewritten to the local cached path.
// Rows that fail to ingest keep their original URL.
type Rewriter struct {
	ingester *Ingester
	next     actions.Dispatcher
	logger   *slog.Logger
}

// NewRewriter wraps the next dispatcher with thumbnail rewriting.
func NewRewriter(ingester *Ingester, next actions.Dispatcher, logger *slog.Logger) *Rewriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rewriter{ingester: ingester, next: next, logger: logger}
}

// Dispatch implements actions.Dispatcher.
func (rw *Rewriter) Dispatch(a actions.Action) {
	switch a.Type {
	case actions.TypeSectionRegister, actions.TypeSectionUpdate:
		if payload, ok := a.Data.(sections.RegisterPayload); ok {
			if payload.Section != nil {
				rw.rewriteRows(payload.Section.Rows)
			}
			if payload.Patch != nil {
				rw.rewriteRows(payload.Patch.Rows)
			}
		}
	}
	rw.next.Dispatch(a)
}

func (rw *Rewriter) rewriteRows(rows []sections.Row) {
	for _, row := range rows {
		for _, field := range imageFields {
			src, _ := row[field].(string)
			if src == "" || strings.HasPrefix(src, PathPrefix) {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), defaultFetchTimeout)
			path, err := rw.ingester.Ingest(ctx, src)
			cancel()
			if err != nil {
				rw.logger.Warn("thumbnail ingest failed", "url", src, "error", err)
				continue
			}
			row[field] = path
		}
	}
}
