package surface

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Hwangyonghwan/activity-stream/internal/config"
	"github.com/Hwangyonghwan/activity-stream/internal/thumbs"
	"github.com/Hwangyonghwan/activity-stream/pkg/actions"
	"github.com/Hwangyonghwan/activity-stream/pkg/components"
	"github.com/Hwangyonghwan/activity-stream/pkg/prefs"
	"github.com/Hwangyonghwan/activity-stream/pkg/render"
	"github.com/Hwangyonghwan/activity-stream/pkg/sections"
	"github.com/Hwangyonghwan/activity-stream/pkg/telemetry"
)

// introShownPref records whether the first-run overlay was dismissed.
const introShownPref = "intro.shown"

// Server serves the new-tab page, the surface WebSocket endpoint,
// metrics, and health.
type Server struct {
	cfg       *config.Config
	hub       *Hub
	manager   *sections.Manager
	store     *prefs.Store
	collector telemetry.Collector
	thumbs    thumbs.Store
	logger    *slog.Logger
	http      *http.Server

	// handlers is the registry collected during the most recent page
	// render, keyed "hid_eventname". Surface events fire into it.
	mu       sync.RWMutex
	handlers map[string]any
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithThumbs serves cached story thumbnails under /thumbs/{key}.
func WithThumbs(store thumbs.Store) ServerOption {
	return func(s *Server) {
		s.thumbs = store
	}
}

// NewServer wires the HTTP surface around an initialized registry.
func NewServer(cfg *config.Config, hub *Hub, manager *sections.Manager, store *prefs.Store, collector telemetry.Collector, logger *slog.Logger, opts ...ServerOption) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:       cfg,
		hub:       hub,
		manager:   manager,
		store:     store,
		collector: collector,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	hub.surfaceEvents = s.fireSurfaceEvent
	s.http = &http.Server{
		Addr:         cfg.Address(),
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return s
}

// routes builds the chi router.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleNewTab)
	r.Get("/newtab", s.handleNewTab)
	r.Get("/ws", s.hub.ServeWS)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	if s.thumbs != nil {
		r.Get("/thumbs/{key}", s.handleThumb)
	}

	return r
}

// handleThumb streams a cached story thumbnail.
func (s *Server) handleThumb(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	thumb, err := s.thumbs.Get(r.Context(), key)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer thumb.Close()

	w.Header().Set("Content-Type", thumb.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, thumb.Reader); err != nil {
		s.logger.Warn("thumb write aborted", "key", key, "error", err)
	}
}

// handleNewTab server-renders the page from the current registry state.
func (s *Server) handleNewTab(w http.ResponseWriter, r *http.Request) {
	firstRun := !s.store.GetBool(introShownPref, false)
	page := components.NewTabPage(components.PageProps{
		Sections:  s.manager.Snapshot(),
		FirstRun:  firstRun,
		Telemetry: s.collector,
		OnOverlayStart: func() {
			s.store.Set(introShownPref, "true")
		},
		OnOverlayDismiss: func() {
			s.store.Set(introShownPref, "true")
		},
	})

	renderer := render.NewRenderer()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderer.RenderToWriter(w, page.Render()); err != nil {
		s.logger.Error("render failed", "error", err)
		return
	}

	s.mu.Lock()
	s.handlers = renderer.Handlers()
	s.mu.Unlock()
}

// fireSurfaceEvent routes an interaction from a connected surface to the
// handler registered under its hid during the last page render. Events
// for unknown hids are dropped; a surface may be clicking into a page
// that has since been re-rendered.
func (s *Server) fireSurfaceEvent(ev actions.SurfaceEvent) {
	event := ev.Event
	if event == "" {
		event = "click"
	}

	s.mu.RLock()
	handler := s.handlers[ev.HID+"_on"+event]
	s.mu.RUnlock()

	if handler == nil {
		s.logger.Debug("surface event without handler", "hid", ev.HID, "event", event)
		return
	}
	switch fn := handler.(type) {
	case func():
		fn()
	case func(any):
		fn(nil)
	default:
		s.logger.Warn("unsupported handler shape", "hid", ev.HID, "event", event)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// ListenAndServe runs the HTTP server until it fails or is shut down.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", "addr", s.http.Addr)
	return s.http.ListenAndServe()
}

// Shutdown drains connected surfaces and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.CloseAll()
	return s.http.Shutdown(ctx)
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}
