package surface

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Hwangyonghwan/activity-stream/internal/config"
	"github.com/Hwangyonghwan/activity-stream/internal/errors"
	"github.com/Hwangyonghwan/activity-stream/pkg/actions"
	"github.com/Hwangyonghwan/activity-stream/pkg/protocol"
)

// Hub tracks connected surfaces and fans outbound actions out to them.
// It implements actions.Dispatcher so the section feed can write
// straight to it.
type Hub struct {
	mu       sync.RWMutex
	surfaces map[string]*Surface

	// forward receives every inbound action from every surface.
	forwardFn func(actions.Action)

	// surfaceEvents receives rendered-element interactions; the Server
	// registers itself here so clicks reach the handlers collected
	// during the last page render.
	surfaceEvents func(actions.SurfaceEvent)

	maxMessageBytes int64
	writeTimeout    time.Duration
	pingInterval    time.Duration

	upgrader websocket.Upgrader
	logger   *slog.Logger
	metrics  *metrics
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithLogger sets the hub logger.
func WithLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		h.logger = logger
	}
}

// WithRegistry registers hub metrics on a custom prometheus registry.
func WithRegistry(reg prometheus.Registerer) HubOption {
	return func(h *Hub) {
		h.metrics = newMetrics(reg)
	}
}

// NewHub creates a hub from surface config. Inbound actions are passed
// to forward, typically the section feed's OnAction.
func NewHub(cfg config.SurfaceConfig, forward func(actions.Action), opts ...HubOption) *Hub {
	h := &Hub{
		surfaces:        make(map[string]*Surface),
		forwardFn:       forward,
		maxMessageBytes: cfg.MaxMessageBytes,
		writeTimeout:    parseDuration(cfg.WriteTimeout, 5*time.Second),
		pingInterval:    parseDuration(cfg.PingInterval, 30*time.Second),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: slog.Default(),
	}
	if h.maxMessageBytes <= 0 {
		h.maxMessageBytes = protocol.DefaultMaxMessageBytes
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.metrics == nil {
		h.metrics = newMetrics(nil)
	}
	return h
}

// ServeWS upgrades an HTTP request and registers the new surface.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("upgrade failed", "error", errors.New("AS061").Wrap(err))
		return
	}

	s := newSurface(conn, h)

	h.mu.Lock()
	h.surfaces[s.ID] = s
	count := len(h.surfaces)
	h.mu.Unlock()
	h.metrics.connected.Set(float64(count))

	h.logger.Info("surface connected", "surface", s.ID, "connected", count)
	s.start()
}

// Dispatch implements actions.Dispatcher. Broadcast actions are encoded
// once and fanned out; the rest stay in the control process and are
// only counted.
func (h *Hub) Dispatch(a actions.Action) {
	h.metrics.broadcasts.WithLabelValues(string(a.Type)).Inc()
	if !a.Broadcast {
		h.logger.Debug("control action", "type", a.Type)
		return
	}

	msg, err := protocol.Encode(a)
	if err != nil {
		h.logger.Error("encode failed", "type", a.Type,
			"error", errors.New("AS060").Wrap(err))
		return
	}

	h.mu.RLock()
	targets := make([]*Surface, 0, len(h.surfaces))
	for _, s := range h.surfaces {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		s.enqueue(msg)
	}
}

// forward relays a decoded inbound action to the feed, except surface
// events, which route back into the rendered page's handler registry.
// Types the server neither handles nor proxies still reach the feed,
// which drops them; the hub only logs unknown kinds for observability.
func (h *Hub) forward(a actions.Action) {
	if a.Type == actions.TypeSurfaceEvent {
		if ev, ok := a.Data.(actions.SurfaceEvent); ok && h.surfaceEvents != nil {
			h.surfaceEvents(ev)
		}
		return
	}
	if !protocol.Known(a.Type) {
		h.logger.Debug("forwarding unregistered action type",
			"type", a.Type, "code", "AS042")
	}
	if h.forwardFn != nil {
		h.forwardFn(a)
	}
}

// drop unregisters a closed surface.
func (h *Hub) drop(s *Surface) {
	h.mu.Lock()
	delete(h.surfaces, s.ID)
	count := len(h.surfaces)
	h.mu.Unlock()
	h.metrics.connected.Set(float64(count))
	h.logger.Info("surface disconnected", "surface", s.ID, "connected", count)
}

// Len returns the number of connected surfaces.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.surfaces)
}

// CloseAll disconnects every surface, used during shutdown.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	targets := make([]*Surface, 0, len(h.surfaces))
	for _, s := range h.surfaces {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		s.Close()
	}
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
