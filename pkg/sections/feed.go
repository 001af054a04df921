package sections

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Hwangyonghwan/activity-stream/pkg/actions"
	"github.com/Hwangyonghwan/activity-stream/pkg/prefs"
)

// RegisterPayload is the data of a section-register or section-update
// outbound action.
type RegisterPayload struct {
	ID      string   `json:"id"`
	Section *Section `json:"section,omitempty"`
	Patch   *Patch   `json:"patch,omitempty"`
}

// DeregisterPayload is the data of a section-deregister outbound action.
type DeregisterPayload struct {
	ID string `json:"id"`
}

// defaultProxied is the default set of action types re-emitted to registry
// listeners when the registry holds at least one section.
var defaultProxied = actions.AllowList(
	"PLACES_BOOKMARK_ADDED",
	"PLACES_BOOKMARK_REMOVED",
	"PLACES_HISTORY_CLEARED",
	"PLACES_LINK_BLOCKED",
	"PLACES_LINK_DELETED",
)

// Feed bridges the section registry and the action stream: registry events
// become outbound broadcast actions, inbound actions become registry calls.
type Feed struct {
	manager *Manager
	store   *prefs.Store
	out     actions.Dispatcher
	proxy   actions.Filter

	subs   []func()
	logger *slog.Logger
	tracer trace.Tracer
}

// FeedOption configures a Feed.
type FeedOption func(*Feed)

// WithProxyFilter replaces the default allow-list deciding which action
// types are re-emitted as action-dispatched registry events.
func WithProxyFilter(f actions.Filter) FeedOption {
	return func(feed *Feed) {
		feed.proxy = f
	}
}

// WithLogger sets the feed's logger.
func WithLogger(logger *slog.Logger) FeedOption {
	return func(feed *Feed) {
		feed.logger = logger
	}
}

// NewFeed creates a Feed over the given registry, preference store, and
// outbound dispatcher.
func NewFeed(manager *Manager, store *prefs.Store, out actions.Dispatcher, opts ...FeedOption) *Feed {
	f := &Feed{
		manager: manager,
		store:   store,
		out:     out,
		proxy:   defaultProxied,
		logger:  slog.Default(),
		tracer:  otel.Tracer("activity-stream/sections"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// OnAction consumes one inbound action.
func (f *Feed) OnAction(a actions.Action) {
	_, span := f.tracer.Start(context.Background(), "sections.feed.action",
		trace.WithAttributes(attribute.String("action", string(a.Type))))
	defer span.End()

	switch a.Type {
	case actions.TypeInit:
		f.manager.OnceInitialized(f.onceInitialized)

	case actions.TypePrefsInitialValues:
		if values, ok := a.Data.(map[string]string); ok {
			for name, value := range values {
				f.store.Set(name, value)
			}
		}
		f.manager.Init(f.store)

	case actions.TypePrefChanged:
		change, ok := a.Data.(actions.PrefChange)
		if !ok {
			f.logger.Warn("pref change with unexpected payload", "type", a.Type)
			return
		}
		f.store.Set(change.Name, change.Value)
		f.onPrefChanged(change.Name, change.Value)

	case actions.TypeSectionEnable:
		if id, ok := a.Data.(string); ok {
			f.manager.EnableSection(id)
		}

	case actions.TypeSectionDisable:
		if id, ok := a.Data.(string); ok {
			f.manager.DisableSection(id)
		}

	case actions.TypeUninit:
		f.Uninit()

	default:
		if f.proxy(a.Type) && f.manager.Len() > 0 {
			f.manager.ProxyAction(a)
		}
	}
}

// onceInitialized subscribes to registry events and replays the sections
// registered so far as synthetic add events, so a feed attaching after
// init observes the same stream as one attached from the start.
func (f *Feed) onceInitialized() {
	f.subs = append(f.subs,
		f.manager.Subscribe(EventAdd, f.onAdd),
		f.manager.Subscribe(EventUpdate, f.onUpdate),
		f.manager.Subscribe(EventRemove, f.onRemove),
	)

	for _, s := range f.manager.Snapshot() {
		section := s
		f.onAdd(Event{Type: EventAdd, ID: s.ID, Section: &section})
	}
}

// onAdd dispatches a register broadcast when the section carries options.
func (f *Feed) onAdd(ev Event) {
	if ev.Section == nil || ev.Section.Options == nil {
		return
	}
	f.out.Dispatch(actions.BroadcastToContent(actions.TypeSectionRegister,
		RegisterPayload{ID: ev.ID, Section: ev.Section}))
}

// onUpdate dispatches an update message, broadcast only when the registry
// flagged it.
func (f *Feed) onUpdate(ev Event) {
	payload := RegisterPayload{ID: ev.ID, Patch: ev.Patch}
	if ev.Broadcast {
		f.out.Dispatch(actions.BroadcastToContent(actions.TypeSectionUpdate, payload))
		return
	}
	f.out.Dispatch(actions.OnlyToMain(actions.TypeSectionUpdate, payload))
}

// onRemove dispatches a deregister broadcast carrying only the id.
func (f *Feed) onRemove(ev Event) {
	f.out.Dispatch(actions.BroadcastToContent(actions.TypeSectionDeregister,
		DeregisterPayload{ID: ev.ID}))
}

// onPrefChanged re-adds the matching built-in section when a feed options
// preference changes, re-parsing its JSON value.
func (f *Feed) onPrefChanged(name, value string) {
	feed, ok := prefs.FeedFromOptionsPref(name)
	if !ok {
		return
	}
	kind, ok := BuiltinByFeed(feed)
	if !ok {
		return
	}
	f.manager.AddBuiltin(kind, prefs.ParseOptions(value, feed, f.logger))
}

// Uninit tears the feed down: registry listeners are unsubscribed, the
// registry's initialized flag is reset, and an uninit event fires.
// Idempotent.
func (f *Feed) Uninit() {
	for _, cancel := range f.subs {
		cancel()
	}
	f.subs = nil
	f.manager.Uninit()
}
