package sections

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/Hwangyonghwan/activity-stream/pkg/actions"
	"github.com/Hwangyonghwan/activity-stream/pkg/prefs"
)

// EventType identifies a registry lifecycle event.
type EventType string

const (
	// EventInit fires once when the registry finishes initialization.
	EventInit EventType = "init"

	// EventAdd fires after a section is inserted or overwritten.
	EventAdd EventType = "add"

	// EventRemove fires before a section is deleted, carrying the
	// still-present descriptor.
	EventRemove EventType = "remove"

	// EventUpdate fires after a partial update is merged.
	EventUpdate EventType = "update"

	// EventEnable fires after a section is enabled.
	EventEnable EventType = "enable"

	// EventDisable fires after a section is disabled.
	EventDisable EventType = "disable"

	// EventUninit fires when the registry is torn down.
	EventUninit EventType = "uninit"

	// EventActionDispatched re-emits proxied actions for registry
	// listeners.
	EventActionDispatched EventType = "action-dispatched"
)

// Event is a registry notification delivered to subscribed listeners.
// Add/remove/enable/disable events carry a copy of the descriptor as it
// stands after the mutation (before deletion, for remove). Update events
// carry the partial patch and the broadcast flag.
type Event struct {
	Type      EventType
	ID        string
	Section   *Section
	Patch     *Patch
	Broadcast bool
	Action    *actions.Action
}

// Listener receives registry events.
type Listener func(Event)

// Manager is the section registry: an in-memory map from section id to
// descriptor with an injected observer list. It is owned by whatever
// process composes the application; there is no package-level instance.
type Manager struct {
	mu        sync.Mutex
	sections  map[string]*Section
	listeners map[EventType]map[int]Listener
	nextSub   int

	initialized bool
	onceInit    []func()

	logger *slog.Logger
}

// NewManager creates an empty, uninitialized registry.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		sections:  make(map[string]*Section),
		listeners: make(map[EventType]map[int]Listener),
		logger:    logger,
	}
}

// Subscribe registers a listener for one event type. The returned function
// cancels the subscription.
func (m *Manager) Subscribe(t EventType, fn Listener) (cancel func()) {
	m.mu.Lock()
	if m.listeners[t] == nil {
		m.listeners[t] = make(map[int]Listener)
	}
	id := m.nextSub
	m.nextSub++
	m.listeners[t][id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners[t], id)
		m.mu.Unlock()
	}
}

// emit delivers an event to listeners outside the registry lock, so
// listeners may call back into the registry.
func (m *Manager) emit(ev Event) {
	m.mu.Lock()
	fns := make([]Listener, 0, len(m.listeners[ev.Type]))
	for _, fn := range m.listeners[ev.Type] {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Init seeds the registry with all built-in sections, parsing each feed's
// JSON options sub-preference from the store, then marks the registry
// initialized. The init event fires exactly once across repeated calls.
func (m *Manager) Init(store *prefs.Store) {
	for _, kind := range BuiltinKinds() {
		def := builtins[kind]
		m.AddBuiltin(kind, store.Options(def.feedPref))
	}

	m.mu.Lock()
	first := !m.initialized
	m.initialized = true
	pending := m.onceInit
	m.onceInit = nil
	m.mu.Unlock()

	if first {
		m.emit(Event{Type: EventInit})
	}
	for _, cb := range pending {
		cb()
	}
}

// Initialized reports whether Init has completed.
func (m *Manager) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// OnceInitialized invokes cb immediately if the registry is initialized,
// otherwise defers it until initialization completes.
func (m *Manager) OnceInitialized(cb func()) {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		cb()
		return
	}
	m.onceInit = append(m.onceInit, cb)
	m.mu.Unlock()
}

// AddBuiltin constructs the built-in section for kind with the given
// parsed options and adds it to the registry.
func (m *Manager) AddBuiltin(kind BuiltinKind, options map[string]any) {
	def, ok := builtins[kind]
	if !ok {
		m.logger.Warn("unknown builtin section kind", "kind", int(kind))
		return
	}
	if options == nil {
		options = map[string]any{}
	}
	section := def.construct(options)
	m.AddSection(section.ID, section)
}

// AddSection inserts or overwrites a section and emits an add event
// carrying the stored descriptor.
func (m *Manager) AddSection(id string, s Section) {
	s.ID = id
	stored := s.Clone()

	m.mu.Lock()
	m.sections[id] = &stored
	m.mu.Unlock()

	snap := stored.Clone()
	m.emit(Event{Type: EventAdd, ID: id, Section: &snap})
}

// RemoveSection emits a remove event carrying the still-present descriptor,
// then deletes the entry. Removing an unknown id is a no-op.
func (m *Manager) RemoveSection(id string) {
	m.mu.Lock()
	s, ok := m.sections[id]
	var snap Section
	if ok {
		snap = s.Clone()
	}
	m.mu.Unlock()

	if !ok {
		return
	}

	m.emit(Event{Type: EventRemove, ID: id, Section: &snap})

	m.mu.Lock()
	delete(m.sections, id)
	m.mu.Unlock()
}

// EnableSection enables a section. Unknown ids are silently ignored.
func (m *Manager) EnableSection(id string) {
	m.UpdateSection(id, Patch{Enabled: boolPtr(true)}, true)
	if s, ok := m.Get(id); ok {
		m.emit(Event{Type: EventEnable, ID: id, Section: &s})
	}
}

// DisableSection disables a section and clears its rows. Unknown ids are
// silently ignored.
func (m *Manager) DisableSection(id string) {
	m.UpdateSection(id, Patch{Enabled: boolPtr(false), Rows: []Row{}}, true)
	if s, ok := m.Get(id); ok {
		m.emit(Event{Type: EventDisable, ID: id, Section: &s})
	}
}

// UpdateSection merges a partial patch into an existing section and emits
// an update event carrying the id, the patch, and the broadcast flag.
// Updating an unknown id is a no-op: no mutation, no event.
func (m *Manager) UpdateSection(id string, patch Patch, shouldBroadcast bool) {
	m.mu.Lock()
	s, ok := m.sections[id]
	if ok {
		patch.apply(s)
	}
	m.mu.Unlock()

	if !ok {
		return
	}

	m.emit(Event{Type: EventUpdate, ID: id, Patch: &patch, Broadcast: shouldBroadcast})
}

// Get returns a copy of the section with the given id.
func (m *Manager) Get(id string) (Section, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sections[id]
	if !ok {
		return Section{}, false
	}
	return s.Clone(), true
}

// Len returns the number of registered sections.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sections)
}

// Snapshot returns copies of all registered sections, sorted by id for
// deterministic iteration.
func (m *Manager) Snapshot() []Section {
	m.mu.Lock()
	out := make([]Section, 0, len(m.sections))
	for _, s := range m.sections {
		out = append(out, s.Clone())
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ProxyAction re-emits an action as an action-dispatched event for
// registry listeners.
func (m *Manager) ProxyAction(a actions.Action) {
	m.emit(Event{Type: EventActionDispatched, Action: &a})
}

// Uninit resets the initialized flag, emits an uninit event, and drops all
// listeners and pending callbacks. Safe to call repeatedly.
func (m *Manager) Uninit() {
	m.mu.Lock()
	m.initialized = false
	m.onceInit = nil
	m.mu.Unlock()

	m.emit(Event{Type: EventUninit})

	m.mu.Lock()
	m.listeners = make(map[EventType]map[int]Listener)
	m.mu.Unlock()
}
