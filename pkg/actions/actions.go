// Package actions defines the action stream connecting the section feed,
// the preference store, and connected content surfaces.
//
// Actions flow in two directions: inbound (lifecycle and UI actions from
// surfaces or the composing process) and outbound (section broadcasts and
// telemetry). Outbound actions marked Broadcast are delivered to every
// connected content surface; the rest stay in the control process.
package actions

// Type identifies an action kind.
type Type string

// Inbound action types.
const (
	// TypeInit signals the outer lifecycle init.
	TypeInit Type = "INIT"

	// TypeUninit signals teardown.
	TypeUninit Type = "UNINIT"

	// TypePrefsInitialValues delivers the initial preference snapshot.
	TypePrefsInitialValues Type = "PREFS_INITIAL_VALUES"

	// TypePrefChanged delivers a single preference change.
	TypePrefChanged Type = "PREF_CHANGED"

	// TypeSectionEnable asks for a section to be enabled.
	TypeSectionEnable Type = "SECTION_ENABLE"

	// TypeSectionDisable asks for a section to be disabled.
	TypeSectionDisable Type = "SECTION_DISABLE"

	// TypeSurfaceEvent delivers a DOM event from a rendered surface,
	// identified by the handler id assigned during rendering.
	TypeSurfaceEvent Type = "SURFACE_EVENT"
)

// Outbound action types.
const (
	// TypeSectionRegister announces a section to content surfaces.
	TypeSectionRegister Type = "SECTION_REGISTER"

	// TypeSectionUpdate carries a partial section update.
	TypeSectionUpdate Type = "SECTION_UPDATE"

	// TypeSectionDeregister removes a section from content surfaces.
	TypeSectionDeregister Type = "SECTION_DEREGISTER"

	// TypeUserEvent carries interaction telemetry.
	TypeUserEvent Type = "TELEMETRY_USER_EVENT"
)

// Action is one entry on the action stream.
type Action struct {
	Type Type `json:"type"`

	// Data is the action payload; its shape depends on Type.
	Data any `json:"data,omitempty"`

	// Broadcast marks outbound actions for delivery to all content
	// surfaces instead of the control process only.
	Broadcast bool `json:"broadcast,omitempty"`
}

// PrefChange is the payload of TypePrefChanged.
type PrefChange struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SurfaceEvent is the payload of TypeSurfaceEvent. HID names the
// data-hid of the element the event fired on; Event is the DOM event
// name and defaults to "click" when empty.
type SurfaceEvent struct {
	HID   string `json:"hid"`
	Event string `json:"event,omitempty"`
}

// BroadcastToContent builds an outbound action flagged for broadcast.
func BroadcastToContent(t Type, data any) Action {
	return Action{Type: t, Data: data, Broadcast: true}
}

// OnlyToMain builds an outbound action for the control process only.
func OnlyToMain(t Type, data any) Action {
	return Action{Type: t, Data: data}
}

// Dispatcher consumes outbound actions.
type Dispatcher interface {
	Dispatch(Action)
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(Action)

// Dispatch implements Dispatcher.
func (f DispatcherFunc) Dispatch(a Action) {
	f(a)
}

// Filter decides whether an action type is proxied to registry listeners.
type Filter func(Type) bool

// AllowList builds a Filter from a fixed set of action types.
func AllowList(types ...Type) Filter {
	set := make(map[Type]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return func(t Type) bool {
		return set[t]
	}
}
