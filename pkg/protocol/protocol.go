// Package protocol defines the JSON envelope exchanged between the
// server and connected new-tab surfaces.
//
// Wire format (one envelope per WebSocket text message):
//
//	{"type": "SECTION_UPDATE", "data": {...}, "broadcast": true}
//
// The type names the action, data carries its payload, and broadcast
// marks server-to-surface messages that were fanned out to every
// connected surface rather than a single one.
package protocol

import (
	"encoding/json"

	"github.com/Hwangyonghwan/activity-stream/internal/errors"
	"github.com/Hwangyonghwan/activity-stream/pkg/actions"
)

// DefaultMaxMessageBytes bounds inbound envelope size when the surface
// config does not override it.
const DefaultMaxMessageBytes = 64 * 1024

// Envelope is the wire representation of an action.
type Envelope struct {
	Type      actions.Type    `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Broadcast bool            `json:"broadcast,omitempty"`
}

// Encode serializes an action into envelope bytes.
func Encode(a actions.Action) ([]byte, error) {
	env := Envelope{Type: a.Type, Broadcast: a.Broadcast}
	if a.Data != nil {
		raw, err := json.Marshal(a.Data)
		if err != nil {
			return nil, errors.New("AS040").Wrap(err)
		}
		env.Data = raw
	}
	return json.Marshal(env)
}

// Decode parses envelope bytes. maxBytes <= 0 applies the default
// limit. The payload stays raw; DecodeAction materializes it.
func Decode(data []byte, maxBytes int) (*Envelope, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxMessageBytes
	}
	if len(data) > maxBytes {
		return nil, errors.New("AS041").
			WithDetail("message size exceeds the configured limit")
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.New("AS040").Wrap(err)
	}
	if env.Type == "" {
		return nil, errors.New("AS040").WithDetail("envelope is missing a type")
	}
	return &env, nil
}

// DecodeAction converts an inbound envelope into an action with its
// payload decoded to the shape the feed expects. Types without a
// registered payload shape pass their data through as generic JSON,
// which keeps proxied action kinds working without a schema here.
func DecodeAction(env *Envelope) (actions.Action, error) {
	a := actions.Action{Type: env.Type, Broadcast: env.Broadcast}
	if len(env.Data) == 0 {
		return a, nil
	}

	switch env.Type {
	case actions.TypePrefsInitialValues:
		var values map[string]string
		if err := json.Unmarshal(env.Data, &values); err != nil {
			return actions.Action{}, errors.New("AS040").Wrap(err)
		}
		a.Data = values

	case actions.TypePrefChanged:
		var change actions.PrefChange
		if err := json.Unmarshal(env.Data, &change); err != nil {
			return actions.Action{}, errors.New("AS040").Wrap(err)
		}
		a.Data = change

	case actions.TypeSectionEnable, actions.TypeSectionDisable:
		var id string
		if err := json.Unmarshal(env.Data, &id); err != nil {
			return actions.Action{}, errors.New("AS040").Wrap(err)
		}
		a.Data = id

	case actions.TypeSurfaceEvent:
		var ev actions.SurfaceEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return actions.Action{}, errors.New("AS040").Wrap(err)
		}
		if ev.HID == "" {
			return actions.Action{}, errors.New("AS040").
				WithDetail("surface event is missing a handler id")
		}
		a.Data = ev

	default:
		var generic any
		if err := json.Unmarshal(env.Data, &generic); err != nil {
			return actions.Action{}, errors.New("AS040").Wrap(err)
		}
		a.Data = generic
	}

	return a, nil
}

// Known reports whether the server handles this inbound type directly.
// Unknown types may still be valid proxy candidates; the surface uses
// this to decide between dispatch and an AS042 log line.
func Known(t actions.Type) bool {
	switch t {
	case actions.TypeInit, actions.TypeUninit,
		actions.TypePrefsInitialValues, actions.TypePrefChanged,
		actions.TypeSectionEnable, actions.TypeSectionDisable,
		actions.TypeSurfaceEvent:
		return true
	}
	return false
}
