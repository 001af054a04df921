package protocol

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/Hwangyonghwan/activity-stream/internal/errors"
	"github.com/Hwangyonghwan/activity-stream/pkg/actions"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	a := actions.Action{
		Type:      actions.TypeSectionDeregister,
		Data:      map[string]any{"id": "topstories"},
		Broadcast: true,
	}

	raw, err := Encode(a)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	env, err := Decode(raw, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Type != actions.TypeSectionDeregister {
		t.Errorf("type: got %q", env.Type)
	}
	if !env.Broadcast {
		t.Error("broadcast flag lost")
	}
	if !strings.Contains(string(env.Data), "topstories") {
		t.Errorf("payload: %s", env.Data)
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"NotJSON", `{broken`},
		{"MissingType", `{"data": {}}`},
		{"EmptyType", `{"type": ""}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.raw), 0)
			if err == nil {
				t.Fatal("expected decode error")
			}
			var se *errors.StreamError
			if !stderrors.As(err, &se) || se.Code != "AS040" {
				t.Errorf("error: %v", err)
			}
		})
	}
}

func TestDecodeSizeLimit(t *testing.T) {
	big := `{"type": "INIT", "data": "` + strings.Repeat("x", 100) + `"}`

	_, err := Decode([]byte(big), 32)
	var se *errors.StreamError
	if !stderrors.As(err, &se) || se.Code != "AS041" {
		t.Fatalf("error: %v", err)
	}

	// The default limit admits the same message.
	if _, err := Decode([]byte(big), 0); err != nil {
		t.Errorf("default limit: %v", err)
	}
}

func TestDecodeActionPayloadShapes(t *testing.T) {
	t.Run("PrefsInitialValues", func(t *testing.T) {
		env, err := Decode([]byte(`{"type":"PREFS_INITIAL_VALUES","data":{"theme":"dark"}}`), 0)
		if err != nil {
			t.Fatal(err)
		}
		a, err := DecodeAction(env)
		if err != nil {
			t.Fatal(err)
		}
		values, ok := a.Data.(map[string]string)
		if !ok || values["theme"] != "dark" {
			t.Errorf("data: %#v", a.Data)
		}
	})

	t.Run("PrefChanged", func(t *testing.T) {
		env, err := Decode([]byte(`{"type":"PREF_CHANGED","data":{"name":"feeds.topsites","value":"true"}}`), 0)
		if err != nil {
			t.Fatal(err)
		}
		a, err := DecodeAction(env)
		if err != nil {
			t.Fatal(err)
		}
		change, ok := a.Data.(actions.PrefChange)
		if !ok || change.Name != "feeds.topsites" || change.Value != "true" {
			t.Errorf("data: %#v", a.Data)
		}
	})

	t.Run("SectionDisable", func(t *testing.T) {
		env, err := Decode([]byte(`{"type":"SECTION_DISABLE","data":"topstories"}`), 0)
		if err != nil {
			t.Fatal(err)
		}
		a, err := DecodeAction(env)
		if err != nil {
			t.Fatal(err)
		}
		if a.Data != "topstories" {
			t.Errorf("data: %#v", a.Data)
		}
	})

	t.Run("SurfaceEvent", func(t *testing.T) {
		env, err := Decode([]byte(`{"type":"SURFACE_EVENT","data":{"hid":"h2","event":"click"}}`), 0)
		if err != nil {
			t.Fatal(err)
		}
		a, err := DecodeAction(env)
		if err != nil {
			t.Fatal(err)
		}
		ev, ok := a.Data.(actions.SurfaceEvent)
		if !ok || ev.HID != "h2" || ev.Event != "click" {
			t.Errorf("data: %#v", a.Data)
		}
	})

	t.Run("SurfaceEventWithoutHID", func(t *testing.T) {
		env, err := Decode([]byte(`{"type":"SURFACE_EVENT","data":{"event":"click"}}`), 0)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := DecodeAction(env); err == nil {
			t.Error("expected error for missing handler id")
		}
	})

	t.Run("UnknownTypePassesThrough", func(t *testing.T) {
		env, err := Decode([]byte(`{"type":"PLACES_LINK_BLOCKED","data":{"url":"https://example.com"}}`), 0)
		if err != nil {
			t.Fatal(err)
		}
		a, err := DecodeAction(env)
		if err != nil {
			t.Fatal(err)
		}
		m, ok := a.Data.(map[string]any)
		if !ok || m["url"] != "https://example.com" {
			t.Errorf("data: %#v", a.Data)
		}
	})

	t.Run("WrongShapeFails", func(t *testing.T) {
		env, err := Decode([]byte(`{"type":"PREF_CHANGED","data":"not-an-object"}`), 0)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := DecodeAction(env); err == nil {
			t.Error("expected payload shape error")
		}
	})
}

func TestKnown(t *testing.T) {
	for _, typ := range []actions.Type{
		actions.TypeInit, actions.TypeUninit,
		actions.TypePrefsInitialValues, actions.TypePrefChanged,
		actions.TypeSectionEnable, actions.TypeSectionDisable,
		actions.TypeSurfaceEvent,
	} {
		if !Known(typ) {
			t.Errorf("%s should be known", typ)
		}
	}
	if Known("SECTION_REGISTER") {
		t.Error("outbound types are not inbound-known")
	}
}
