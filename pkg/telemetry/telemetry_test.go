package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Hwangyonghwan/activity-stream/pkg/actions"
)

// TestDispatchCollector tests that recorded events land on the action stream.
func TestDispatchCollector(t *testing.T) {
	var got []actions.Action
	out := actions.DispatcherFunc(func(a actions.Action) {
		got = append(got, a)
	})

	c := NewDispatchCollector(out, WithRegistry(prometheus.NewRegistry()))
	c.Record(UserEvent{Event: "CLICK", Page: "NEW_TAB", Source: "TOP_STORIES", ActionPosition: 0})

	if len(got) != 1 {
		t.Fatalf("dispatched: got %d actions, want 1", len(got))
	}
	if got[0].Type != actions.TypeUserEvent {
		t.Errorf("Type: got %v", got[0].Type)
	}
	if got[0].Broadcast {
		t.Error("telemetry must not broadcast to surfaces")
	}
	ev, ok := got[0].Data.(UserEvent)
	if !ok {
		t.Fatalf("Data: got %T", got[0].Data)
	}
	if ev.Source != "TOP_STORIES" || ev.ActionPosition != 0 {
		t.Errorf("event payload: %+v", ev)
	}
}

// TestCollectorFunc tests the function adapter.
func TestCollectorFunc(t *testing.T) {
	calls := 0
	c := CollectorFunc(func(UserEvent) { calls++ })
	c.Record(UserEvent{Event: "CLICK"})
	if calls != 1 {
		t.Errorf("calls: got %d", calls)
	}

	Discard.Record(UserEvent{})
}
