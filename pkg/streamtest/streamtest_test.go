package streamtest

import (
	"testing"

	"github.com/Hwangyonghwan/activity-stream/pkg/telemetry"
	"github.com/Hwangyonghwan/activity-stream/pkg/vdom"
)

func eventFixture(kind string) telemetry.UserEvent {
	return telemetry.UserEvent{Event: kind, Page: "NEW_TAB", Source: "TEST"}
}

func TestExpectHelpers(t *testing.T) {
	node := vdom.Div(
		vdom.Class("wrapper"),
		vdom.Button(vdom.OnClick(func() {}), vdom.Text("Press")),
	)

	ExpectContains(t, node, "Press")
	ExpectNotContains(t, node, "Absent")
	ExpectElement(t, node, "button")
	ExpectAttribute(t, node, "class", "wrapper")
}

func TestExpectEmpty(t *testing.T) {
	ExpectEmpty(t, vdom.Nothing())
}

func TestCountOccurrences(t *testing.T) {
	node := vdom.Ul(
		vdom.Li(vdom.Class("row")),
		vdom.Li(vdom.Class("row")),
		vdom.Li(vdom.Class("row")),
	)
	if got := CountOccurrences(node, `class="row"`); got != 3 {
		t.Errorf("count: got %d, want 3", got)
	}
}

func TestHarnessClick(t *testing.T) {
	clicks := 0
	comp := vdom.Func(func() *vdom.VNode {
		return vdom.Div(
			vdom.Button(vdom.OnClick(func() { clicks++ }), vdom.Text("First")),
			vdom.Button(vdom.OnClick(func() { clicks += 10 }), vdom.Text("Second")),
		)
	})

	h := NewHarness()
	h.Render(comp)
	if h.HandlerCount() != 2 {
		t.Fatalf("handlers: %d", h.HandlerCount())
	}

	h.Click(t, "h1")
	h.Click(t, "h2")
	if clicks != 11 {
		t.Errorf("clicks: %d", clicks)
	}

	// Re-render resets handler IDs.
	h.Render(comp)
	h.Click(t, "h1")
	if clicks != 12 {
		t.Errorf("clicks after re-render: %d", clicks)
	}
}

func TestEventRecorder(t *testing.T) {
	rec := NewEventRecorder()
	if rec.Len() != 0 {
		t.Fatal("recorder should start empty")
	}
	rec.Record(eventFixture("CLICK"))
	rec.Record(eventFixture("SKIP"))

	events := rec.Events()
	if len(events) != 2 || events[0].Event != "CLICK" || events[1].Event != "SKIP" {
		t.Errorf("events: %+v", events)
	}

	// The returned slice is a copy.
	events[0].Event = "MUTATED"
	if rec.Events()[0].Event != "CLICK" {
		t.Error("Events must return a copy")
	}
}
