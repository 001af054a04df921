package streamtest

import (
	"strings"
	"sync"
	"testing"

	"github.com/Hwangyonghwan/activity-stream/pkg/render"
	"github.com/Hwangyonghwan/activity-stream/pkg/telemetry"
	"github.com/Hwangyonghwan/activity-stream/pkg/vdom"
)

// RenderToString renders a vdom tree and returns the HTML string.
// This is useful for asserting on rendered output.
//
// Example:
//
//	html := streamtest.RenderToString(comp.Render())
//	if !strings.Contains(html, "expected text") {
//	    t.Error("missing expected text")
//	}
func RenderToString(node *vdom.VNode) string {
	r := render.NewRenderer()
	html, err := r.RenderToString(node)
	if err != nil {
		return ""
	}
	return html
}

// ExpectContains asserts that rendered output contains expected substring.
//
// Example:
//
//	streamtest.ExpectContains(t, comp.Render(), "Popular Topics")
func ExpectContains(t *testing.T, node *vdom.VNode, expected string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t *testing.T, node *vdom.VNode, unexpected string) {
	t.Helper()
	html := RenderToString(node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that rendered output contains a specific tag.
//
// Example:
//
//	streamtest.ExpectElement(t, comp.Render(), "button")
func ExpectElement(t *testing.T, node *vdom.VNode, tag string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, "<"+tag) {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// ExpectAttribute asserts that rendered output contains an attribute value.
//
// Example:
//
//	streamtest.ExpectAttribute(t, comp.Render(), "class", "story-link")
func ExpectAttribute(t *testing.T, node *vdom.VNode, attr, value string) {
	t.Helper()
	html := RenderToString(node)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// ExpectEmpty asserts that a component renders no output at all.
//
// Example:
//
//	streamtest.ExpectEmpty(t, components.Stories(components.StoriesProps{}).Render())
func ExpectEmpty(t *testing.T, node *vdom.VNode) {
	t.Helper()
	html := RenderToString(node)
	if html != "" {
		t.Errorf("expected empty output, got:\n%s", truncate(html, 500))
	}
}

// CountOccurrences returns how many times needle appears in the rendered
// output. Useful for "exactly one read more block" style assertions.
func CountOccurrences(node *vdom.VNode, needle string) int {
	return strings.Count(RenderToString(node), needle)
}

// Harness renders components and simulates interaction against the
// handler registry that rendering produced.
type Harness struct {
	renderer *render.Renderer
	html     string
}

// NewHarness creates a rendering harness with a fresh handler registry.
func NewHarness() *Harness {
	return &Harness{renderer: render.NewRenderer()}
}

// Render renders a component and returns its HTML. Handler IDs are
// assigned in document order starting at "h1".
func (h *Harness) Render(c vdom.Component) string {
	h.renderer.Reset()
	html, err := h.renderer.RenderToString(c.Render())
	if err != nil {
		h.html = ""
		return ""
	}
	h.html = html
	return html
}

// HTML returns the output of the last Render call.
func (h *Harness) HTML() string {
	return h.html
}

// HandlerCount returns the number of registered event handlers.
func (h *Harness) HandlerCount() int {
	return len(h.renderer.Handlers())
}

// Click invokes the click handler registered under the given handler ID.
// It fails the test when no such handler exists.
//
// Example:
//
//	h.Render(comp)
//	h.Click(t, "h1") // first interactive element in document order
func (h *Harness) Click(t *testing.T, hid string) {
	t.Helper()
	h.fire(t, hid, "onclick")
}

// Fire invokes an arbitrary event handler (e.g., "onkeydown") for the
// given handler ID.
func (h *Harness) Fire(t *testing.T, hid, event string) {
	t.Helper()
	h.fire(t, hid, event)
}

func (h *Harness) fire(t *testing.T, hid, event string) {
	t.Helper()
	handler, ok := h.renderer.Handlers()[hid+"_"+event]
	if !ok {
		t.Fatalf("no %s handler registered for %q", event, hid)
	}
	switch fn := handler.(type) {
	case func():
		fn()
	case func(any):
		fn(nil)
	default:
		t.Fatalf("handler for %q has unsupported type %T", hid, handler)
	}
}

// EventRecorder is a telemetry.Collector that captures user events.
type EventRecorder struct {
	mu     sync.Mutex
	events []telemetry.UserEvent
}

// NewEventRecorder creates an empty recorder.
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

// Record implements telemetry.Collector.
func (r *EventRecorder) Record(ev telemetry.UserEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of the captured events in emission order.
func (r *EventRecorder) Events() []telemetry.UserEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]telemetry.UserEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Len returns the number of captured events.
func (r *EventRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
