package render

import (
	"strings"
	"testing"

	"github.com/Hwangyonghwan/activity-stream/pkg/vdom"
)

// TestRenderElement tests basic element rendering.
func TestRenderElement(t *testing.T) {
	r := NewRenderer()
	html, err := r.RenderToString(vdom.Div(vdom.Class("card"), vdom.Text("hello")))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	want := `<div class="card">hello</div>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

// TestRenderEscaping tests that text and attribute content is escaped.
func TestRenderEscaping(t *testing.T) {
	r := NewRenderer()
	html, err := r.RenderToString(vdom.Span(vdom.Text(`<script>alert("x")</script>`)))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("script tag not escaped: %s", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("expected escaped entity, got %s", html)
	}

	r.Reset()
	html, err = r.RenderToString(vdom.A(vdom.Href(`x" onmouseover="evil()`)))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(html, `" onmouseover="`) {
		t.Errorf("attribute not escaped: %s", html)
	}
}

// TestRenderVoidElement tests that void elements have no closing tag.
func TestRenderVoidElement(t *testing.T) {
	r := NewRenderer()
	html, err := r.RenderToString(vdom.Img(vdom.Src("/icon.png"), vdom.Alt("icon")))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(html, "</img>") {
		t.Errorf("void element should not close: %s", html)
	}
	if !strings.Contains(html, `src="/icon.png"`) {
		t.Errorf("missing src attribute: %s", html)
	}
}

// TestRenderFragment tests that fragments render children with no wrapper.
func TestRenderFragment(t *testing.T) {
	r := NewRenderer()
	html, err := r.RenderToString(vdom.Fragment(vdom.Span("a"), vdom.Span("b")))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if html != "<span>a</span><span>b</span>" {
		t.Errorf("got %q", html)
	}
}

// TestRenderEmptyFragment tests that Nothing renders no output.
func TestRenderEmptyFragment(t *testing.T) {
	r := NewRenderer()
	html, err := r.RenderToString(vdom.Nothing())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if html != "" {
		t.Errorf("got %q, want empty", html)
	}
}

// TestHandlerRegistry tests HID assignment and handler collection.
func TestHandlerRegistry(t *testing.T) {
	clicked := false
	node := vdom.Div(
		vdom.Button(vdom.OnClick(func() { clicked = true }), vdom.Text("go")),
		vdom.Button(vdom.OnClick(func() {}), vdom.Text("other")),
	)

	r := NewRenderer()
	html, err := r.RenderToString(node)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if !strings.Contains(html, `data-hid="h1"`) {
		t.Errorf("first button missing hid: %s", html)
	}
	if !strings.Contains(html, `data-hid="h2"`) {
		t.Errorf("second button missing hid: %s", html)
	}
	if !strings.Contains(html, `data-on-click="true"`) {
		t.Errorf("missing click marker: %s", html)
	}

	handlers := r.Handlers()
	if len(handlers) != 2 {
		t.Fatalf("handlers: got %d, want 2", len(handlers))
	}
	fn, ok := handlers["h1_onclick"].(func())
	if !ok {
		t.Fatalf("h1_onclick: got %T, want func()", handlers["h1_onclick"])
	}
	fn()
	if !clicked {
		t.Error("handler did not fire")
	}
}

// TestRendererReset tests that Reset restarts HID numbering.
func TestRendererReset(t *testing.T) {
	r := NewRenderer()
	r.RenderToString(vdom.Button(vdom.OnClick(func() {})))
	r.Reset()
	html, _ := r.RenderToString(vdom.Button(vdom.OnClick(func() {})))
	if !strings.Contains(html, `data-hid="h1"`) {
		t.Errorf("HID counter not reset: %s", html)
	}
	if len(r.Handlers()) != 1 {
		t.Errorf("handlers not reset: %d", len(r.Handlers()))
	}
}

// TestRenderComponent tests nested component rendering.
func TestRenderComponent(t *testing.T) {
	comp := vdom.Func(func() *vdom.VNode {
		return vdom.Span(vdom.Text("inner"))
	})
	r := NewRenderer()
	html, err := r.RenderToString(vdom.Div(comp))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if html != "<div><span>inner</span></div>" {
		t.Errorf("got %q", html)
	}
}

// TestRenderBooleanAttr tests presence-only boolean attributes.
func TestRenderBooleanAttr(t *testing.T) {
	r := NewRenderer()
	html, _ := r.RenderToString(vdom.Div(vdom.Hidden(true)))
	if !strings.Contains(html, "<div hidden>") {
		t.Errorf("got %q", html)
	}

	r.Reset()
	html, _ = r.RenderToString(vdom.Div(vdom.Hidden(false)))
	if strings.Contains(html, "hidden") {
		t.Errorf("hidden=false should not render: %q", html)
	}
}
