// Package streamtest provides test helpers for asserting on rendered
// new-tab output and simulating user interaction.
//
// Render a component and assert on its HTML:
//
//	h := streamtest.NewHarness()
//	html := h.Render(comp)
//	streamtest.ExpectContains(t, comp.Render(), "story-item")
//
// Simulate a click on an interactive element:
//
//	h.Render(comp)
//	h.Click(t, "h1")
//
// Capture emitted user events:
//
//	rec := streamtest.NewEventRecorder()
//	comp := components.Stories(components.StoriesProps{Telemetry: rec, ...})
package streamtest
