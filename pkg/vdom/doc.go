// Package vdom provides the virtual DOM node model used by activity-stream
// components. Components build VNode trees; pkg/render serializes them to
// HTML and collects event handlers for inbound click routing.
package vdom
