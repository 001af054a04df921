// Package surface manages connected new-tab surfaces over WebSocket.
//
// A Surface is one connected new-tab page. The Hub tracks all of them,
// fans broadcast actions out to every surface, and forwards inbound
// envelopes to the section feed. HTTP routes (server-rendered page,
// WebSocket endpoint, metrics, health) live on a chi router.
package surface
