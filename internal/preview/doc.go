// Package preview serves a live view of a demo scenario.
//
// The server advances a demo.Player on a ticker and pushes every frame to
// connected browsers over a WebSocket. Routes:
//
//	GET  /          page showing the current output
//	GET  /frame     current frame as JSON
//	POST /step      advance one tick now
//	GET  /ws        frame stream
//	GET  /metrics   Prometheus exposition, when a gatherer is configured
//	GET  /healthz   liveness
package preview
