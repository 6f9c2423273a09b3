// Package http wires the server's HTTP surface: health and readiness
// probes, the tool-call API, performance and monitoring views, and
// circuit-breaker administration, per the route table of §6.
//
// Routing uses chi (github.com/go-chi/chi/v5) for the path-param routes
// (/api/procedures/:id, /monitoring/alerts/:id/resolve,
// /circuit-breakers/:name/reset) that the standard library's ServeMux
// cannot express as cleanly. Every route passes through the shared
// Pipeline where a tool call is involved; handlers here are thin
// adapters from net/http to pipeline.Request/Result.
package http
