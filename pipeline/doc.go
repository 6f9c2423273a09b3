// Package pipeline implements the request lifecycle: correlation,
// security/size guards, validation, transform, cache interception,
// dispatch, and response shaping, applied in that order around a single
// tool call. Transport shims (transport/http, transport/streamrpc) drive a
// Pipeline; the stages themselves are transport-agnostic except for the
// HTTP-specific header/size-limit stage, which a non-HTTP transport simply
// skips.
//
// Each stage wraps the next with a single cross-cutting concern in a
// fixed order, propagating context throughout; dispatch itself opens its
// own observe.Tracer span per adapter call rather than one span per stage.
//
// # Quick Start
//
//	p := pipeline.NewPipeline(pipeline.Config{
//		Dispatcher: dispatcher,
//		Cache:      cacheService,
//		Monitor:    monitor,
//		MaxBodyMB:  10,
//	})
//	result := p.Run(ctx, pipeline.Request{Tool: "search_runbooks", Arguments: args})
//
// # Stages
//
//	1. correlation.go   — resolve/generate X-Correlation-ID
//	2. security.go      — security headers, body size limit
//	3. validation.go    — per-tool closed-form schema
//	4. transform.go     — shared sanitization + per-tool enrichment
//	5. cacheintercept.go — fingerprint, probe, strategy-derived TTL on store
//	6. pipeline.go       — dispatch to the tool dispatcher
//	7. response.go       — envelope shaping, performance tier
package pipeline
