// Package breaker implements a three-state circuit breaker and a named
// registry of breaker singletons for wrapping calls to unreliable
// downstreams (external services, remote caches, databases).
//
// # Ecosystem Position
//
// breaker sits between the dispatcher/adapter layer and whatever a tool
// adapter actually calls:
//
//	┌───────────────────────────────────────────────────────────┐
//	│                     Adapter Call Flow                     │
//	├───────────────────────────────────────────────────────────┤
//	│                                                            │
//	│  dispatcher        breaker.Registry         downstream     │
//	│  ┌────────┐       ┌───────────────┐       ┌───────────┐   │
//	│  │ Adapter│──────▶│ CircuitBreaker│──────▶│  Source /  │   │
//	│  │  Call  │       │ (named, per-  │       │  Cache /   │   │
//	│  └────────┘       │  downstream)  │       │  Database  │   │
//	│                   └───────────────┘       └───────────┘   │
//	│                                                            │
//	└────────────────────────────────────────────────────────────┘
//
// # States
//
// A breaker is always in exactly one of three states:
//
//   - [StateClosed]: calls pass through. Failures are counted in a sliding
//     window; once FailureThreshold failures land inside MonitoringWindow,
//     the breaker opens.
//   - [StateOpen]: calls are rejected with [ErrOpen] without reaching the
//     operation. After OpenTimeout elapses, the breaker moves to half-open.
//   - [StateHalfOpen]: up to HalfOpenMaxProbes calls are admitted as probes.
//     SuccessThreshold consecutive clean probes closes the breaker; a
//     single failed probe reopens it.
//
// # Quick Start
//
//	reg := breaker.NewRegistry()
//	cb, _ := reg.GetOrCreate("runbook-source", breaker.ClassExternalService)
//
//	err := cb.Execute(ctx, func(ctx context.Context) error {
//	    return sourceClient.Fetch(ctx, id)
//	})
//	if errors.Is(err, breaker.ErrOpen) {
//	    // downstream considered unhealthy; return a CircuitOpenError upstream
//	}
//
// # Classes
//
// [Registry.GetOrCreate] takes a class name ([ClassExternalService],
// [ClassCache], [ClassDatabase]) and applies that class's tuned defaults.
// Use [Registry.GetOrCreateWith] to supply a fully custom [Config] instead.
package breaker
