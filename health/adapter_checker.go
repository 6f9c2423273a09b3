package health

import (
	"context"
	"time"

	"github.com/opsknowledge/retrieval-core/adapter"
)

// AdapterChecker reports the adapter registry's aggregate health: healthy
// when every enrolled adapter's own health check passes, degraded when at
// least one source is unhealthy but not all, unhealthy when none are (or
// none are enrolled), mirroring §4.E's source_adapters_degraded rule.
type AdapterChecker struct {
	registry *adapter.Registry
	timeout  time.Duration
}

// NewAdapterChecker creates an AdapterChecker for registry. perCheckTimeout
// bounds each individual adapter's health check; zero defaults to 2s.
func NewAdapterChecker(registry *adapter.Registry, perCheckTimeout time.Duration) *AdapterChecker {
	if perCheckTimeout <= 0 {
		perCheckTimeout = 2 * time.Second
	}
	return &AdapterChecker{registry: registry, timeout: perCheckTimeout}
}

// Name returns the name of this checker.
func (a *AdapterChecker) Name() string { return "sources" }

// Check performs the adapter registry health check.
func (a *AdapterChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	if a.registry == nil {
		return Unhealthy("adapter registry not configured", ErrCheckFailed)
	}

	results := a.registry.HealthCheckAll(ctx, a.timeout)
	if len(results) == 0 {
		return Unhealthy("no source adapters registered", ErrCheckFailed)
	}

	healthy := 0
	details := make(map[string]any, len(results))
	for name, r := range results {
		details[name] = map[string]any{"healthy": r.Healthy, "response_time_ms": r.ResponseTimeMS, "error": r.Error}
		if r.Healthy {
			healthy++
		}
	}

	pct := float64(healthy) / float64(len(results))
	switch {
	case pct == 1:
		return Healthy("all sources healthy").WithDetails(details)
	case pct > 0:
		return Degraded("some source adapters degraded").WithDetails(details)
	default:
		return Unhealthy("all source adapters unhealthy", ErrCheckFailed).WithDetails(details)
	}
}
