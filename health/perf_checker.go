package health

import (
	"context"

	"github.com/opsknowledge/retrieval-core/perf"
)

// PerfCheckerConfig tunes the thresholds PerfChecker degrades/fails on.
type PerfCheckerConfig struct {
	P95WarningMS   float64 // default 500
	P95CriticalMS  float64 // default 2000
	ErrorRateWarn  float64 // default 0.05
	ErrorRateCrit  float64 // default 0.25
}

func (c *PerfCheckerConfig) applyDefaults() {
	if c.P95WarningMS <= 0 {
		c.P95WarningMS = 500
	}
	if c.P95CriticalMS <= 0 {
		c.P95CriticalMS = 2000
	}
	if c.ErrorRateWarn <= 0 {
		c.ErrorRateWarn = 0.05
	}
	if c.ErrorRateCrit <= 0 {
		c.ErrorRateCrit = 0.25
	}
}

// PerfChecker reports the performance monitor's global view as a health
// signal, so slow or error-heavy traffic surfaces on /health alongside the
// dedicated /performance report.
type PerfChecker struct {
	monitor *perf.Monitor
	config  PerfCheckerConfig
}

// NewPerfChecker creates a PerfChecker for monitor.
func NewPerfChecker(monitor *perf.Monitor, config PerfCheckerConfig) *PerfChecker {
	config.applyDefaults()
	return &PerfChecker{monitor: monitor, config: config}
}

// Name returns the name of this checker.
func (p *PerfChecker) Name() string { return "performance" }

// Check performs the performance health check.
func (p *PerfChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	if p.monitor == nil {
		return Unhealthy("performance monitor not configured", ErrCheckFailed)
	}

	global := p.monitor.Global(0)
	details := map[string]any{
		"p95_ms":         global.P95MS,
		"p99_ms":         global.P99MS,
		"error_rate":     global.ErrorRate,
		"throughput_rps": global.ThroughputRPS,
		"resident_mb":    global.Resource.ResidentMB,
	}

	if global.P95MS >= p.config.P95CriticalMS || global.ErrorRate >= p.config.ErrorRateCrit {
		return Unhealthy("performance critical", ErrCheckFailed).WithDetails(details)
	}
	if global.P95MS >= p.config.P95WarningMS || global.ErrorRate >= p.config.ErrorRateWarn {
		return Degraded("performance degraded").WithDetails(details)
	}
	return Healthy("performance nominal").WithDetails(details)
}
