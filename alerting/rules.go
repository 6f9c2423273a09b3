package alerting

import "time"

// Severity ranks an alert's urgency.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Snapshot is the metrics view a rule's predicate evaluates against. It is
// assembled fresh on every evaluation tick from the performance monitor, the
// cache service, and the server's own health flag.
type Snapshot struct {
	ServerHealthy      bool
	LocalCacheHealthy  bool
	RemoteCacheHealthy bool
	RemoteCacheEnabled bool
	P95MS              float64
	ResidentMB         float64
	ErrorRate          float64
	CacheHitRate       float64
	AdapterHealthyPct  float64
	ThroughputRPS      float64
}

// Rule is a named predicate with a severity and a cooldown between raises.
type Rule struct {
	ID        string
	Severity  Severity
	Title     string
	Predicate func(Snapshot) bool
	Cooldown  time.Duration
	Enabled   bool
}

// DefaultRules returns the nine built-in monitoring rules, enabled, in the
// order they should be evaluated each tick.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:        "system_down",
			Severity:  SeverityCritical,
			Title:     "server health check is failing",
			Predicate: func(s Snapshot) bool { return !s.ServerHealthy },
			Cooldown:  60 * time.Second,
			Enabled:   true,
		},
		{
			ID:        "cache_down",
			Severity:  SeverityCritical,
			Title:     "both cache tiers are unhealthy",
			Predicate: func(s Snapshot) bool { return !s.LocalCacheHealthy && !s.RemoteCacheHealthy },
			Cooldown:  300 * time.Second,
			Enabled:   true,
		},
		{
			ID:        "high_response_time",
			Severity:  SeverityHigh,
			Title:     "p95 response time exceeds 2000ms",
			Predicate: func(s Snapshot) bool { return s.P95MS > 2000 },
			Cooldown:  300 * time.Second,
			Enabled:   true,
		},
		{
			ID:        "high_memory_usage",
			Severity:  SeverityHigh,
			Title:     "resident memory exceeds 2048MB",
			Predicate: func(s Snapshot) bool { return s.ResidentMB > 2048 },
			Cooldown:  600 * time.Second,
			Enabled:   true,
		},
		{
			ID:        "high_error_rate",
			Severity:  SeverityHigh,
			Title:     "error rate exceeds 10%",
			Predicate: func(s Snapshot) bool { return s.ErrorRate > 0.10 },
			Cooldown:  300 * time.Second,
			Enabled:   true,
		},
		{
			ID:        "low_cache_hit_rate",
			Severity:  SeverityMedium,
			Title:     "cache hit rate below 50%",
			Predicate: func(s Snapshot) bool { return s.CacheHitRate < 0.5 },
			Cooldown:  900 * time.Second,
			Enabled:   true,
		},
		{
			ID:        "source_adapters_degraded",
			Severity:  SeverityMedium,
			Title:     "fewer than half of source adapters are healthy",
			Predicate: func(s Snapshot) bool { return s.AdapterHealthyPct < 50 },
			Cooldown:  600 * time.Second,
			Enabled:   true,
		},
		{
			ID:        "low_throughput",
			Severity:  SeverityMedium,
			Title:     "throughput has dropped below 1 request/sec",
			Predicate: func(s Snapshot) bool { return s.ThroughputRPS > 0 && s.ThroughputRPS < 1 },
			Cooldown:  900 * time.Second,
			Enabled:   true,
		},
		{
			ID:        "redis_connection_issues",
			Severity:  SeverityLow,
			Title:     "remote cache is enabled but not connected",
			Predicate: func(s Snapshot) bool { return s.RemoteCacheEnabled && !s.RemoteCacheHealthy },
			Cooldown:  1800 * time.Second,
			Enabled:   true,
		},
	}
}
