package main

import (
	"context"
	"runtime"
	"time"

	"github.com/opsknowledge/retrieval-core/adapter"
	"github.com/opsknowledge/retrieval-core/cache"
	"github.com/opsknowledge/retrieval-core/observe"
	"github.com/opsknowledge/retrieval-core/perf"
)

// serverSnapshot adapts cache.Service, perf.Monitor, and adapter.Registry
// into observe.SnapshotProvider, the shape the Prometheus exporter and the
// HTTP /metrics JSON handler both scrape. observe itself cannot implement
// this directly without importing cache/perf/adapter and creating an
// import cycle, so the adaptation lives here.
type serverSnapshot struct {
	cache          *cache.Service
	monitor        *perf.Monitor
	adapters       *adapter.Registry
	adapterTimeout time.Duration
}

func (s *serverSnapshot) UptimeSeconds() float64 {
	return s.monitor.Uptime().Seconds()
}

func (s *serverSnapshot) MemoryBytes() (resident, heap float64) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return float64(ms.Sys), float64(ms.HeapAlloc)
}

func (s *serverSnapshot) Cache() observe.CacheSnapshot {
	stats := s.cache.Stats()
	return observe.CacheSnapshot{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Operations: stats.TotalOps,
		HitRate:    stats.HitRate(),
	}
}

func (s *serverSnapshot) Tools() []observe.ToolSnapshot {
	all := s.monitor.AllToolStats()
	out := make([]observe.ToolSnapshot, 0, len(all))
	for _, t := range all {
		errorRate := 0.0
		if t.TotalCalls > 0 {
			errorRate = float64(t.TotalErrors) / float64(t.TotalCalls)
		}
		out = append(out, observe.ToolSnapshot{
			Tool:      t.Tool,
			Calls:     t.TotalCalls,
			Errors:    t.TotalErrors,
			AvgMS:     t.AvgMS,
			ErrorRate: errorRate,
		})
	}
	return out
}

func (s *serverSnapshot) Sources() []observe.SourceSnapshot {
	ctx, cancel := context.WithTimeout(context.Background(), s.adapterTimeout)
	defer cancel()

	results := s.adapters.HealthCheckAll(ctx, s.adapterTimeout)
	out := make([]observe.SourceSnapshot, 0, len(results))
	for name, result := range results {
		typ := ""
		if a, err := s.adapters.Get(name); err == nil {
			typ = a.GetMetadata().Type
		}
		out = append(out, observe.SourceSnapshot{
			Name:           name,
			Type:           typ,
			Healthy:        result.Healthy,
			ResponseTimeMS: result.ResponseTimeMS,
		})
	}
	return out
}
