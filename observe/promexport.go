package observe

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CacheSnapshot is a point-in-time view of cache counters for Prometheus
// exposition. Deliberately plain data rather than the cache package's own
// Stats type, since observe cannot import cache (cache imports observe for
// its Logger).
type CacheSnapshot struct {
	Hits       int64
	Misses     int64
	Operations int64
	HitRate    float64
}

// ToolSnapshot is a point-in-time view of one tool's performance counters.
type ToolSnapshot struct {
	Tool      string
	Calls     int64
	Errors    int64
	AvgMS     float64
	ErrorRate float64
}

// SourceSnapshot is a point-in-time view of one adapter's health.
type SourceSnapshot struct {
	Name           string
	Type           string
	Healthy        bool
	ResponseTimeMS float64
}

// SnapshotProvider supplies the live values a PromExporter scrapes. Callers
// (cmd/server) implement it by adapting cache.Service, perf.Monitor, and
// adapter.Registry, which observe itself cannot import without introducing
// an import cycle.
type SnapshotProvider interface {
	UptimeSeconds() float64
	MemoryBytes() (resident, heap float64)
	Cache() CacheSnapshot
	Tools() []ToolSnapshot
	Sources() []SourceSnapshot
}

// PromExporter is a direct prometheus/client_golang collector producing the
// exact `pp_*` metric names and labels of §6's Prometheus exposition list.
// It exists alongside the OTel-based Prometheus bridge in exporters/factory.go
// because that bridge derives metric names from the OTel instrument names
// recorded in metrics.go (`tool.exec.*`) and cannot be made to emit the
// spec-mandated `pp_*` names/labels without renaming those instruments and
// breaking the OTel pipeline's own naming; a second, narrower exporter
// avoids that conflict.
type PromExporter struct {
	provider SnapshotProvider

	uptime     *prometheus.Desc
	memory     *prometheus.Desc
	cacheRate  *prometheus.Desc
	cacheTotal *prometheus.Desc
	toolCalls  *prometheus.Desc
	toolErrors *prometheus.Desc
	toolAvgMS  *prometheus.Desc
	toolErrRate *prometheus.Desc
	sourceHealthy *prometheus.Desc
	sourceRespMS  *prometheus.Desc
}

// NewPromExporter builds a PromExporter reading live values from provider.
func NewPromExporter(provider SnapshotProvider) *PromExporter {
	return &PromExporter{
		provider:   provider,
		uptime:     prometheus.NewDesc("pp_uptime_seconds", "Seconds since process start", nil, nil),
		memory:     prometheus.NewDesc("pp_memory_bytes", "Process memory usage", []string{"kind"}, nil),
		cacheRate:  prometheus.NewDesc("pp_cache_hit_rate", "Cache hit rate across all content types", nil, nil),
		cacheTotal: prometheus.NewDesc("pp_cache_total", "Cache operation counters", []string{"outcome"}, nil),
		toolCalls:  prometheus.NewDesc("pp_tool_calls_total", "Total tool calls", []string{"tool"}, nil),
		toolErrors: prometheus.NewDesc("pp_tool_errors_total", "Total tool call errors", []string{"tool"}, nil),
		toolAvgMS:  prometheus.NewDesc("pp_tool_avg_duration_ms", "Average tool call duration in ms", []string{"tool"}, nil),
		toolErrRate: prometheus.NewDesc("pp_tool_error_rate", "Tool error rate", []string{"tool"}, nil),
		sourceHealthy: prometheus.NewDesc("pp_source_healthy", "1 if the source adapter's last health check passed", []string{"source", "type"}, nil),
		sourceRespMS:  prometheus.NewDesc("pp_source_response_time_ms", "Source adapter health check response time in ms", []string{"source", "type"}, nil),
	}
}

// Describe implements prometheus.Collector.
func (e *PromExporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- e.uptime
	ch <- e.memory
	ch <- e.cacheRate
	ch <- e.cacheTotal
	ch <- e.toolCalls
	ch <- e.toolErrors
	ch <- e.toolAvgMS
	ch <- e.toolErrRate
	ch <- e.sourceHealthy
	ch <- e.sourceRespMS
}

// Collect implements prometheus.Collector, reading a fresh snapshot from
// provider on every scrape.
func (e *PromExporter) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(e.uptime, prometheus.GaugeValue, e.provider.UptimeSeconds())

	resident, heap := e.provider.MemoryBytes()
	ch <- prometheus.MustNewConstMetric(e.memory, prometheus.GaugeValue, resident, "resident")
	ch <- prometheus.MustNewConstMetric(e.memory, prometheus.GaugeValue, heap, "heap")

	c := e.provider.Cache()
	ch <- prometheus.MustNewConstMetric(e.cacheRate, prometheus.GaugeValue, c.HitRate)
	ch <- prometheus.MustNewConstMetric(e.cacheTotal, prometheus.CounterValue, float64(c.Hits), "hits")
	ch <- prometheus.MustNewConstMetric(e.cacheTotal, prometheus.CounterValue, float64(c.Misses), "misses")
	ch <- prometheus.MustNewConstMetric(e.cacheTotal, prometheus.CounterValue, float64(c.Operations), "operations")

	for _, t := range e.provider.Tools() {
		ch <- prometheus.MustNewConstMetric(e.toolCalls, prometheus.CounterValue, float64(t.Calls), t.Tool)
		ch <- prometheus.MustNewConstMetric(e.toolErrors, prometheus.CounterValue, float64(t.Errors), t.Tool)
		ch <- prometheus.MustNewConstMetric(e.toolAvgMS, prometheus.GaugeValue, t.AvgMS, t.Tool)
		ch <- prometheus.MustNewConstMetric(e.toolErrRate, prometheus.GaugeValue, t.ErrorRate, t.Tool)
	}

	for _, s := range e.provider.Sources() {
		healthy := 0.0
		if s.Healthy {
			healthy = 1.0
		}
		ch <- prometheus.MustNewConstMetric(e.sourceHealthy, prometheus.GaugeValue, healthy, s.Name, s.Type)
		ch <- prometheus.MustNewConstMetric(e.sourceRespMS, prometheus.GaugeValue, s.ResponseTimeMS, s.Name, s.Type)
	}
}

// MustRegister registers e with reg, panicking on a duplicate
// registration (the same failure mode client_golang itself uses).
func MustRegister(reg *prometheus.Registry, e *PromExporter) {
	reg.MustRegister(e)
}
