package observe

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

type fakeSnapshotProvider struct {
	uptime  float64
	cache   CacheSnapshot
	tools   []ToolSnapshot
	sources []SourceSnapshot
}

func (f *fakeSnapshotProvider) UptimeSeconds() float64           { return f.uptime }
func (f *fakeSnapshotProvider) MemoryBytes() (float64, float64)  { return 1024, 512 }
func (f *fakeSnapshotProvider) Cache() CacheSnapshot             { return f.cache }
func (f *fakeSnapshotProvider) Tools() []ToolSnapshot            { return f.tools }
func (f *fakeSnapshotProvider) Sources() []SourceSnapshot        { return f.sources }

func TestPromExporter_EmitsSpecMandatedMetricNames(t *testing.T) {
	provider := &fakeSnapshotProvider{
		uptime: 120,
		cache:  CacheSnapshot{Hits: 9, Misses: 1, Operations: 10, HitRate: 0.9},
		tools: []ToolSnapshot{
			{Tool: "search_knowledge_base", Calls: 5, Errors: 1, AvgMS: 42.5, ErrorRate: 0.2},
		},
		sources: []SourceSnapshot{
			{Name: "confluence-prod", Type: "confluence", Healthy: true, ResponseTimeMS: 12.5},
		},
	}

	reg := prometheus.NewRegistry()
	exporter := NewPromExporter(provider)
	reg.MustRegister(exporter)

	got, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	names := make(map[string]bool, len(got))
	for _, mf := range got {
		names[mf.GetName()] = true
	}

	for _, want := range []string{
		"pp_uptime_seconds",
		"pp_memory_bytes",
		"pp_cache_hit_rate",
		"pp_cache_total",
		"pp_tool_calls_total",
		"pp_tool_errors_total",
		"pp_tool_avg_duration_ms",
		"pp_tool_error_rate",
		"pp_source_healthy",
		"pp_source_response_time_ms",
	} {
		if !names[want] {
			t.Errorf("missing expected metric %q", want)
		}
	}
}
