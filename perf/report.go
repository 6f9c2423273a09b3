package perf

import "fmt"

// Report is generated by GenerateReport for human-facing monitoring
// surfaces (e.g. a /monitoring/report HTTP route).
type Report struct {
	Summary         GlobalView
	PerTool         []ToolStats
	Recommendations []string
	Alerts          []string
}

// thresholds used to derive Recommendations. They are separate from, and
// lower than, the monitoring rule thresholds in the alerting package, and
// are evaluated independently here since a Report can be generated without
// an alerting service wired in at all.
const (
	p95CachingThresholdMS  = 1000
	memoryOptimizeThreshMB = 1024
	errorRateThreshold     = 0.05
)

// GenerateReport summarizes the monitor's current state. externalAlerts
// lets a caller (typically the alerting service) fold its own active-alert
// summaries into the report without perf importing the alerting package.
func (m *Monitor) GenerateReport(externalAlerts []string) Report {
	global := m.Global(0)
	perTool := m.AllToolStats()

	return Report{
		Summary:         global,
		PerTool:         perTool,
		Recommendations: recommendations(global, perTool),
		Alerts:          externalAlerts,
	}
}

func recommendations(global GlobalView, perTool []ToolStats) []string {
	var recs []string

	if global.P95MS > p95CachingThresholdMS {
		recs = append(recs, fmt.Sprintf("p95 latency %.0fms exceeds %dms: consider caching", global.P95MS, p95CachingThresholdMS))
	}
	if global.Resource.ResidentMB > memoryOptimizeThreshMB {
		recs = append(recs, fmt.Sprintf("resident memory %.0fMB exceeds %dMB: optimize memory", global.Resource.ResidentMB, memoryOptimizeThreshMB))
	}
	if global.ErrorRate > errorRateThreshold {
		recs = append(recs, fmt.Sprintf("error rate %.2f%% exceeds %.2f%%: investigate failing tools", global.ErrorRate*100, errorRateThreshold*100))
	}

	for _, ts := range perTool {
		if ts.P95MS > p95CachingThresholdMS {
			recs = append(recs, fmt.Sprintf("tool %q p95 latency %.0fms exceeds %dms: consider caching", ts.Tool, ts.P95MS, p95CachingThresholdMS))
		}
	}

	return recs
}
