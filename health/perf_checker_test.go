package health

import (
	"context"
	"testing"

	"github.com/opsknowledge/retrieval-core/perf"
)

func TestPerfChecker_NoSamplesIsHealthy(t *testing.T) {
	monitor := perf.NewMonitor(100, nil)
	c := NewPerfChecker(monitor, PerfCheckerConfig{})
	result := c.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want StatusHealthy with no recorded samples", result.Status)
	}
}

func TestPerfChecker_HighP95IsDegraded(t *testing.T) {
	monitor := perf.NewMonitor(100, nil)
	for i := 0; i < 20; i++ {
		monitor.Record("search_knowledge_base", 600, false)
	}
	c := NewPerfChecker(monitor, PerfCheckerConfig{P95WarningMS: 500, P95CriticalMS: 2000})
	result := c.Check(context.Background())
	if result.Status != StatusDegraded {
		t.Errorf("Status = %v, want StatusDegraded with p95 above warning threshold", result.Status)
	}
}

func TestPerfChecker_HighErrorRateIsCritical(t *testing.T) {
	monitor := perf.NewMonitor(100, nil)
	for i := 0; i < 10; i++ {
		monitor.Record("search_knowledge_base", 10, true)
	}
	c := NewPerfChecker(monitor, PerfCheckerConfig{ErrorRateCrit: 0.25})
	result := c.Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy with a 100%% error rate", result.Status)
	}
}

func TestPerfChecker_NilMonitorIsUnhealthy(t *testing.T) {
	c := NewPerfChecker(nil, PerfCheckerConfig{})
	result := c.Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy for a nil monitor", result.Status)
	}
}
