package pipeline

import "testing"

func TestPerformanceTier_StrictVsLoose(t *testing.T) {
	if got := PerformanceTier("search_runbooks", 200); got != "good" {
		t.Errorf("PerformanceTier(strict, 200ms) = %q, want good", got)
	}
	if got := PerformanceTier("search_knowledge_base", 200); got != "excellent" {
		t.Errorf("PerformanceTier(loose, 200ms) = %q, want excellent", got)
	}
}

func TestPerformanceTier_Slow(t *testing.T) {
	if got := PerformanceTier("get_procedure", 5000); got != "slow" {
		t.Errorf("PerformanceTier() = %q, want slow", got)
	}
}

func TestShapeSuccess_CarriesMetadata(t *testing.T) {
	env := ShapeSuccess("req_1", "search_runbooks", "data", 100, "critical_incident", true)
	if !env.Success {
		t.Fatal("ShapeSuccess() Success = false, want true")
	}
	if env.Metadata.CorrelationID != "req_1" || !env.Metadata.Cached {
		t.Errorf("Metadata = %+v, want correlation_id=req_1 cached=true", env.Metadata)
	}
}
