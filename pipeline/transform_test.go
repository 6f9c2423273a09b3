package pipeline

import "testing"

func TestSanitize_StripsDangerousFieldNames(t *testing.T) {
	args := map[string]any{"__proto__": map[string]any{"polluted": true}, "query": "disk"}
	clean := Sanitize(args)
	if _, present := clean["__proto__"]; present {
		t.Error("Sanitize() did not strip __proto__")
	}
}

func TestSanitize_StripsSensitiveContextFields(t *testing.T) {
	args := map[string]any{
		"context": map[string]any{"password": "hunter2", "region": "us-east"},
	}
	clean := Sanitize(args)
	ctx := clean["context"].(map[string]any)
	if _, present := ctx["password"]; present {
		t.Error("Sanitize() did not strip password from context")
	}
	if _, present := ctx["region"]; !present {
		t.Error("Sanitize() removed a non-sensitive context field")
	}
}

func TestSanitize_StripsHTMLFromStrings(t *testing.T) {
	args := map[string]any{"query": "disk<script>alert(1)</script> space"}
	clean := Sanitize(args)
	if got := clean["query"].(string); got != "disk space" {
		t.Errorf("Sanitize() query = %q, want HTML stripped", got)
	}
}

func TestTransform_SearchKnowledgeBase_RejectsShortQuery(t *testing.T) {
	_, err := Transform("search_knowledge_base", map[string]any{"query": "a"}, "")
	if err == nil {
		t.Error("Transform() accepted a 1-character query, want rejection")
	}
}

func TestTransform_SearchKnowledgeBase_ClampsMaxResults(t *testing.T) {
	out, err := Transform("search_knowledge_base", map[string]any{"query": "disk alerts", "max_results": 500.0}, "")
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if out["max_results"].(float64) != 100 {
		t.Errorf("max_results = %v, want clamped to 100", out["max_results"])
	}
}

func TestTransform_SearchKnowledgeBase_MobileLowersMaxResults(t *testing.T) {
	out, err := Transform("search_knowledge_base", map[string]any{"query": "disk alerts", "max_results": 50.0}, "Mozilla/5.0 (iPhone)")
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if out["max_results"].(float64) > 10 {
		t.Errorf("max_results = %v, want <=10 for a mobile UA", out["max_results"])
	}
}

func TestTransform_SearchRunbooks_ComputesUrgencyAndTimeout(t *testing.T) {
	args := map[string]any{
		"alert_type":       "disk_full",
		"severity":         "critical",
		"affected_systems": []any{"DB-1", " db-2 "},
	}
	out, err := Transform("search_runbooks", args, "")
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if out["suggested_timeout_ms"].(int) != 3000 {
		t.Errorf("suggested_timeout_ms = %v, want 3000 for critical severity", out["suggested_timeout_ms"])
	}
	systems := out["affected_systems"].([]string)
	if systems[0] != "db-1" || systems[1] != "db-2" {
		t.Errorf("affected_systems = %v, want normalized lowercase/trimmed", systems)
	}
	if urgency := out["urgency_score"].(float64); urgency <= 0.8 {
		t.Errorf("urgency_score = %v, want >0.8 for critical severity", urgency)
	}
}

func TestTransform_EscalationPath_DefaultsFailedAttempts(t *testing.T) {
	out, err := Transform("get_escalation_path", map[string]any{"severity": "high", "business_hours": true}, "")
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if out["failed_attempts"].(float64) != 0 {
		t.Errorf("failed_attempts = %v, want defaulted to 0", out["failed_attempts"])
	}
}
