package alerting

import (
	"testing"
	"time"
)

func testRule(id string, cooldown time.Duration) Rule {
	return Rule{ID: id, Severity: SeverityMedium, Title: "test", Cooldown: cooldown, Enabled: true}
}

func TestStore_RaiseThenResolve(t *testing.T) {
	s := NewStore(0, 0, nil)
	now := time.Now()
	rule := testRule("r1", time.Second)

	alert := s.Raise(rule, Snapshot{}, now)
	if alert == nil {
		t.Fatal("Raise() = nil, want alert")
	}
	if len(s.Active()) != 1 {
		t.Fatalf("Active() len = %d, want 1", len(s.Active()))
	}

	resolved := s.Resolve("r1", now.Add(time.Minute))
	if resolved == nil || !resolved.Resolved {
		t.Fatal("Resolve() did not mark alert resolved")
	}
	if len(s.Active()) != 0 {
		t.Errorf("Active() len = %d, want 0 after resolve", len(s.Active()))
	}
	if len(s.History()) != 1 {
		t.Errorf("History() len = %d, want 1", len(s.History()))
	}
}

func TestStore_ResolveByID(t *testing.T) {
	s := NewStore(0, 0, nil)
	now := time.Now()
	rule := testRule("r1", time.Second)

	alert := s.Raise(rule, Snapshot{}, now)
	if alert == nil {
		t.Fatal("Raise() = nil, want alert")
	}

	resolved := s.ResolveByID(alert.ID, now.Add(time.Minute))
	if resolved == nil || !resolved.Resolved {
		t.Fatal("ResolveByID() did not mark alert resolved")
	}
	if len(s.Active()) != 0 {
		t.Errorf("Active() len = %d, want 0 after resolve", len(s.Active()))
	}
}

func TestStore_ResolveByID_UnknownIDReturnsNil(t *testing.T) {
	s := NewStore(0, 0, nil)
	if s.ResolveByID("no-such-id", time.Now()) != nil {
		t.Error("ResolveByID() on unknown id = non-nil, want nil")
	}
}

func TestStore_OneActivePerRule(t *testing.T) {
	s := NewStore(0, 0, nil)
	now := time.Now()
	rule := testRule("r1", time.Second)

	s.Raise(rule, Snapshot{}, now)
	s.Raise(rule, Snapshot{}, now.Add(time.Millisecond))

	if len(s.Active()) != 1 {
		t.Errorf("Active() len = %d, want 1 (at most one active alert per rule)", len(s.Active()))
	}
}

func TestStore_ReadyToTrigger_RespectsCooldown(t *testing.T) {
	s := NewStore(0, 0, nil)
	now := time.Now()
	rule := testRule("r1", 500*time.Millisecond)

	if !s.ReadyToTrigger(rule.ID, rule.Cooldown, now) {
		t.Fatal("ReadyToTrigger() before any raise = false, want true")
	}
	s.Raise(rule, Snapshot{}, now)

	if s.ReadyToTrigger(rule.ID, rule.Cooldown, now.Add(100*time.Millisecond)) {
		t.Error("ReadyToTrigger() within cooldown = true, want false")
	}
	if !s.ReadyToTrigger(rule.ID, rule.Cooldown, now.Add(600*time.Millisecond)) {
		t.Error("ReadyToTrigger() after cooldown = false, want true")
	}
}

func TestStore_MaxActiveAlertsSkipsNewRules(t *testing.T) {
	var skipped string
	s := NewStore(1, 0, func(ruleID string) { skipped = ruleID })
	now := time.Now()

	s.Raise(testRule("r1", time.Second), Snapshot{}, now)
	alert := s.Raise(testRule("r2", time.Second), Snapshot{}, now)

	if alert != nil {
		t.Error("Raise() beyond max_active_alerts = alert, want nil")
	}
	if skipped != "r2" {
		t.Errorf("onSkip called with %q, want r2", skipped)
	}
}

func TestStore_HistoryPrunedByRetention(t *testing.T) {
	s := NewStore(0, time.Hour, nil)
	old := time.Now().Add(-2 * time.Hour)
	s.Raise(testRule("old", time.Second), Snapshot{}, old)
	s.Raise(testRule("new", time.Second), Snapshot{}, time.Now())

	hist := s.History()
	if len(hist) != 1 || hist[0].RuleID != "new" {
		t.Errorf("History() = %+v, want only the recent alert after retention pruning", hist)
	}
}
