package alerting

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type recordingSink struct {
	calls int32
}

func (r *recordingSink) Notify(_ context.Context, _ Alert, _ string) error {
	atomic.AddInt32(&r.calls, 1)
	return nil
}

func TestService_TickRaisesOnTriggerAndResolvesOnClear(t *testing.T) {
	healthy := true
	sink := &recordingSink{}
	svc := NewService(Config{
		Rules: []Rule{{ID: "always_or_never", Severity: SeverityHigh, Title: "t", Cooldown: 0, Enabled: true,
			Predicate: func(Snapshot) bool { return !healthy }}},
		SnapshotFn: func(context.Context) Snapshot { return Snapshot{} },
		Sinks:      []Sink{sink},
	})

	healthy = false
	svc.Tick(context.Background())
	if len(svc.Active()) != 1 {
		t.Fatalf("Active() len = %d, want 1 after predicate trips", len(svc.Active()))
	}

	healthy = true
	svc.Tick(context.Background())
	if len(svc.Active()) != 0 {
		t.Errorf("Active() len = %d, want 0 after predicate clears", len(svc.Active()))
	}
	if atomic.LoadInt32(&sink.calls) != 2 {
		t.Errorf("sink notified %d times, want 2 (raise + resolve)", sink.calls)
	}
}

func TestService_ResolveAlert(t *testing.T) {
	healthy := true
	sink := &recordingSink{}
	svc := NewService(Config{
		Rules: []Rule{{ID: "r1", Severity: SeverityHigh, Title: "t", Cooldown: 0, Enabled: true,
			Predicate: func(Snapshot) bool { return !healthy }}},
		SnapshotFn: func(context.Context) Snapshot { return Snapshot{} },
		Sinks:      []Sink{sink},
	})

	healthy = false
	svc.Tick(context.Background())
	active := svc.Active()
	if len(active) != 1 {
		t.Fatalf("Active() len = %d, want 1", len(active))
	}

	resolved, ok := svc.ResolveAlert(context.Background(), active[0].ID)
	if !ok || !resolved.Resolved {
		t.Fatal("ResolveAlert() did not resolve the active alert")
	}
	if len(svc.Active()) != 0 {
		t.Errorf("Active() len = %d, want 0 after manual resolve", len(svc.Active()))
	}
}

func TestService_ResolveAlert_UnknownIDReturnsFalse(t *testing.T) {
	svc := NewService(Config{})
	if _, ok := svc.ResolveAlert(context.Background(), "no-such-id"); ok {
		t.Error("ResolveAlert() on unknown id = true, want false")
	}
}

func TestService_CooldownPreventsRefire(t *testing.T) {
	sink := &recordingSink{}
	svc := NewService(Config{
		Rules: []Rule{{ID: "always", Severity: SeverityLow, Title: "t", Cooldown: time.Hour, Enabled: true,
			Predicate: func(Snapshot) bool { return true }}},
		SnapshotFn: func(context.Context) Snapshot { return Snapshot{} },
		Sinks:      []Sink{sink},
	})

	svc.Tick(context.Background())
	svc.Tick(context.Background())
	svc.Tick(context.Background())

	if len(svc.History()) != 1 {
		t.Errorf("History() len = %d, want 1 (cooldown suppresses refire)", len(svc.History()))
	}
}

func TestService_StartStopIsIdempotent(t *testing.T) {
	svc := NewService(Config{
		CheckInterval: 5 * time.Millisecond,
		SnapshotFn:    func(context.Context) Snapshot { return Snapshot{} },
	})
	ctx := context.Background()
	svc.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	svc.Stop()
	svc.Stop()
}
