package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/opsknowledge/retrieval-core/breaker"
)

func TestService_MemoryOnly_SetThenGet(t *testing.T) {
	svc := NewService(Config{
		Enabled:  true,
		Strategy: StrategyMemoryOnly,
		Policy:   DefaultPolicy(),
	}, NewMemoryTier(100), nil)

	fp := Fingerprint{ContentType: ContentRunbooks, Identifier: "alert-1"}
	ctx := context.Background()

	if _, ok := svc.Get(ctx, fp); ok {
		t.Fatal("Get() before Set() = hit, want miss")
	}
	if err := svc.Set(ctx, fp, []byte("payload")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok := svc.Get(ctx, fp)
	if !ok {
		t.Fatal("Get() after Set() = miss, want hit")
	}
	if string(got) != "payload" {
		t.Errorf("Get() = %q, want payload", got)
	}

	stats := svc.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want Hits=1 Misses=1", stats)
	}
	if stats.HitRate() != 0.5 {
		t.Errorf("HitRate() = %v, want 0.5", stats.HitRate())
	}
}

func TestService_Disabled_AlwaysMisses(t *testing.T) {
	svc := NewService(Config{Enabled: false, Strategy: StrategyMemoryOnly}, NewMemoryTier(10), nil)
	ctx := context.Background()
	fp := Fingerprint{ContentType: ContentRunbooks, Identifier: "x"}

	_ = svc.Set(ctx, fp, []byte("x"))
	if _, ok := svc.Get(ctx, fp); ok {
		t.Error("Get() on disabled service = hit, want miss")
	}
}

func TestService_Delete(t *testing.T) {
	svc := NewService(Config{Enabled: true, Strategy: StrategyMemoryOnly, Policy: DefaultPolicy()}, NewMemoryTier(10), nil)
	ctx := context.Background()
	fp := Fingerprint{ContentType: ContentRunbooks, Identifier: "x"}

	_ = svc.Set(ctx, fp, []byte("x"))
	if err := svc.Delete(ctx, fp); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := svc.Get(ctx, fp); ok {
		t.Error("Get() after Delete() = hit, want miss")
	}
}

func newHybridService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	remote := NewRemoteTier(client, nil, "ops:")
	cb := breaker.New(breaker.Config{Name: "cache-test", FailureThreshold: 3, OpenTimeout: time.Minute})

	svc := NewService(Config{
		Enabled:  true,
		Strategy: StrategyHybrid,
		Policy:   DefaultPolicy(),
		Breaker:  cb,
	}, NewMemoryTier(100), remote)

	return svc, mr
}

func TestService_Hybrid_RemoteHitBackfillsLocal(t *testing.T) {
	svc, _ := newHybridService(t)
	ctx := context.Background()
	fp := Fingerprint{ContentType: ContentRunbooks, Identifier: "x"}

	if err := svc.remote.set(ctx, fp.localKey(), Entry{Payload: []byte("from-remote"), InsertedAt: time.Now(), ContentType: fp.ContentType}, time.Minute); err != nil {
		t.Fatalf("seeding remote failed: %v", err)
	}

	got, ok := svc.Get(ctx, fp)
	if !ok || string(got) != "from-remote" {
		t.Fatalf("Get() = (%q, %v), want (from-remote, true)", got, ok)
	}

	if _, localOK, _ := svc.local.get(ctx, fp.localKey()); !localOK {
		t.Error("local tier was not back-filled after a remote hit")
	}
}

func TestService_Hybrid_RemoteDown_LocalStillServes(t *testing.T) {
	svc, mr := newHybridService(t)
	ctx := context.Background()
	fp := Fingerprint{ContentType: ContentRunbooks, Identifier: "x"}

	if err := svc.Set(ctx, fp, []byte("still-here")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	mr.Close()

	got, ok := svc.Get(ctx, fp)
	if !ok || string(got) != "still-here" {
		t.Fatalf("Get() with remote down = (%q, %v), want (still-here, true)", got, ok)
	}

	health := svc.Health(ctx)
	if !health.OverallHealthy {
		t.Error("OverallHealthy = false, want true (strategy is hybrid, not remote_only)")
	}
	if health.RemoteHealthy {
		t.Error("RemoteHealthy = true, want false with the remote server closed")
	}
}

func TestConfig_Validate_RequiresBreakerForRemoteStrategies(t *testing.T) {
	cfg := Config{Strategy: StrategyHybrid}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() = nil, want error when Breaker is nil and strategy is not memory_only")
	}

	cfg.Breaker = breaker.New(breaker.Config{})
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil once Breaker is set", err)
	}
}
