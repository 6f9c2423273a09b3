package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRemoteTier(t *testing.T) (*RemoteTier, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRemoteTier(client, nil, "ops:"), mr
}

func TestRemoteTier_SetGetDelete(t *testing.T) {
	r, _ := newTestRemoteTier(t)
	ctx := context.Background()
	entry := Entry{Payload: []byte("hello"), InsertedAt: time.Now(), ContentType: ContentRunbooks}

	if err := r.set(ctx, "runbooks:a", entry, time.Minute); err != nil {
		t.Fatalf("set() error = %v", err)
	}
	got, ok, err := r.get(ctx, "runbooks:a")
	if err != nil || !ok {
		t.Fatalf("get() = (%v, %v, %v), want hit", got, ok, err)
	}
	if string(got.Payload) != "hello" {
		t.Errorf("Payload = %q, want hello", got.Payload)
	}

	if err := r.delete(ctx, "runbooks:a"); err != nil {
		t.Fatalf("delete() error = %v", err)
	}
	if _, ok, _ := r.get(ctx, "runbooks:a"); ok {
		t.Error("get() after delete = hit, want miss")
	}
}

func TestRemoteTier_ClearByPrefix(t *testing.T) {
	r, _ := newTestRemoteTier(t)
	ctx := context.Background()
	entry := Entry{Payload: []byte("x"), InsertedAt: time.Now()}

	_ = r.set(ctx, "runbooks:1", entry, time.Minute)
	_ = r.set(ctx, "runbooks:2", entry, time.Minute)
	_ = r.set(ctx, "procedures:1", entry, time.Minute)

	if err := r.clearByPrefix(ctx, "runbooks:"); err != nil {
		t.Fatalf("clearByPrefix() error = %v", err)
	}
	if _, ok, _ := r.get(ctx, "runbooks:1"); ok {
		t.Error("get(runbooks:1) = hit, want miss after clearByPrefix")
	}
	if _, ok, _ := r.get(ctx, "procedures:1"); !ok {
		t.Error("get(procedures:1) = miss, want hit (different prefix untouched)")
	}
}

func TestRemoteTier_Ping(t *testing.T) {
	r, mr := newTestRemoteTier(t)
	if err := r.ping(context.Background()); err != nil {
		t.Fatalf("ping() error = %v", err)
	}
	mr.Close()
	if err := r.ping(context.Background()); err == nil {
		t.Error("ping() after server close = nil, want error")
	}
}
