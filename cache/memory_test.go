package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemoryTier_SetGetDelete(t *testing.T) {
	m := NewMemoryTier(10)
	ctx := context.Background()
	entry := Entry{Payload: []byte("hello"), InsertedAt: time.Now(), ContentType: ContentRunbooks}

	if err := m.set(ctx, "runbooks:a", entry, time.Minute); err != nil {
		t.Fatalf("set() error = %v", err)
	}
	got, ok, err := m.get(ctx, "runbooks:a")
	if err != nil || !ok {
		t.Fatalf("get() = (%v, %v, %v), want hit", got, ok, err)
	}
	if string(got.Payload) != "hello" {
		t.Errorf("Payload = %q, want hello", got.Payload)
	}

	if err := m.delete(ctx, "runbooks:a"); err != nil {
		t.Fatalf("delete() error = %v", err)
	}
	if _, ok, _ := m.get(ctx, "runbooks:a"); ok {
		t.Error("get() after delete = hit, want miss")
	}
}

func TestMemoryTier_ExpiresByTTL(t *testing.T) {
	m := NewMemoryTier(10)
	ctx := context.Background()
	entry := Entry{Payload: []byte("x"), InsertedAt: time.Now(), ContentType: ContentRunbooks}

	_ = m.set(ctx, "k", entry, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if _, ok, _ := m.get(ctx, "k"); ok {
		t.Error("get() after TTL expiry = hit, want miss")
	}
}

func TestMemoryTier_EvictsAtCapacity(t *testing.T) {
	m := NewMemoryTier(2)
	ctx := context.Background()
	entry := Entry{Payload: []byte("x"), InsertedAt: time.Now(), ContentType: ContentRunbooks}

	_ = m.set(ctx, "a", entry, time.Minute)
	_ = m.set(ctx, "b", entry, time.Minute)
	_ = m.set(ctx, "c", entry, time.Minute)

	if m.Len() > 2 {
		t.Errorf("Len() = %d, want <= 2 after exceeding capacity", m.Len())
	}
	if _, ok, _ := m.get(ctx, "a"); ok {
		t.Error("get(a) = hit, want the least-recently-used key evicted")
	}
}

func TestMemoryTier_ClearByPrefix(t *testing.T) {
	m := NewMemoryTier(10)
	ctx := context.Background()
	entry := Entry{Payload: []byte("x"), InsertedAt: time.Now()}

	for i := 0; i < 3; i++ {
		_ = m.set(ctx, fmt.Sprintf("runbooks:%d", i), entry, time.Minute)
	}
	_ = m.set(ctx, "procedures:0", entry, time.Minute)

	if err := m.clearByPrefix(ctx, "runbooks:"); err != nil {
		t.Fatalf("clearByPrefix() error = %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("Len() after clearByPrefix = %d, want 1", m.Len())
	}
	if _, ok, _ := m.get(ctx, "procedures:0"); !ok {
		t.Error("get(procedures:0) = miss, want hit (different prefix untouched)")
	}
}
