package connmgr

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/opsknowledge/retrieval-core/breaker"
)

func TestManager_ConnectsSuccessfully(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mgr := New(ctx, Config{
		Dial: func(context.Context) error { return nil },
	})
	defer mgr.Shutdown()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()
	if err := mgr.WaitConnected(waitCtx); err != nil {
		t.Fatalf("WaitConnected() error = %v", err)
	}
	if mgr.Phase() != PhaseConnected {
		t.Errorf("Phase() = %v, want connected", mgr.Phase())
	}
}

func TestManager_RetriesOnFailureThenConnects(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var attempts int32
	mgr := New(ctx, Config{
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Dial: func(context.Context) error {
			if atomic.AddInt32(&attempts, 1) < 3 {
				return errors.New("dial failed")
			}
			return nil
		},
	})
	defer mgr.Shutdown()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()
	if err := mgr.WaitConnected(waitCtx); err != nil {
		t.Fatalf("WaitConnected() error = %v", err)
	}
	if atomic.LoadInt32(&attempts) < 3 {
		t.Errorf("attempts = %d, want >= 3", attempts)
	}
}

func TestManager_CircuitOpenPhase(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cb := breaker.New(breaker.Config{FailureThreshold: 1, OpenTimeout: time.Hour})
	mgr := New(ctx, Config{
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
		Breaker:        cb,
		Dial:           func(context.Context) error { return errors.New("down") },
	})
	defer mgr.Shutdown()

	deadline := time.After(time.Second)
	for {
		if mgr.Phase() == PhaseCircuitOpen {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("manager never reached circuit_open, phase = %v", mgr.Phase())
		case <-time.After(time.Millisecond):
		}
	}
}

func TestManager_ShutdownUnblocksWaiters(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mgr := New(ctx, Config{
		InitialBackoff: time.Millisecond,
		Dial:           func(context.Context) error { return errors.New("down") },
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- mgr.WaitConnected(context.Background())
	}()

	time.Sleep(5 * time.Millisecond)
	mgr.Shutdown()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrShutdown) {
			t.Errorf("WaitConnected() error = %v, want ErrShutdown", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitConnected did not unblock after Shutdown")
	}
}

func TestManager_MarkFailedTriggersReconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var attempts int32
	mgr := New(ctx, Config{
		InitialBackoff: time.Millisecond,
		Dial: func(context.Context) error {
			atomic.AddInt32(&attempts, 1)
			return nil
		},
	})
	defer mgr.Shutdown()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()
	if err := mgr.WaitConnected(waitCtx); err != nil {
		t.Fatalf("WaitConnected() error = %v", err)
	}

	first := atomic.LoadInt32(&attempts)
	mgr.MarkFailed()

	deadline := time.After(time.Second)
	for atomic.LoadInt32(&attempts) <= first {
		select {
		case <-deadline:
			t.Fatal("MarkFailed did not trigger a new dial attempt")
		case <-time.After(time.Millisecond):
		}
	}
}
