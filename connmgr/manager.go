package connmgr

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/opsknowledge/retrieval-core/breaker"
)

// Phase is the connection manager's lifecycle state.
type Phase int

const (
	// PhaseDisconnected means no connection attempt is currently in flight
	// and none has yet succeeded.
	PhaseDisconnected Phase = iota
	// PhaseConnecting means a dial attempt is in flight.
	PhaseConnecting
	// PhaseConnected means the last dial attempt succeeded and the
	// connection is presumed usable.
	PhaseConnected
	// PhaseFailed means the last dial attempt failed and a backed-off
	// retry is scheduled.
	PhaseFailed
	// PhaseCircuitOpen means the reconnect breaker has tripped; dial
	// attempts are suspended until the breaker allows a probe.
	PhaseCircuitOpen
)

// String returns the phase's string representation.
func (p Phase) String() string {
	switch p {
	case PhaseDisconnected:
		return "disconnected"
	case PhaseConnecting:
		return "connecting"
	case PhaseConnected:
		return "connected"
	case PhaseFailed:
		return "failed"
	case PhaseCircuitOpen:
		return "circuit_open"
	default:
		return "unknown"
	}
}

// Observer receives connection manager lifecycle events.
type Observer interface {
	// OnPhaseChange fires whenever the manager transitions between phases.
	OnPhaseChange(from, to Phase)
	// OnConnectionFailed fires after a dial attempt fails.
	OnConnectionFailed(err error)
}

// ObserverFuncs adapts plain functions to Observer; nil fields are no-ops.
type ObserverFuncs struct {
	PhaseChange      func(from, to Phase)
	ConnectionFailed func(err error)
}

func (f ObserverFuncs) OnPhaseChange(from, to Phase) {
	if f.PhaseChange != nil {
		f.PhaseChange(from, to)
	}
}

func (f ObserverFuncs) OnConnectionFailed(err error) {
	if f.ConnectionFailed != nil {
		f.ConnectionFailed(err)
	}
}

// Config configures a Manager.
type Config struct {
	// Dial attempts to (re)establish and verify the remote connection
	// (e.g. a redis PING). It must return promptly when ctx is canceled.
	Dial func(ctx context.Context) error

	// Breaker gates dial attempts; when it is open the manager reports
	// PhaseCircuitOpen instead of PhaseFailed. Callers typically obtain
	// this from a breaker.Registry with breaker.ClassCache.
	Breaker *breaker.CircuitBreaker

	// InitialBackoff is the delay before the first reconnect attempt
	// after a failure. Default: 200ms.
	InitialBackoff time.Duration

	// MaxBackoff caps the reconnect backoff delay. Default: 30s.
	MaxBackoff time.Duration
}

func (c *Config) applyDefaults() {
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 200 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 30 * time.Second
	}
}

// Manager maintains a single logical connection to a remote dependency
// (typically the remote cache tier's Redis client), reconnecting with
// exponential backoff on failure and gating reconnect attempts behind a
// circuit breaker so a persistently down dependency does not spin a
// dial-retry loop indefinitely. Callers block on WaitConnected rather than
// polling Phase.
type Manager struct {
	config Config

	mu       sync.RWMutex
	phase    Phase
	waitCh   chan struct{} // closed exactly once per CONNECTED phase
	failCh   chan struct{} // closed by MarkFailed to wake the connected-wait
	shutdown chan struct{}
	done     chan struct{}

	observers []Observer
}

// New creates a Manager and immediately starts its background reconnect
// loop using ctx as the loop's lifetime. Callers should also call Shutdown
// when done to stop the loop deterministically rather than relying solely
// on ctx cancellation.
func New(ctx context.Context, config Config) *Manager {
	config.applyDefaults()
	m := &Manager{
		config:   config,
		phase:    PhaseDisconnected,
		waitCh:   make(chan struct{}),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	go m.loop(ctx)
	return m
}

// Subscribe registers an Observer. It is safe for concurrent use; an
// observer added during a phase transition may miss that transition.
func (m *Manager) Subscribe(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, o)
}

// Phase returns the manager's current phase.
func (m *Manager) Phase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

// WaitConnected blocks until the manager reaches PhaseConnected, ctx is
// done, or the manager is shut down.
func (m *Manager) WaitConnected(ctx context.Context) error {
	for {
		m.mu.RLock()
		if m.phase == PhaseConnected {
			m.mu.RUnlock()
			return nil
		}
		ch := m.waitCh
		m.mu.RUnlock()

		select {
		case <-ch:
			// A new waitCh is installed on every phase change; loop to
			// re-check whether the change that woke us was the one we want.
		case <-ctx.Done():
			return ctx.Err()
		case <-m.shutdown:
			return ErrShutdown
		}
	}
}

// Shutdown stops the background reconnect loop and unblocks any waiters
// with ErrShutdown. Idempotent.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	select {
	case <-m.shutdown:
		m.mu.Unlock()
		return
	default:
		close(m.shutdown)
	}
	m.mu.Unlock()
	<-m.done
}

func (m *Manager) loop(ctx context.Context) {
	defer close(m.done)

	backoff := m.config.InitialBackoff
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.shutdown:
			return
		default:
		}

		m.setPhase(PhaseConnecting)
		err := m.attempt(ctx)
		if err == nil {
			m.setPhase(PhaseConnected)
			backoff = m.config.InitialBackoff

			if !m.waitForDisconnectSignal(ctx) {
				return
			}
			continue
		}

		if errors.Is(err, breaker.ErrOpen) || errors.Is(err, breaker.ErrHalfOpenLimitReached) {
			m.setPhase(PhaseCircuitOpen)
		} else {
			m.setPhase(PhaseFailed)
		}
		m.emitFailed(err)

		jittered := backoff + time.Duration(rand.Int64N(int64(backoff/2+1)))
		select {
		case <-time.After(jittered):
		case <-ctx.Done():
			return
		case <-m.shutdown:
			return
		}
		backoff *= 2
		if backoff > m.config.MaxBackoff {
			backoff = m.config.MaxBackoff
		}
	}
}

func (m *Manager) attempt(ctx context.Context) error {
	if m.config.Breaker != nil {
		return m.config.Breaker.Execute(ctx, m.config.Dial)
	}
	return m.config.Dial(ctx)
}

// waitForDisconnectSignal idles while connected; in this manager that means
// waiting for shutdown or ctx cancellation, since liveness re-checks happen
// through the consumer's own Dial calls surfacing errors via MarkFailed.
// It returns false if the loop should exit entirely.
func (m *Manager) waitForDisconnectSignal(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-m.shutdown:
		return false
	case <-m.failSignal():
		return true
	}
}

// failSignal lazily creates a channel closed by MarkFailed; recreated every
// time it is consumed via waitForDisconnectSignal.
func (m *Manager) failSignal() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCh == nil {
		m.failCh = make(chan struct{})
	}
	return m.failCh
}

// MarkFailed lets a consumer of the underlying connection (e.g. the remote
// cache tier, after a command error) report that the connection should be
// considered lost, prompting the manager to re-enter the reconnect loop
// immediately. The manager does not probe the connection while connected,
// so MarkFailed is the only way a connected manager starts reconnecting.
func (m *Manager) MarkFailed() {
	m.mu.Lock()
	if m.failCh != nil {
		close(m.failCh)
		m.failCh = nil
	}
	m.mu.Unlock()
}

func (m *Manager) setPhase(p Phase) {
	m.mu.Lock()
	old := m.phase
	m.phase = p
	oldWait := m.waitCh
	m.waitCh = make(chan struct{})
	obs := append([]Observer(nil), m.observers...)
	m.mu.Unlock()

	close(oldWait)
	if old != p {
		for _, o := range obs {
			o.OnPhaseChange(old, p)
		}
	}
}

func (m *Manager) emitFailed(err error) {
	m.mu.RLock()
	obs := append([]Observer(nil), m.observers...)
	m.mu.RUnlock()
	for _, o := range obs {
		o.OnConnectionFailed(err)
	}
}
