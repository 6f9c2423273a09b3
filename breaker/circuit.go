package breaker

import (
	"context"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means calls pass through normally.
	StateClosed State = iota
	// StateOpen means calls are rejected without reaching the operation.
	StateOpen
	// StateHalfOpen means a limited number of probe calls are allowed through
	// to test whether the downstream has recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config configures a CircuitBreaker.
type Config struct {
	// Name identifies the breaker for events and metrics.
	Name string

	// FailureThreshold is the number of failures within MonitoringWindow
	// that opens the circuit. Default: 5.
	FailureThreshold int

	// MonitoringWindow is the sliding window over which failures are
	// counted toward FailureThreshold. Default: 60s.
	MonitoringWindow time.Duration

	// OpenTimeout is how long the circuit stays open before moving to
	// half-open. Default: 30s.
	OpenTimeout time.Duration

	// SuccessThreshold is the number of consecutive successful probes
	// required in half-open before the circuit closes. Default: 1.
	SuccessThreshold int

	// HalfOpenMaxProbes caps the number of in-flight calls admitted while
	// half-open. Default: SuccessThreshold.
	HalfOpenMaxProbes int

	// Timeout, if non-zero, is enforced by the breaker itself around the
	// wrapped operation, independent of any deadline already on ctx.
	Timeout time.Duration

	// IsFailure determines whether an error returned by the operation
	// counts as a breaker failure. Default: all non-nil errors count.
	IsFailure func(err error) bool
}

func (c *Config) applyDefaults() {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 5
	}
	if c.MonitoringWindow <= 0 {
		c.MonitoringWindow = 60 * time.Second
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = 30 * time.Second
	}
	if c.SuccessThreshold <= 0 {
		c.SuccessThreshold = 1
	}
	if c.HalfOpenMaxProbes <= 0 {
		c.HalfOpenMaxProbes = c.SuccessThreshold
	}
	if c.IsFailure == nil {
		c.IsFailure = func(err error) bool { return err != nil }
	}
}

// Metrics is a snapshot of a breaker's counters.
type Metrics struct {
	State            State
	FailuresInWindow int
	Successes        int
	LastFailure      time.Time
	OpenedAt         time.Time
}

// CircuitBreaker is a three-state breaker (closed/open/half-open) guarding
// calls to a single downstream. Failures are counted within a sliding
// window rather than as a raw consecutive count, and half-open requires
// SuccessThreshold consecutive clean probes before closing again.
type CircuitBreaker struct {
	config Config

	mu             sync.Mutex
	state          State
	failureEvents  []time.Time
	halfOpenProbes int
	halfOpenOK     int
	openedAt       time.Time
	lastFailure    time.Time

	observers []Observer
}

// New creates a CircuitBreaker with the given configuration.
func New(config Config) *CircuitBreaker {
	config.applyDefaults()
	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Subscribe registers an Observer for state changes and outcomes. It is
// safe for concurrent use; an observer added while a call is in flight may
// miss that call's events.
func (cb *CircuitBreaker) Subscribe(o Observer) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.observers = append(cb.observers, o)
}

// Name returns the breaker's configured name.
func (cb *CircuitBreaker) Name() string { return cb.config.Name }

// Execute runs op through the breaker. If the breaker is open, or the
// half-open probe budget is exhausted, op is never called and the
// corresponding sentinel error is returned. If config.Timeout is set, it is
// enforced around op regardless of ctx's own deadline.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := cb.admit(); err != nil {
		return err
	}

	err := cb.run(ctx, op)
	cb.report(err)
	return err
}

func (cb *CircuitBreaker) run(ctx context.Context, op func(context.Context) error) error {
	if cb.config.Timeout <= 0 {
		return op(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, cb.config.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return ErrTimeoutExceeded
		}
		return ctx.Err()
	}
}

// State returns the breaker's current logical state, resolving a pending
// open-to-half-open transition if OpenTimeout has elapsed.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentStateLocked()
}

// Metrics returns a snapshot of the breaker's counters.
func (cb *CircuitBreaker) Metrics() Metrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return Metrics{
		State:            cb.currentStateLocked(),
		FailuresInWindow: len(cb.failureEvents),
		Successes:        cb.halfOpenOK,
		LastFailure:      cb.lastFailure,
		OpenedAt:         cb.openedAt,
	}
}

// Reset forces the breaker back to closed, clearing all counters.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	old := cb.state
	cb.state = StateClosed
	cb.failureEvents = nil
	cb.halfOpenProbes = 0
	cb.halfOpenOK = 0
	cb.openedAt = time.Time{}
	cb.mu.Unlock()

	if old != StateClosed {
		cb.emitStateChange(old, StateClosed)
	}
}

func (cb *CircuitBreaker) admit() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentStateLocked() {
	case StateOpen:
		return ErrOpen
	case StateHalfOpen:
		if cb.halfOpenProbes >= cb.config.HalfOpenMaxProbes {
			return ErrHalfOpenLimitReached
		}
		cb.halfOpenProbes++
	}
	return nil
}

func (cb *CircuitBreaker) report(err error) {
	cb.mu.Lock()
	isFailure := cb.config.IsFailure(err)
	old := cb.state
	var transitioned State
	changed := false

	switch cb.state {
	case StateClosed:
		if isFailure {
			cb.recordFailureLocked()
			if len(cb.failureEvents) >= cb.config.FailureThreshold {
				cb.openLocked()
				transitioned, changed = StateOpen, true
			}
		}
	case StateHalfOpen:
		cb.halfOpenProbes--
		if isFailure {
			cb.recordFailureLocked()
			cb.openLocked()
			transitioned, changed = StateOpen, true
		} else {
			cb.halfOpenOK++
			if cb.halfOpenOK >= cb.config.SuccessThreshold {
				cb.closeLocked()
				transitioned, changed = StateClosed, true
			}
		}
	}
	cb.mu.Unlock()

	if isFailure {
		cb.emitOutcome(false, err)
	} else {
		cb.emitOutcome(true, nil)
	}
	if changed {
		cb.emitStateChange(old, transitioned)
	}
}

func (cb *CircuitBreaker) recordFailureLocked() {
	now := time.Now()
	cb.lastFailure = now
	cb.failureEvents = append(cb.failureEvents, now)
	cb.pruneWindowLocked(now)
}

func (cb *CircuitBreaker) pruneWindowLocked(now time.Time) {
	cutoff := now.Add(-cb.config.MonitoringWindow)
	i := 0
	for ; i < len(cb.failureEvents); i++ {
		if cb.failureEvents[i].After(cutoff) {
			break
		}
	}
	if i > 0 {
		cb.failureEvents = cb.failureEvents[i:]
	}
}

func (cb *CircuitBreaker) openLocked() {
	cb.state = StateOpen
	cb.openedAt = time.Now()
	cb.halfOpenProbes = 0
	cb.halfOpenOK = 0
}

func (cb *CircuitBreaker) closeLocked() {
	cb.state = StateClosed
	cb.failureEvents = nil
	cb.halfOpenProbes = 0
	cb.halfOpenOK = 0
}

// currentStateLocked resolves the open->half-open transition as a side
// effect of being asked for the state, mirroring the teacher's lazy
// transition check in beforeRequest/State.
func (cb *CircuitBreaker) currentStateLocked() State {
	if cb.state == StateOpen && time.Since(cb.openedAt) >= cb.config.OpenTimeout {
		cb.state = StateHalfOpen
		cb.halfOpenProbes = 0
		cb.halfOpenOK = 0
		go cb.emitStateChange(StateOpen, StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) emitStateChange(from, to State) {
	cb.mu.Lock()
	obs := append([]Observer(nil), cb.observers...)
	cb.mu.Unlock()
	for _, o := range obs {
		o.OnStateChange(cb.config.Name, from, to)
	}
}

func (cb *CircuitBreaker) emitOutcome(success bool, err error) {
	cb.mu.Lock()
	obs := append([]Observer(nil), cb.observers...)
	cb.mu.Unlock()
	for _, o := range obs {
		if success {
			o.OnSuccess(cb.config.Name)
		} else {
			o.OnFailure(cb.config.Name, err)
		}
	}
}
