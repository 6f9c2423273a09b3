package breaker

// Observer receives circuit breaker lifecycle events. Implementations must
// not block for long: calls happen synchronously from the goroutine that
// just finished an Execute call (or, for a lazily-discovered open-to-half-open
// transition, from a short-lived internal goroutine).
type Observer interface {
	// OnStateChange fires whenever a breaker transitions between states.
	OnStateChange(name string, from, to State)

	// OnSuccess fires after a call the breaker let through succeeded.
	OnSuccess(name string)

	// OnFailure fires after a call the breaker let through failed.
	OnFailure(name string, err error)
}

// ObserverFuncs adapts plain functions to the Observer interface. Any nil
// field is treated as a no-op, so callers only need to supply the events
// they care about.
type ObserverFuncs struct {
	StateChange func(name string, from, to State)
	Success     func(name string)
	Failure     func(name string, err error)
}

func (f ObserverFuncs) OnStateChange(name string, from, to State) {
	if f.StateChange != nil {
		f.StateChange(name, from, to)
	}
}

func (f ObserverFuncs) OnSuccess(name string) {
	if f.Success != nil {
		f.Success(name)
	}
}

func (f ObserverFuncs) OnFailure(name string, err error) {
	if f.Failure != nil {
		f.Failure(name, err)
	}
}
