package breaker

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Class names accepted by Registry.GetOrCreate.
const (
	ClassExternalService = "external_service"
	ClassCache           = "cache"
	ClassDatabase        = "database"
)

// classDefaults returns the tuned Config defaults for a breaker class. The
// caller's name is merged in; all other fields may still be overridden via
// GetOrCreateWith.
func classDefaults(class string) (Config, error) {
	switch class {
	case ClassExternalService:
		return Config{
			FailureThreshold:  5,
			MonitoringWindow:  60 * time.Second,
			OpenTimeout:       5 * time.Minute,
			SuccessThreshold:  3,
			HalfOpenMaxProbes: 3,
			Timeout:           30 * time.Second,
		}, nil
	case ClassCache:
		return Config{
			FailureThreshold:  3,
			MonitoringWindow:  30 * time.Second,
			OpenTimeout:       2 * time.Minute,
			SuccessThreshold:  2,
			HalfOpenMaxProbes: 2,
			Timeout:           5 * time.Second,
		}, nil
	case ClassDatabase:
		return Config{
			FailureThreshold:  3,
			MonitoringWindow:  60 * time.Second,
			OpenTimeout:       5 * time.Minute,
			SuccessThreshold:  2,
			HalfOpenMaxProbes: 2,
			Timeout:           10 * time.Second,
		}, nil
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownClass, class)
	}
}

// Registry is a named-singleton store of circuit breakers. Components that
// need a breaker for a given downstream ask the registry by name; the first
// caller for a name creates it (using the class's tuned defaults, or an
// explicit Config via GetOrCreateWith), later callers reuse the same
// instance so breaker state is shared across every caller of that
// downstream.
type Registry struct {
	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{breakers: make(map[string]*CircuitBreaker)}
}

// GetOrCreate returns the named breaker, creating it with the given class's
// tuned defaults if it does not already exist.
func (r *Registry) GetOrCreate(name, class string) (*CircuitBreaker, error) {
	cfg, err := classDefaults(class)
	if err != nil {
		return nil, err
	}
	cfg.Name = name
	return r.GetOrCreateWith(name, cfg)
}

// GetOrCreateWith returns the named breaker, creating it with the given
// Config (Name is forced to match name) if it does not already exist. An
// existing breaker's Config is not mutated by a later, different cfg.
func (r *Registry) GetOrCreateWith(name string, cfg Config) (*CircuitBreaker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cb, ok := r.breakers[name]; ok {
		return cb, nil
	}
	cfg.Name = name
	cb := New(cfg)
	r.breakers[name] = cb
	return cb, nil
}

// Get returns the named breaker, or ErrNotFound.
func (r *Registry) Get(name string) (*CircuitBreaker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cb, ok := r.breakers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return cb, nil
}

// Names returns the registered breaker names, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.breakers))
	for name := range r.breakers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summary is a point-in-time view of one registered breaker, suitable for
// serialization onto a health or monitoring endpoint.
type Summary struct {
	Name    string  `json:"name"`
	State   string  `json:"state"`
	Metrics Metrics `json:"metrics"`
}

// HealthSummary returns a Summary for every registered breaker, sorted by
// name.
func (r *Registry) HealthSummary() []Summary {
	names := r.Names()
	out := make([]Summary, 0, len(names))
	for _, name := range names {
		cb, err := r.Get(name)
		if err != nil {
			continue
		}
		m := cb.Metrics()
		out = append(out, Summary{Name: name, State: m.State.String(), Metrics: m})
	}
	return out
}

// Reset resets the named breaker back to closed, or returns ErrNotFound.
func (r *Registry) Reset(name string) error {
	cb, err := r.Get(name)
	if err != nil {
		return err
	}
	cb.Reset()
	return nil
}
