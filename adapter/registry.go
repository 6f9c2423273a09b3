package adapter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrUnknownType is returned by Create when no factory is registered
	// for the requested adapter type.
	ErrUnknownType = errors.New("adapter: unknown type")
	// ErrNotFound is returned when looking up an adapter name that was
	// never created.
	ErrNotFound = errors.New("adapter: not found")
)

// Registry maintains factory closures keyed by adapter type and the
// enrolled instances created from them.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	instances map[string]Adapter
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		instances: make(map[string]Adapter),
	}
}

// RegisterFactory registers a Factory for adapterType. Calling it again
// for the same type replaces the factory.
func (r *Registry) RegisterFactory(adapterType string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[adapterType] = factory
}

// Create builds an adapter of adapterType via its registered factory,
// calls Initialize on it, and enrolls it under name.
func (r *Registry) Create(ctx context.Context, name, adapterType string, config Config) error {
	r.mu.RLock()
	factory, ok := r.factories[adapterType]
	r.mu.RUnlock()
	if !ok {
		return ErrUnknownType
	}

	instance, err := factory(config)
	if err != nil {
		return err
	}
	if err := instance.Initialize(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	r.instances[name] = instance
	r.mu.Unlock()
	return nil
}

// Get returns the adapter enrolled under name.
func (r *Registry) Get(name string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.instances[name]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

// Names returns every enrolled adapter name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.instances))
	for n := range r.instances {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// HealthCheckAll runs every enrolled adapter's health check in parallel,
// each bounded by perCheckTimeout, and returns a per-adapter report. A
// single adapter's failure does not prevent the others from reporting.
func (r *Registry) HealthCheckAll(ctx context.Context, perCheckTimeout time.Duration) map[string]HealthResult {
	r.mu.RLock()
	snapshot := make(map[string]Adapter, len(r.instances))
	for n, a := range r.instances {
		snapshot[n] = a
	}
	r.mu.RUnlock()

	results := make(map[string]HealthResult, len(snapshot))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for name, inst := range snapshot {
		name, inst := name, inst
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(gctx, perCheckTimeout)
			defer cancel()

			result, err := inst.HealthCheck(checkCtx)
			if err != nil {
				result = HealthResult{Healthy: false, Error: err.Error()}
			}

			mu.Lock()
			results[name] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // individual check errors are captured per-adapter above, never aborts the fan-out

	return results
}

// Cleanup tears down every enrolled adapter in parallel, tolerating
// individual failures; it returns a joined error of every failure
// encountered, or nil if all adapters cleaned up successfully.
func (r *Registry) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	snapshot := make(map[string]Adapter, len(r.instances))
	for n, a := range r.instances {
		snapshot[n] = a
	}
	r.instances = make(map[string]Adapter)
	r.mu.Unlock()

	var mu sync.Mutex
	var errs []error

	g, gctx := errgroup.WithContext(ctx)
	for name, inst := range snapshot {
		name, inst := name, inst
		g.Go(func() error {
			if err := inst.Cleanup(gctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
