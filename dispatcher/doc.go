// Package dispatcher is documented in dispatcher.go (the fan-out,
// per-adapter breaker, and partial-failure tolerance it implements for
// pipeline.Dispatcher).
//
// # Quick Start
//
//	d := dispatcher.New(dispatcher.Config{
//		Registry: adapterRegistry,
//		Breakers: breakerRegistry,
//		Monitor:  perfMonitor,
//	})
//	result, err := d.Dispatch(ctx, "search_runbooks", args)
package dispatcher
