// Package adapter is documented in adapter.go (the plugin contract) and
// registry.go (the factory-keyed registry and its parallel fan-out
// operations).
//
// # Quick Start
//
//	reg := adapter.NewRegistry()
//	reg.RegisterFactory("confluence", confluence.New)
//	_ = reg.Create(ctx, "confluence-prod", "confluence", adapter.Config{"url": "https://..."})
//	reports := reg.HealthCheckAll(ctx, 2*time.Second)
package adapter
