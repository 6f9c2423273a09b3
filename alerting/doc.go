// Package alerting evaluates monitoring rules against a periodic metrics
// snapshot and manages the resulting alert lifecycle: raise on predicate
// trigger (respecting a per-rule cooldown), auto-resolve when the predicate
// later goes false, and fan out notifications to one or more sinks.
//
// # Ecosystem Position
//
//	perf.Monitor ---+
//	cache.Service --+--> Snapshot --> Service.tick --> Store --> Sink(s)
//	health flag ----+                                    |
//	                                          console / webhook / slack
//
// # Quick Start
//
//	svc := alerting.NewService(alerting.Config{
//		SnapshotFn: func(ctx context.Context) alerting.Snapshot {
//			g := monitor.Global(60)
//			return alerting.Snapshot{P95MS: g.P95MS, ErrorRate: g.ErrorRate, ...}
//		},
//		Sinks: []alerting.Sink{alerting.NewConsoleSink(os.Stdout)},
//	})
//	svc.Start(ctx)
//	defer svc.Stop()
//
// # Rules
//
// The nine built-in rules (DefaultRules) cover system health, both cache
// tiers, response time, memory, error rate, cache hit rate, adapter health,
// throughput, and remote cache connectivity. A rule fires at most once per
// cooldown window and auto-resolves the moment its predicate returns false.
package alerting
