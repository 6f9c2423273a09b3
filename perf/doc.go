// Package perf records per-tool call durations in bounded rings and
// computes percentiles, throughput, and error rate on demand, with a
// realtime subscription model for periodic snapshots.
//
// # Quick Start
//
//	mon := perf.NewMonitor(1000, logger.Printf)
//	start := time.Now()
//	err := callTool(ctx)
//	mon.Record("search_runbooks", float64(time.Since(start).Milliseconds()), err != nil)
//
//	global := mon.Global(60) // throughput over the last 60s (or uptime, if shorter)
//	report := mon.GenerateReport(activeAlertSummaries)
//
// # Percentiles
//
// Percentiles use the nearest-rank method over a sorted copy of the
// current ring: for percentile p and n samples, index =
// ceil(p/100 * n) - 1, clamped to [0, n-1]. This is computed fresh on
// every read rather than maintained incrementally, trading a small amount
// of CPU on read for exact results regardless of sample distribution.
//
// # Realtime
//
// StartRealtime installs a periodic timer that snapshots Global and
// invokes every subscriber; a subscriber that panics is recovered and
// logged so one bad observer cannot abort the tick for the others.
package perf
