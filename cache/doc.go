// Package cache implements the two-tier operational-content cache: a
// bounded local tier backed by an LRU, and an optional remote tier backed
// by Redis, selected per fingerprint by a configurable strategy.
//
// # Ecosystem Position
//
// cache sits between the request pipeline's cache-interception stage and
// the tool dispatcher:
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                      Request Pipeline Flow                    │
//	├───────────────────────────────────────────────────────────────┤
//	│                                                                 │
//	│   pipeline          cache.Service             dispatcher        │
//	│   ┌────────┐       ┌───────────────┐        ┌──────────┐      │
//	│   │ Cache  │──────▶│ local (LRU)   │  miss  │ Adapter  │      │
//	│   │Intercept│      │      │        │───────▶│  Call    │      │
//	│   └────────┘       │      ▼        │        └──────────┘      │
//	│                    │ remote (Redis)│                           │
//	│                    │  (breaker-    │                           │
//	│                    │   gated)      │                           │
//	│                    └───────────────┘                           │
//	│                                                                 │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Strategies
//
//   - [StrategyMemoryOnly]: local tier only.
//   - [StrategyHybrid]: local tier first, remote tier on miss; writes go
//     to both.
//   - [StrategyRemoteOnly]: every operation goes to the remote tier; overall
//     health fails if the remote tier is down.
//
// # Quick Start
//
//	local := cache.NewMemoryTier(10000)
//	remote := cache.NewRemoteTier(redisClient, connMgr, "ops:")
//	svc := cache.NewService(cache.Config{
//	    Enabled:  true,
//	    Strategy: cache.StrategyHybrid,
//	    Policy:   cache.DefaultPolicy(),
//	    Breaker:  cacheBreaker,
//	    ConnMgr:  connMgr,
//	}, local, remote)
//
//	fp := cache.Fingerprint{ContentType: cache.ContentRunbooks, Identifier: id}
//	if payload, ok := svc.Get(ctx, fp); ok {
//	    return payload
//	}
package cache
