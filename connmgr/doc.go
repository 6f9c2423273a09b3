// Package connmgr maintains the lifecycle of a connection to a remote
// dependency — principally the remote cache tier's Redis client — through
// five phases (disconnected, connecting, connected, failed, circuit_open),
// reconnecting on failure with exponential backoff and gating dial attempts
// behind a circuit breaker from the breaker package.
//
// # Quick Start
//
//	reg := breaker.NewRegistry()
//	cb, _ := reg.GetOrCreate("remote-cache", breaker.ClassCache)
//
//	mgr := connmgr.New(ctx, connmgr.Config{
//	    Dial: func(ctx context.Context) error {
//	        return redisClient.Ping(ctx).Err()
//	    },
//	    Breaker: cb,
//	})
//	defer mgr.Shutdown()
//
//	if err := mgr.WaitConnected(ctx); err != nil {
//	    // fall back to the local cache tier only
//	}
//
// # Phase Transitions
//
//	disconnected ──▶ connecting ──▶ connected
//	                   ▲  ▲   │          │
//	                   │  │   │          │ (consumer calls MarkFailed)
//	                   │  └───┼──────────┘
//	                   │      ▼ (dial fails: failed; breaker open: circuit_open)
//	                   │  failed / circuit_open
//	                   │      │
//	                   └──────┘ (after backoff)
//
// A consumer that gets a connection-level error from the underlying client
// (e.g. a Redis command failing mid-session) calls MarkFailed to make the
// manager re-enter its reconnect loop immediately. The manager does not
// probe the connection while connected.
package connmgr
