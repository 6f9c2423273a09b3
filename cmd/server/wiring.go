package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/opsknowledge/retrieval-core/adapter"
	"github.com/opsknowledge/retrieval-core/alerting"
	"github.com/opsknowledge/retrieval-core/auth"
	"github.com/opsknowledge/retrieval-core/breaker"
	"github.com/opsknowledge/retrieval-core/cache"
	"github.com/opsknowledge/retrieval-core/config"
	"github.com/opsknowledge/retrieval-core/connmgr"
	"github.com/opsknowledge/retrieval-core/dispatcher"
	"github.com/opsknowledge/retrieval-core/health"
	"github.com/opsknowledge/retrieval-core/observe"
	"github.com/opsknowledge/retrieval-core/perf"
	"github.com/opsknowledge/retrieval-core/pipeline"
	"github.com/opsknowledge/retrieval-core/secret"
	transporthttp "github.com/opsknowledge/retrieval-core/transport/http"
	"github.com/opsknowledge/retrieval-core/transport/streamrpc"
)

// system is every subsystem the server wires together; main.go drives it
// through transports, shutdown through Close.
type system struct {
	cfg       config.Config
	observer  observe.Observer
	logger    observe.Logger
	breakers  *breaker.Registry
	adapters  *adapter.Registry
	cacheSvc  *cache.Service
	connMgr   *connmgr.Manager
	monitor   *perf.Monitor
	alerting  *alerting.Service
	health    *health.Aggregator
	pipeline  *pipeline.Pipeline
	registry  *prometheus.Registry
	snapshot  *serverSnapshot
	httpDeps  transporthttp.Deps
	streamrpc *streamrpc.Server

	wg       sync.WaitGroup
	closeFns []func(context.Context) error
}

// newSystem wires every collaborator named in §2/§3, in the dependency
// order each constructor requires: breakers before connmgr before cache,
// monitor and adapters independent of cache, dispatcher last since it
// needs both breakers and adapters, pipeline last of all since it needs
// the dispatcher.
func newSystem(ctx context.Context, cfg config.Config) (*system, error) {
	observer, err := observe.NewObserver(ctx, observe.Config{
		ServiceName: "retrieval-core",
		Logging:     observe.LoggingConfig{Enabled: true, Level: cfg.Server.LogLevel},
		// Tracing stays off by default: the teacher's "stdout" exporter
		// writes to os.Stdout, which the Stream-RPC transport also owns
		// for its wire protocol, and "otlp" needs an external collector
		// endpoint not named in this system's scope. The dispatcher still
		// wires a Tracer unconditionally (see below); with tracing
		// disabled it is the no-op implementation, so spans cost nothing
		// until an operator points Exporter at a real collector.
		Tracing: observe.TracingConfig{Enabled: false},
		Metrics:     observe.MetricsConfig{Enabled: false},
	})
	if err != nil {
		return nil, fmt.Errorf("server: observer init: %w", err)
	}
	logger := observer.Logger()

	s := &system{cfg: cfg, observer: observer, logger: logger}
	s.closeFns = append(s.closeFns, observer.Shutdown)

	s.breakers = breaker.NewRegistry()
	s.adapters = adapter.NewRegistry()

	s.monitor = perf.NewMonitor(10_000, func(format string, args ...any) {
		logger.Warn(context.Background(), fmt.Sprintf(format, args...))
	})

	if err := s.wireCache(ctx, cfg); err != nil {
		return nil, err
	}
	// Appended after the cache's close func so that Close, which runs in
	// reverse, cleans up adapters before disconnecting the remote cache.
	s.closeFns = append(s.closeFns, s.adapters.Cleanup)

	s.registry = prometheus.NewRegistry()
	s.snapshot = &serverSnapshot{cache: s.cacheSvc, monitor: s.monitor, adapters: s.adapters, adapterTimeout: 5 * time.Second}
	promExporter := observe.NewPromExporter(s.snapshot)
	if err := s.registry.Register(promExporter); err != nil {
		return nil, fmt.Errorf("server: register prometheus collector: %w", err)
	}

	s.alerting = alerting.NewService(alerting.Config{
		Logger:     logger,
		SnapshotFn: s.alertSnapshot,
		Sinks:      []alerting.Sink{alerting.NewConsoleSink(os.Stderr)},
	})
	s.alerting.Start(ctx)
	s.closeFns = append(s.closeFns, func(context.Context) error { s.alerting.Stop(); return nil })

	adapterMetrics, err := observe.NewMetrics(observer.Meter())
	if err != nil {
		return nil, fmt.Errorf("server: observe metrics init: %w", err)
	}

	disp := dispatcher.New(dispatcher.Config{
		Registry: s.adapters,
		Breakers: s.breakers,
		Monitor:  s.monitor,
		Tracer:   observe.NewTracer(observer.Tracer()),
		Metrics:  adapterMetrics,
	})

	s.pipeline = pipeline.NewPipeline(pipeline.Config{
		Dispatcher: disp,
		Cache:      s.cacheSvc,
		Monitor:    s.monitor,
		Logger:     logger,
		MaxBodyMB:  cfg.Server.MaxBodyMB,
	})

	s.health = health.NewAggregator()
	memChecker := health.NewMemoryChecker(health.MemoryCheckerConfig{})
	s.health.Register(memChecker.Name(), memChecker)
	adapterChecker := health.NewAdapterChecker(s.adapters, 5*time.Second)
	s.health.Register(adapterChecker.Name(), adapterChecker)
	cacheChecker := health.NewCacheChecker(s.cacheSvc)
	s.health.Register(cacheChecker.Name(), cacheChecker)
	perfChecker := health.NewPerfChecker(s.monitor, health.PerfCheckerConfig{})
	s.health.Register(perfChecker.Name(), perfChecker)

	s.httpDeps = transporthttp.Deps{
		Pipeline:      s.pipeline,
		Health:        s.health,
		Monitor:       s.monitor,
		Alerting:      s.alerting,
		Breakers:      s.breakers,
		Registry:      s.registry,
		Snapshot:      s.snapshot,
		Logger:        logger,
		MaxBodyMB:     cfg.Server.MaxBodyMB,
		Authenticator: authenticatorFromConfig(cfg.Server),
	}

	s.streamrpc = streamrpc.NewServer(s.pipeline)

	return s, nil
}

// wireCache builds the local cache tier unconditionally and the remote
// tier, connmgr.Manager, and breaker.ClassCache breaker only when
// cache.remote.enabled, per §6's cache{} config block.
func (s *system) wireCache(ctx context.Context, cfg config.Config) error {
	local := cache.NewMemoryTier(cfg.Cache.Memory.MaxKeys)

	var remote *cache.RemoteTier
	var cacheBreaker *breaker.CircuitBreaker
	if cfg.Cache.Remote.Enabled {
		client := redis.NewClient(&redis.Options{Addr: cfg.Cache.Remote.URL})

		cb, err := s.breakers.GetOrCreate("cache-remote", breaker.ClassCache)
		if err != nil {
			return fmt.Errorf("server: cache breaker: %w", err)
		}
		cacheBreaker = cb

		mgr := connmgr.New(ctx, connmgr.Config{
			Dial: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			},
			Breaker: cacheBreaker,
		})
		s.connMgr = mgr
		s.closeFns = append(s.closeFns, func(context.Context) error { mgr.Shutdown(); return client.Close() })

		remote = cache.NewRemoteTier(client, mgr, cfg.Cache.Remote.KeyPrefix)
	}

	strategy := cache.StrategyMemoryOnly
	if cfg.Cache.Remote.Enabled {
		switch cfg.Cache.Strategy {
		case "remote_only":
			strategy = cache.StrategyRemoteOnly
		default:
			strategy = cache.StrategyHybrid
		}
	}

	s.cacheSvc = cache.NewService(cache.Config{
		Enabled:  cfg.Cache.Enabled,
		Strategy: strategy,
		Policy:   policyFromConfig(cfg.Cache),
		Breaker:  cacheBreaker,
		ConnMgr:  s.connMgr,
		Logger:   s.logger,
	}, local, remote)

	return nil
}

// authenticatorFromConfig builds the API-key authenticator from
// cfg.Server.APIKeys, or returns nil when no key is configured — the HTTP
// router leaves the credential-check middleware out entirely in that case.
func authenticatorFromConfig(cfg config.ServerConfig) auth.Authenticator {
	if len(cfg.APIKeys) == 0 {
		return nil
	}

	store := auth.NewMemoryAPIKeyStore()
	for i, key := range cfg.APIKeys {
		_ = store.Add(&auth.APIKeyInfo{
			ID:        fmt.Sprintf("configured-%d", i),
			KeyHash:   auth.HashAPIKey(key),
			Principal: fmt.Sprintf("api-key-%d", i),
		})
	}
	return auth.NewAPIKeyAuthenticator(auth.APIKeyConfig{}, store)
}

func policyFromConfig(cc config.CacheConfig) cache.Policy {
	policy := cache.DefaultPolicy()
	if cc.Memory.TTLSeconds > 0 {
		policy.DefaultTTLSeconds = cc.Memory.TTLSeconds
	}
	return policy
}

// alertSnapshot folds the cache, perf, and adapter subsystems into the
// point-in-time alerting.Snapshot the rule set evaluates each tick.
func (s *system) alertSnapshot(ctx context.Context) alerting.Snapshot {
	cacheHealth := s.cacheSvc.Health(ctx)
	global := s.monitor.Global(60)

	healthResults := s.adapters.HealthCheckAll(ctx, 5*time.Second)
	healthyCount := 0
	for _, r := range healthResults {
		if r.Healthy {
			healthyCount++
		}
	}
	adapterHealthyPct := 100.0
	if len(healthResults) > 0 {
		adapterHealthyPct = 100 * float64(healthyCount) / float64(len(healthResults))
	}

	return alerting.Snapshot{
		ServerHealthy:      true,
		LocalCacheHealthy:  cacheHealth.LocalHealthy,
		RemoteCacheHealthy: cacheHealth.RemoteHealthy,
		RemoteCacheEnabled: s.cfg.Cache.Remote.Enabled,
		P95MS:              global.P95MS,
		ResidentMB:         global.Resource.ResidentMB,
		ErrorRate:          global.ErrorRate,
		CacheHitRate:       s.cacheSvc.Stats().HitRate(),
		AdapterHealthyPct:  adapterHealthyPct,
		ThroughputRPS:      global.ThroughputRPS,
	}
}

// Close runs every subsystem's shutdown in reverse wiring order, joining
// every error rather than stopping at the first, mirroring the teacher's
// observer.Shutdown idiom.
func (s *system) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closeFns) - 1; i >= 0; i-- {
		if err := s.closeFns[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return joinErrors(errs)
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	joined := errs[0]
	for _, e := range errs[1:] {
		joined = fmt.Errorf("%w; %w", joined, e)
	}
	return joined
}

// secretResolver builds the strict env + secretref resolver config.Load
// needs. Provider registration is deployment-specific (vault, AWS
// Secrets Manager, ...) and out of scope here; an empty resolver still
// performs strict environment expansion on every string leaf.
func secretResolver() *secret.Resolver {
	return secret.NewResolver(true)
}
