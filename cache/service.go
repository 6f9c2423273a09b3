package cache

import (
	"context"
	"errors"
	"time"

	"github.com/opsknowledge/retrieval-core/breaker"
	"github.com/opsknowledge/retrieval-core/connmgr"
	"github.com/opsknowledge/retrieval-core/observe"
)

// Strategy selects which tiers participate in a Service's operations.
type Strategy string

const (
	// StrategyMemoryOnly serves every operation from the local tier alone.
	StrategyMemoryOnly Strategy = "memory_only"
	// StrategyHybrid probes the local tier first, falls through to the
	// remote tier on miss, and writes through to both.
	StrategyHybrid Strategy = "hybrid"
	// StrategyRemoteOnly routes every operation to the remote tier.
	// Overall health fails if the remote tier is unavailable.
	StrategyRemoteOnly Strategy = "remote_only"
)

// Config configures a Service.
type Config struct {
	Enabled  bool
	Strategy Strategy
	Policy   Policy

	// Breaker gates every remote-tier call. Required when Strategy is not
	// StrategyMemoryOnly.
	Breaker *breaker.CircuitBreaker

	// ConnMgr, if set, is asked for remote-tier connectivity in Stats and
	// Health.
	ConnMgr *connmgr.Manager

	Logger observe.Logger
}

// Service is the two-tier cache: a bounded local tier, consulted first
// under every strategy but remote_only, and an optional remote tier
// consulted per the configured Strategy.
type Service struct {
	config Config
	local  *MemoryTier
	remote *RemoteTier
	stats  *statCounters
}

// NewService creates a Service over local (required) and remote (nil if
// the remote tier is not configured).
func NewService(config Config, local *MemoryTier, remote *RemoteTier) *Service {
	return &Service{
		config: config,
		local:  local,
		remote: remote,
		stats:  newStatCounters(),
	}
}

func (s *Service) usesRemote() bool {
	return s.remote != nil && s.config.Strategy != StrategyMemoryOnly
}

// Get retrieves the payload for fp, following the Get semantics: disabled
// caches return a miss; except under remote_only, which never touches
// the local tier, a local hit returns immediately; on a local miss
// with a non-memory_only strategy, the remote tier is probed through the
// cache breaker and, on success, back-fills the local tier before
// returning.
func (s *Service) Get(ctx context.Context, fp Fingerprint) ([]byte, bool) {
	if !s.config.Enabled {
		return nil, false
	}
	if err := fp.Validate(); err != nil {
		s.stats.recordMiss(fp.ContentType)
		return nil, false
	}
	key := fp.localKey()

	remoteOnly := s.config.Strategy == StrategyRemoteOnly
	if !remoteOnly {
		if entry, ok, _ := s.local.get(ctx, key); ok {
			s.stats.recordHit(fp.ContentType)
			return entry.Payload, true
		}
	}

	if s.config.Strategy == StrategyMemoryOnly {
		s.stats.recordMiss(fp.ContentType)
		return nil, false
	}

	entry, ok, err := s.remoteGet(ctx, key)
	if err != nil {
		s.warnf(ctx, "cache: remote get failed", key, err)
		s.stats.recordMiss(fp.ContentType)
		return nil, false
	}
	if !ok {
		s.stats.recordMiss(fp.ContentType)
		return nil, false
	}

	if !remoteOnly {
		ttl := s.config.Policy.EffectiveTTL(fp.ContentType)
		_ = s.local.set(ctx, key, entry, ttl)
	}
	s.stats.recordHit(fp.ContentType)
	return entry.Payload, true
}

func (s *Service) remoteGet(ctx context.Context, key string) (Entry, bool, error) {
	if s.remote == nil || s.config.Breaker == nil {
		return Entry{}, false, nil
	}
	var entry Entry
	var ok bool
	err := s.config.Breaker.Execute(ctx, func(ctx context.Context) error {
		var innerErr error
		entry, ok, innerErr = s.remote.get(ctx, key)
		return innerErr
	})
	return entry, ok, err
}

// Set stores payload under fp. TTL is computed from the content-type
// policy. The local tier is always written (unless the strategy is
// remote_only); if the strategy is not memory_only, the remote tier is
// also written through the cache breaker — a remote write failure does
// not fail the call.
func (s *Service) Set(ctx context.Context, fp Fingerprint, payload []byte) error {
	return s.SetWithTTL(ctx, fp, payload, s.config.Policy.EffectiveTTL(fp.ContentType))
}

// SetWithTTL behaves like Set but uses the caller-supplied TTL instead of
// the content-type policy default. The request pipeline's cache
// interception stage uses this to apply its own strategy-derived TTL
// table (§4.F step 5), which is independent of the per-content-type policy
// this package otherwise applies.
func (s *Service) SetWithTTL(ctx context.Context, fp Fingerprint, payload []byte, ttl time.Duration) error {
	if !s.config.Enabled {
		return ErrDisabled
	}
	if err := fp.Validate(); err != nil {
		return err
	}

	entry := Entry{Payload: payload, InsertedAt: time.Now(), TTLSeconds: int(ttl / time.Second), ContentType: fp.ContentType}
	key := fp.localKey()

	if s.config.Strategy != StrategyRemoteOnly {
		if err := s.local.set(ctx, key, entry, ttl); err != nil {
			return err
		}
	}

	if s.usesRemote() {
		s.remoteSet(ctx, key, entry, ttl)
	}
	return nil
}

func (s *Service) remoteSet(ctx context.Context, key string, entry Entry, ttl time.Duration) {
	if s.remote == nil || s.config.Breaker == nil {
		return
	}
	err := s.config.Breaker.Execute(ctx, func(ctx context.Context) error {
		return s.remote.set(ctx, key, entry, ttl)
	})
	if err != nil {
		s.warnf(ctx, "cache: remote set failed", key, err)
	}
}

// Delete removes fp from every participating tier. Idempotent.
func (s *Service) Delete(ctx context.Context, fp Fingerprint) error {
	key := fp.localKey()
	if s.config.Strategy != StrategyRemoteOnly {
		if err := s.local.delete(ctx, key); err != nil {
			return err
		}
	}
	if s.usesRemote() {
		_ = s.config.Breaker.Execute(ctx, func(ctx context.Context) error {
			return s.remote.delete(ctx, key)
		})
	}
	return nil
}

// ClearByType removes every entry of the given content type from every
// participating tier.
func (s *Service) ClearByType(ctx context.Context, ct ContentType) error {
	prefix := string(ct) + ":"
	if s.config.Strategy != StrategyRemoteOnly {
		if err := s.local.clearByPrefix(ctx, prefix); err != nil {
			return err
		}
	}
	if s.usesRemote() {
		_ = s.config.Breaker.Execute(ctx, func(ctx context.Context) error {
			return s.remote.clearByPrefix(ctx, prefix)
		})
	}
	return nil
}

// ClearAll removes every entry from every participating tier.
func (s *Service) ClearAll(ctx context.Context) error {
	if s.config.Strategy != StrategyRemoteOnly {
		if err := s.local.clearAll(ctx); err != nil {
			return err
		}
	}
	if s.usesRemote() {
		_ = s.config.Breaker.Execute(ctx, func(ctx context.Context) error {
			return s.remote.clearAll(ctx)
		})
	}
	return nil
}

// WarmItem is one entry to pre-populate via Warm.
type WarmItem struct {
	Fingerprint Fingerprint
	Payload     []byte
}

// Warm calls Set for every item, tolerating individual failures and
// returning the count that succeeded.
func (s *Service) Warm(ctx context.Context, items []WarmItem) (succeeded int, err error) {
	var firstErr error
	for _, item := range items {
		if setErr := s.Set(ctx, item.Fingerprint, item.Payload); setErr != nil {
			if firstErr == nil {
				firstErr = setErr
			}
			continue
		}
		succeeded++
	}
	return succeeded, firstErr
}

// Stats returns a snapshot of the service's counters.
func (s *Service) Stats() Stats {
	return s.stats.snapshot(s.remoteConnected())
}

// ResetStats clears every counter.
func (s *Service) ResetStats() {
	s.stats.reset()
}

func (s *Service) remoteConnected() bool {
	if s.config.ConnMgr == nil {
		return false
	}
	return s.config.ConnMgr.Phase() == connmgr.PhaseConnected
}

// Health reports tier-level health. LocalHealthy is measured by a
// self-check roundtrip through the local tier; RemoteHealthy pings the
// remote tier under ctx's deadline when the remote tier is enabled.
// OverallHealthy requires LocalHealthy, and additionally RemoteHealthy
// unless the strategy is not remote_only.
type Health struct {
	LocalHealthy   bool
	LocalLatency   time.Duration
	RemoteHealthy  bool
	RemoteLatency  time.Duration
	OverallHealthy bool
}

func (s *Service) Health(ctx context.Context) Health {
	start := time.Now()
	fp := Fingerprint{ContentType: ContentWebResponse, Identifier: "__health_check__"}
	_ = s.local.set(ctx, fp.localKey(), Entry{Payload: []byte("ok"), InsertedAt: time.Now(), TTLSeconds: 1, ContentType: fp.ContentType}, time.Second)
	_, localOK, _ := s.local.get(ctx, fp.localKey())
	localLatency := time.Since(start)

	h := Health{LocalHealthy: localOK, LocalLatency: localLatency}

	if s.remote != nil {
		remoteStart := time.Now()
		err := s.remote.ping(ctx)
		h.RemoteLatency = time.Since(remoteStart)
		h.RemoteHealthy = err == nil
	}

	h.OverallHealthy = h.LocalHealthy && (h.RemoteHealthy || s.config.Strategy != StrategyRemoteOnly)
	return h
}

func (s *Service) warnf(ctx context.Context, msg, key string, err error) {
	if s.config.Logger == nil {
		return
	}
	s.config.Logger.Warn(ctx, msg, observe.Field{Key: "key", Value: key}, observe.Field{Key: "error", Value: err.Error()})
}

var errNilBreaker = errors.New("cache: breaker required for non-memory_only strategy")

// Validate checks that the service configuration is internally consistent
// (e.g. a breaker is present whenever the remote tier is exercised).
func (c Config) Validate() error {
	if c.Strategy != StrategyMemoryOnly && c.Breaker == nil {
		return errNilBreaker
	}
	return nil
}
