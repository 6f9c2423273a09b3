package health

import (
	"context"

	"github.com/opsknowledge/retrieval-core/cache"
)

// CacheChecker maps the cache service's Health onto a check status,
// following §4.C's health semantics: healthy whenever OverallHealthy holds
// (memory_only, or hybrid even with the remote tier down, which shows as
// remote_healthy=false in the details); degraded when the local tier is
// healthy but OverallHealthy fails (remote_only with the remote tier
// down); unhealthy when the local tier fails.
type CacheChecker struct {
	svc *cache.Service
}

// NewCacheChecker creates a CacheChecker for svc.
func NewCacheChecker(svc *cache.Service) *CacheChecker {
	return &CacheChecker{svc: svc}
}

// Name returns the name of this checker.
func (c *CacheChecker) Name() string { return "cache" }

// Check performs the cache health check.
func (c *CacheChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	if c.svc == nil {
		return Unhealthy("cache service not configured", ErrCheckFailed)
	}

	stats := c.svc.Stats()
	h := c.svc.Health(ctx)
	details := map[string]any{
		"hits":           stats.Hits,
		"misses":         stats.Misses,
		"total_ops":      stats.TotalOps,
		"hit_rate":       stats.HitRate(),
		"local_healthy":  h.LocalHealthy,
		"remote_healthy": h.RemoteHealthy,
	}

	if h.OverallHealthy {
		return Healthy("cache healthy").WithDetails(details)
	}
	if h.LocalHealthy {
		return Degraded("remote cache tier unavailable, serving from local tier").WithDetails(details)
	}
	return Unhealthy("local cache tier unavailable", ErrCheckFailed).WithDetails(details)
}
