package health

import (
	"context"
	"testing"

	"github.com/opsknowledge/retrieval-core/cache"
)

func TestCacheChecker_MemoryOnlyIsHealthy(t *testing.T) {
	svc := cache.NewService(cache.Config{
		Enabled:  true,
		Strategy: cache.StrategyMemoryOnly,
	}, cache.NewMemoryTier(100), nil)

	c := NewCacheChecker(svc)
	result := c.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want StatusHealthy for a memory-only cache", result.Status)
	}
}

func TestCacheChecker_NilServiceIsUnhealthy(t *testing.T) {
	c := NewCacheChecker(nil)
	result := c.Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy for a nil service", result.Status)
	}
}
