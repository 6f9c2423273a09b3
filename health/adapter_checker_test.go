package health

import (
	"context"
	"testing"
	"time"

	"github.com/opsknowledge/retrieval-core/adapter"
)

type fakeHealthAdapter struct {
	health adapter.HealthResult
}

func (f *fakeHealthAdapter) Initialize(context.Context) error { return nil }
func (f *fakeHealthAdapter) Search(context.Context, string, map[string]any) ([]adapter.SearchResult, error) {
	return nil, nil
}
func (f *fakeHealthAdapter) SearchRunbooks(context.Context, string, string, []string) ([]adapter.Runbook, error) {
	return nil, nil
}
func (f *fakeHealthAdapter) GetDocument(context.Context, string) (adapter.Document, error) {
	return adapter.Document{}, nil
}
func (f *fakeHealthAdapter) HealthCheck(context.Context) (adapter.HealthResult, error) {
	return f.health, nil
}
func (f *fakeHealthAdapter) GetMetadata() adapter.Metadata       { return adapter.Metadata{} }
func (f *fakeHealthAdapter) RefreshIndex(context.Context, bool) error { return nil }
func (f *fakeHealthAdapter) Cleanup(context.Context) error            { return nil }
func (f *fakeHealthAdapter) GetConfig() adapter.Config                { return nil }

func TestAdapterChecker_AllHealthy(t *testing.T) {
	reg := adapter.NewRegistry()
	reg.RegisterFactory("x", func(adapter.Config) (adapter.Adapter, error) {
		return &fakeHealthAdapter{health: adapter.HealthResult{Healthy: true}}, nil
	})
	_ = reg.Create(context.Background(), "a1", "x", nil)

	c := NewAdapterChecker(reg, time.Second)
	result := c.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want StatusHealthy", result.Status)
	}
}

func TestAdapterChecker_PartialFailureIsDegraded(t *testing.T) {
	reg := adapter.NewRegistry()
	reg.RegisterFactory("good", func(adapter.Config) (adapter.Adapter, error) {
		return &fakeHealthAdapter{health: adapter.HealthResult{Healthy: true}}, nil
	})
	reg.RegisterFactory("bad", func(adapter.Config) (adapter.Adapter, error) {
		return &fakeHealthAdapter{health: adapter.HealthResult{Healthy: false}}, nil
	})
	_ = reg.Create(context.Background(), "a-good", "good", nil)
	_ = reg.Create(context.Background(), "a-bad", "bad", nil)

	c := NewAdapterChecker(reg, time.Second)
	result := c.Check(context.Background())
	if result.Status != StatusDegraded {
		t.Errorf("Status = %v, want StatusDegraded with one of two sources down", result.Status)
	}
}

func TestAdapterChecker_NoAdaptersIsUnhealthy(t *testing.T) {
	c := NewAdapterChecker(adapter.NewRegistry(), time.Second)
	result := c.Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy with zero adapters registered", result.Status)
	}
}
