// Package adapter defines the source-adapter plugin contract (§4.H/§6) and
// a factory-keyed registry that creates, health-checks, and tears adapters
// down. Grounded on the teacher's constructor-based singleton idiom
// (observe.NewObserver, health.NewAggregator): a map of names to concrete
// instances behind a small registration API.
package adapter

import "context"

// SearchResult is one hit from Search.
type SearchResult struct {
	ID      string
	Title   string
	Snippet string
	Score   float64
	Source  string
}

// Runbook is one hit from SearchRunbooks.
type Runbook struct {
	ID       string
	Title    string
	Steps    []string
	Severity string
	Source   string
}

// Document is the result of GetDocument.
type Document struct {
	ID      string
	Title   string
	Body    string
	Source  string
}

// HealthResult is the outcome of an adapter's own health check.
type HealthResult struct {
	Healthy        bool
	ResponseTimeMS float64
	Error          string
}

// Metadata describes an adapter instance for catalog/listing purposes.
type Metadata struct {
	Name    string
	Type    string
	Version string
}

// Config is the adapter-specific configuration block from §6's
// sources[] array; fields are opaque to the registry.
type Config map[string]any

// Adapter is the external plugin contract of §4.H.
type Adapter interface {
	Initialize(ctx context.Context) error
	Search(ctx context.Context, query string, filters map[string]any) ([]SearchResult, error)
	SearchRunbooks(ctx context.Context, alertType, severity string, systems []string) ([]Runbook, error)
	GetDocument(ctx context.Context, id string) (Document, error)
	HealthCheck(ctx context.Context) (HealthResult, error)
	GetMetadata() Metadata
	RefreshIndex(ctx context.Context, force bool) error
	Cleanup(ctx context.Context) error
	GetConfig() Config
}

// Factory constructs an Adapter from its configuration block.
type Factory func(config Config) (Adapter, error)
