package pipeline

import (
	"context"
	"time"

	"github.com/opsknowledge/retrieval-core/cache"
)

// baseTTLByStrategy implements §4.F step 5's TTL table, in seconds.
var baseTTLByStrategy = map[string]int{
	"critical_incident":       7200,
	"high_priority_incident":  3600,
	"business_critical_query": 2700,
	"complex_query":           1800,
	"simple_query":            900,
	"decision_logic":          5400,
	"procedure_steps":         4320,
	"metadata":                14400,
	"analytics":               300,
	"standard":                600,
}

const (
	minCacheTTLSeconds = 300
	maxCacheTTLSeconds = 28800
)

// cacheableEndpoints are the tools whose responses may be cached. GET-style
// reads are always eligible; record_resolution_feedback is a write and is
// deliberately absent.
var cacheableEndpoints = map[string]bool{
	"search_knowledge_base": true,
	"search_runbooks":       true,
	"get_decision_tree":     true,
	"get_procedure":         true,
	"get_escalation_path":   true,
	"list_sources":          true,
}

// toolContentType maps a tool name to the cache content-type bucket its
// responses belong to.
var toolContentType = map[string]cache.ContentType{
	"search_knowledge_base": cache.ContentKnowledgeBase,
	"search_runbooks":       cache.ContentRunbooks,
	"get_decision_tree":     cache.ContentDecisionTrees,
	"get_procedure":         cache.ContentProcedures,
	"get_escalation_path":   cache.ContentDecisionTrees,
	"list_sources":          cache.ContentWebResponse,
}

// Cacheable reports whether tool's responses participate in cache
// interception at all.
func Cacheable(tool string) bool {
	return cacheableEndpoints[tool]
}

// ResolveStrategy computes the strategy label used to pick a base TTL, from
// the tool name and its (already-transformed) arguments.
func ResolveStrategy(tool string, args map[string]any) string {
	switch tool {
	case "search_runbooks":
		severity, _ := args["severity"].(string)
		switch severity {
		case "critical":
			return "critical_incident"
		case "high":
			return "high_priority_incident"
		default:
			return "standard"
		}
	case "search_knowledge_base":
		if complexity, ok := args["complexity"].(float64); ok && complexity > 0.6 {
			return "complex_query"
		}
		return "simple_query"
	case "get_decision_tree":
		return "decision_logic"
	case "get_procedure":
		return "procedure_steps"
	case "get_escalation_path":
		return "business_critical_query"
	case "list_sources":
		return "metadata"
	default:
		return "standard"
	}
}

// Fingerprint builds the cache fingerprint for tool/args.
func Fingerprint(tool string, args map[string]any) (cache.Fingerprint, error) {
	id, err := cache.CanonicalIdentifier(args)
	if err != nil {
		return cache.Fingerprint{}, err
	}
	return cache.Fingerprint{ContentType: toolContentType[tool], Identifier: tool + ":" + id}, nil
}

// ResolveTTL computes the final TTL for strategy, adjusted by a
// time-of-day multiplier (off-peak hours cache longer, since traffic and
// content churn are both lower) and a content-freshness multiplier
// (high-churn strategies like analytics and simple_query cache for less
// than their base TTL suggests), then clamps to [300, 28800] seconds.
func ResolveTTL(strategy string, now time.Time) time.Duration {
	base, ok := baseTTLByStrategy[strategy]
	if !ok {
		base = baseTTLByStrategy["standard"]
	}

	ttl := float64(base) * timeOfDayMultiplier(now) * freshnessMultiplier(strategy)
	seconds := clampFloat(ttl, minCacheTTLSeconds, maxCacheTTLSeconds)
	return time.Duration(seconds) * time.Second
}

func timeOfDayMultiplier(now time.Time) float64 {
	hour := now.UTC().Hour()
	if hour < 6 || hour >= 22 {
		return 1.25 // off-peak: longer cache lifetime
	}
	return 1.0
}

func freshnessMultiplier(strategy string) float64 {
	switch strategy {
	case "analytics", "simple_query":
		return 0.5 // high-churn content, trust the cache less
	case "metadata", "procedure_steps":
		return 1.1 // rarely changes, safe to extend slightly
	default:
		return 1.0
	}
}

// CacheInterceptor runs §4.F step 5 around a call to next.
type CacheInterceptor struct {
	svc   *cache.Service
	clock Clock
}

// NewCacheInterceptor creates a CacheInterceptor over svc. A nil clock
// defaults to time.Now.
func NewCacheInterceptor(svc *cache.Service, clock Clock) *CacheInterceptor {
	if clock == nil {
		clock = time.Now
	}
	return &CacheInterceptor{svc: svc, clock: clock}
}

// InterceptResult reports what the cache stage decided.
type InterceptResult struct {
	Status   string // HIT, MISS, or ERROR
	Strategy string
	Payload  []byte // only set on HIT
}

// Probe checks the cache for tool/args before dispatch. When svc is nil or
// tool is not cacheable, it reports a MISS without touching the cache.
func (ci *CacheInterceptor) Probe(ctx context.Context, tool string, args map[string]any) InterceptResult {
	strategy := ResolveStrategy(tool, args)
	if ci.svc == nil || !Cacheable(tool) {
		return InterceptResult{Status: "MISS", Strategy: strategy}
	}

	fp, err := Fingerprint(tool, args)
	if err != nil {
		return InterceptResult{Status: "ERROR", Strategy: strategy}
	}

	if payload, ok := ci.svc.Get(ctx, fp); ok {
		return InterceptResult{Status: "HIT", Strategy: strategy, Payload: payload}
	}
	return InterceptResult{Status: "MISS", Strategy: strategy}
}

// Store writes payload into the cache for tool/args, following a
// successful dispatch on a cache miss. No-op when svc is nil or tool is
// not cacheable.
func (ci *CacheInterceptor) Store(ctx context.Context, tool string, args map[string]any, payload []byte) error {
	if ci.svc == nil || !Cacheable(tool) {
		return nil
	}
	fp, err := Fingerprint(tool, args)
	if err != nil {
		return err
	}
	strategy := ResolveStrategy(tool, args)
	ttl := ResolveTTL(strategy, ci.clock())
	return ci.svc.SetWithTTL(ctx, fp, payload, ttl)
}
