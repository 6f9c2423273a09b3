package cache

import "time"

// TypePolicy configures caching behavior for a single content type.
type TypePolicy struct {
	// TTLSeconds is the TTL applied to entries of this content type.
	TTLSeconds int

	// Warmup lists identifiers configured for pre-population of this
	// content type (see Policy.WarmupIdentifiers). Nothing loads them
	// automatically; Service.Warm writes only the items it is given.
	Warmup []string
}

// Policy maps each content type to its TypePolicy and supplies the
// fallback TTL used when a type has no explicit entry, generalizing the
// single DefaultTTL/MaxTTL pair into a per-content-type table.
type Policy struct {
	// ByType holds the per-content-type TTL configuration.
	ByType map[ContentType]TypePolicy

	// DefaultTTLSeconds is used for a content type absent from ByType, or
	// present with TTLSeconds <= 0.
	DefaultTTLSeconds int

	// MaxTTLSeconds caps the effective TTL. Zero means unbounded.
	MaxTTLSeconds int
}

// DefaultPolicy returns a policy with a 5 minute default TTL and a 1 hour
// cap, and no per-type overrides.
func DefaultPolicy() Policy {
	return Policy{
		ByType:            map[ContentType]TypePolicy{},
		DefaultTTLSeconds: 300,
		MaxTTLSeconds:     3600,
	}
}

// EffectiveTTL returns the TTL to apply to a new entry of the given
// content type.
func (p Policy) EffectiveTTL(ct ContentType) time.Duration {
	ttl := p.DefaultTTLSeconds
	if tp, ok := p.ByType[ct]; ok && tp.TTLSeconds > 0 {
		ttl = tp.TTLSeconds
	}
	if p.MaxTTLSeconds > 0 && ttl > p.MaxTTLSeconds {
		ttl = p.MaxTTLSeconds
	}
	return time.Duration(ttl) * time.Second
}

// WarmupIdentifiers returns the identifiers configured for warmup under
// the given content type, or nil if none are configured.
func (p Policy) WarmupIdentifiers(ct ContentType) []string {
	return p.ByType[ct].Warmup
}
