package cache

import (
	"sync"
	"time"
)

// TypeCounters holds the per-content-type hit/miss sub-counters.
type TypeCounters struct {
	Hits   int64
	Misses int64
}

// Stats is a point-in-time snapshot of the cache's operation counters.
// Invariants: TotalOps == Hits+Misses, and the sum of every PerType
// sub-counter equals the corresponding top-level counter.
type Stats struct {
	Hits            int64
	Misses          int64
	TotalOps        int64
	PerType         map[ContentType]TypeCounters
	LastReset       time.Time
	RemoteConnected bool
}

// HitRate returns Hits/TotalOps, or 0 if no operations have been recorded.
func (s Stats) HitRate() float64 {
	if s.TotalOps == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.TotalOps)
}

// statCounters is the mutex-guarded accumulator backing Service.Stats,
// in the same guarded-struct idiom the teacher uses throughout cache and
// resilience.
type statCounters struct {
	mu        sync.Mutex
	hits      int64
	misses    int64
	perType   map[ContentType]*TypeCounters
	lastReset time.Time
}

func newStatCounters() *statCounters {
	return &statCounters{
		perType:   make(map[ContentType]*TypeCounters),
		lastReset: time.Now(),
	}
}

func (c *statCounters) recordHit(ct ContentType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits++
	tc := c.typeLocked(ct)
	tc.Hits++
}

func (c *statCounters) recordMiss(ct ContentType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.misses++
	tc := c.typeLocked(ct)
	tc.Misses++
}

func (c *statCounters) typeLocked(ct ContentType) *TypeCounters {
	tc, ok := c.perType[ct]
	if !ok {
		tc = &TypeCounters{}
		c.perType[ct] = tc
	}
	return tc
}

func (c *statCounters) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits = 0
	c.misses = 0
	c.perType = make(map[ContentType]*TypeCounters)
	c.lastReset = time.Now()
}

func (c *statCounters) snapshot(remoteConnected bool) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	perType := make(map[ContentType]TypeCounters, len(c.perType))
	for ct, tc := range c.perType {
		perType[ct] = *tc
	}

	return Stats{
		Hits:            c.hits,
		Misses:          c.misses,
		TotalOps:        c.hits + c.misses,
		PerType:         perType,
		LastReset:       c.lastReset,
		RemoteConnected: remoteConnected,
	}
}
