package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryTier is the bounded local cache tier: entries are evicted either by
// TTL expiry (checked lazily on Get) or by LRU eviction once the tier
// reaches its configured key cap, per the cache entry lifecycle.
type MemoryTier struct {
	mu    sync.Mutex
	cache *lru.Cache[string, memoryRecord]
}

type memoryRecord struct {
	entry  Entry
	expiry time.Time
}

// NewMemoryTier creates a MemoryTier holding at most maxKeys entries. A
// non-positive maxKeys defaults to 10000, replacing the teacher's
// unbounded map with real LRU eviction.
func NewMemoryTier(maxKeys int) *MemoryTier {
	if maxKeys <= 0 {
		maxKeys = 10000
	}
	c, _ := lru.New[string, memoryRecord](maxKeys)
	return &MemoryTier{cache: c}
}

func (m *MemoryTier) get(_ context.Context, key string) (Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.cache.Get(key)
	if !ok {
		return Entry{}, false, nil
	}
	if time.Now().After(rec.expiry) {
		m.cache.Remove(key)
		return Entry{}, false, nil
	}
	return rec.entry, true, nil
}

func (m *MemoryTier) set(_ context.Context, key string, entry Entry, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	m.cache.Add(key, memoryRecord{entry: entry, expiry: time.Now().Add(ttl)})
	m.mu.Unlock()
	return nil
}

func (m *MemoryTier) delete(_ context.Context, key string) error {
	m.mu.Lock()
	m.cache.Remove(key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryTier) clearByPrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range m.cache.Keys() {
		if strings.HasPrefix(key, prefix) {
			m.cache.Remove(key)
		}
	}
	return nil
}

func (m *MemoryTier) clearAll(_ context.Context) error {
	m.mu.Lock()
	m.cache.Purge()
	m.mu.Unlock()
	return nil
}

func (m *MemoryTier) ping(context.Context) error { return nil }

// Len returns the number of entries currently held, including any that
// have expired but not yet been evicted lazily.
func (m *MemoryTier) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cache.Len()
}

var _ tier = (*MemoryTier)(nil)
