package pipeline

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// memoryEntry is one resident image payload plus the sniffed container
// format ("png", "jpeg", ...) backends use to decode it.
type memoryEntry struct {
	data     []byte
	format   string
	storedAt time.Time
}

// memoryCache is the first tier: an LRU of raw encoded payloads keyed by
// URI. Entries expire lazily on read when a TTL is configured.
type memoryCache struct {
	cache *lru.Cache[string, memoryEntry]
	ttl   time.Duration
}

func newMemoryCache(maxEntries int, ttl time.Duration) (*memoryCache, error) {
	cache, err := lru.New[string, memoryEntry](maxEntries)
	if err != nil {
		return nil, err
	}
	return &memoryCache{cache: cache, ttl: ttl}, nil
}

func (m *memoryCache) get(key string) (memoryEntry, bool) {
	entry, ok := m.cache.Get(key)
	if !ok {
		return memoryEntry{}, false
	}
	if m.ttl > 0 && time.Since(entry.storedAt) >= m.ttl {
		// Expired. Evict so the LRU bookkeeping stays clean.
		m.cache.Remove(key)
		return memoryEntry{}, false
	}
	return entry, true
}

func (m *memoryCache) add(key string, data []byte, format string) {
	m.cache.Add(key, memoryEntry{data: data, format: format, storedAt: time.Now()})
}

func (m *memoryCache) remove(key string) {
	m.cache.Remove(key)
}

// contains probes without promoting the entry or evicting expired ones.
func (m *memoryCache) contains(key string) bool {
	entry, ok := m.cache.Peek(key)
	if !ok {
		return false
	}
	return m.ttl <= 0 || time.Since(entry.storedAt) < m.ttl
}

func (m *memoryCache) purge() {
	m.cache.Purge()
}

func (m *memoryCache) len() int {
	return m.cache.Len()
}
