package cache

import (
	"sync"
	"time"
)

// MemoryConfig configures the in-memory cache.
type MemoryConfig struct {
	// MaxEntries bounds the number of cached entries. When full, Set
	// evicts the entry closest to expiry.
	// Default: 1024
	MaxEntries int

	// DefaultTTL applies when Set is called with a non-positive ttl.
	// Default: 1 minute
	DefaultTTL time.Duration

	// now is overridable for tests.
	now func() time.Time
}

// Memory is a TTL-bounded in-memory cache, safe for concurrent use.
type Memory[V any] struct {
	config MemoryConfig

	mu      sync.Mutex
	entries map[string]entry[V]
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// NewMemory creates an in-memory cache.
func NewMemory[V any](config MemoryConfig) *Memory[V] {
	if config.MaxEntries <= 0 {
		config.MaxEntries = 1024
	}
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = time.Minute
	}
	if config.now == nil {
		config.now = time.Now
	}
	return &Memory[V]{
		config:  config,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the cached value for key if present and unexpired. Expired
// entries are removed lazily.
func (m *Memory[V]) Get(key string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if m.config.now().After(e.expiresAt) {
		delete(m.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores a value under key for the given ttl. A non-positive ttl falls
// back to the configured default.
func (m *Memory[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = m.config.DefaultTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.config.MaxEntries {
		m.evictLocked()
	}
	m.entries[key] = entry[V]{
		value:     value,
		expiresAt: m.config.now().Add(ttl),
	}
}

// Delete removes a key, if present.
func (m *Memory[V]) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Len returns the number of entries, including any not yet lazily expired.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// evictLocked removes the entry closest to expiry. Callers hold the lock.
func (m *Memory[V]) evictLocked() {
	var (
		victim string
		oldest time.Time
		first  = true
	)
	for key, e := range m.entries {
		if first || e.expiresAt.Before(oldest) {
			victim = key
			oldest = e.expiresAt
			first = false
		}
	}
	if !first {
		delete(m.entries, victim)
	}
}
