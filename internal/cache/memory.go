package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// sweepInterval is the minimum time between two full expiry sweeps
const sweepInterval = time.Minute

// MemoryClient is an in-process Cache used when Redis is not configured and in tests.
// Expired entries are dropped when read and by a sweep that runs from Set.
type MemoryClient struct {
	mu        sync.RWMutex
	data      map[string]memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		data:      make(map[string]memoryEntry),
		now:       time.Now,
		lastSweep: time.Now(),
	}
}

func (m *MemoryClient) Close() error {
	return nil
}

func (m *MemoryClient) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	entry, ok := m.data[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if m.expired(entry) {
		m.mu.Lock()
		if current, still := m.data[key]; still && m.expired(current) {
			delete(m.data, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}

	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, true, nil
}

func (m *MemoryClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: make([]byte, len(value))}
	copy(entry.value, value)
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.data[key] = entry
	if now := m.now(); now.Sub(m.lastSweep) >= sweepInterval {
		m.sweep()
		m.lastSweep = now
	}
	m.mu.Unlock()
	return nil
}

// sweep drops every expired entry; the caller holds the write lock
func (m *MemoryClient) sweep() {
	for key, entry := range m.data {
		if m.expired(entry) {
			delete(m.data, key)
		}
	}
}

func (m *MemoryClient) Exists(ctx context.Context, key string) (bool, error) {
	_, ok, err := m.Get(ctx, key)
	return ok, err
}

func (m *MemoryClient) DeletePrefix(ctx context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			delete(m.data, key)
		}
	}
	return nil
}

func (m *MemoryClient) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)
}
