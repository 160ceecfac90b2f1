package cache

import (
	"context"
	"sync"
	"time"

	"part-cost/core/types"
)

type memoryEntry struct {
	result    *types.PricingResult
	expiresAt time.Time
}

// Memory is an in-process cache adapter. It is safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	// now is swappable for expiry tests
	now func() time.Time
}

// NewMemory creates an empty in-memory adapter.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the stored result if present and unexpired.
func (m *Memory) Get(ctx context.Context, key string) (*types.PricingResult, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false, nil
	}

	copy := *entry.result
	return &copy, true, nil
}

// Set stores the result under key.
func (m *Memory) Set(ctx context.Context, key string, value *types.PricingResult, ttl time.Duration) error {
	entry := memoryEntry{result: value}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

// Close drops all entries.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.entries = nil
	m.mu.Unlock()
	return nil
}

// Len reports the live entry count.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
