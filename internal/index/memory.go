package index

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is an in-process Index. It is lost on restart and is rebuilt from a
// storage listing at start-up.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemory returns an empty Memory index.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]Entry)}
}

// Put stores a copy of e.
func (m *Memory) Put(ctx context.Context, e *Entry) error {
	m.mu.Lock()
	m.entries[e.Key] = *e
	m.mu.Unlock()
	return nil
}

// Get returns a copy of the entry for key.
func (m *Memory) Get(ctx context.Context, key string) (*Entry, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

// Delete removes the entry for key.
func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Expired returns matching entries ordered by expiry time.
func (m *Memory) Expired(ctx context.Context, before time.Time) ([]*Entry, error) {
	m.mu.RLock()
	var out []*Entry
	for _, e := range m.entries {
		if e.Expired(before) {
			e := e
			out = append(out, &e)
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	return out, nil
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
