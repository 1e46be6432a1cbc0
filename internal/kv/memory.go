package kv

import (
	"context"
	"sync"
)

// Memory is the in-process Store used by default and in tests. Payloads are
// copied on the way in and out so callers cannot alias internal state.
type Memory struct {
	mu      sync.RWMutex
	buckets map[string]map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{buckets: make(map[string]map[string][]byte)}
}

func (m *Memory) Put(_ context.Context, bucket, id string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[bucket]
	if !ok {
		b = make(map[string][]byte)
		m.buckets[bucket] = b
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	b[id] = cp
	return nil
}

func (m *Memory) Get(_ context.Context, bucket, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	payload, ok := m.buckets[bucket][id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	return cp, nil
}

func (m *Memory) GetAll(_ context.Context, bucket string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string][]byte, len(m.buckets[bucket]))
	for id, payload := range m.buckets[bucket] {
		cp := make([]byte, len(payload))
		copy(cp, payload)
		out[id] = cp
	}
	return out, nil
}

func (m *Memory) Delete(_ context.Context, bucket, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.buckets[bucket], id)
	return nil
}

func (m *Memory) Close() error { return nil }
