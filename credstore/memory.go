package credstore

import (
	"bytes"
	"context"
	"sync"
)

// Memory keeps records in process memory. Records do not survive restarts.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

// Save stores a copy of record under id.
func (m *Memory) Save(_ context.Context, id string, record []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[id] = bytes.Clone(record)
	return nil
}

// Retrieve returns a copy of the record under id, or nil.
func (m *Memory) Retrieve(_ context.Context, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	return bytes.Clone(rec), nil
}

// Clear removes the record under id.
func (m *Memory) Clear(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error { return nil }

// Close is a no-op.
func (m *Memory) Close() error { return nil }
