// internal/store/memory.go
//
// In-memory implementation of the Gateway interface.
// Used in tests and when STORE=memory; state is lost when the process exits.
//
// Characteristics:
//   - Values are copied on the way in and out so callers never share buffers.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).

package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Load when the key has never been saved
// (or was removed).
var ErrNotFound = errors.New("not found")

// Gateway is the key-value persistence boundary for saved game records.
// Values are opaque JSON documents.
type Gateway interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// memory is an in-memory map-based Gateway implementation.
type memory struct {
	mu   sync.RWMutex      // guards vals
	vals map[string][]byte // keyed by record key
}

// NewMemoryStore constructs a new in-memory Gateway.
func NewMemoryStore() Gateway {
	return &memory{vals: make(map[string][]byte)}
}

func (m *memory) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.vals[key]; ok {
		return append([]byte(nil), v...), nil
	}
	return nil, ErrNotFound
}

func (m *memory) Save(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[key] = append([]byte(nil), value...)
	return nil
}

func (m *memory) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vals, key)
	return nil
}
