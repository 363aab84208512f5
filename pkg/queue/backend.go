package queue

import (
	"context"
	"sync"
)

// Backend stores opaque bytes under a key.
//
// Read returns (nil, nil) when the key does not exist. Implementations must
// be safe for concurrent use.
type Backend interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Clear(ctx context.Context, key string) error
	Close() error
}

// Taker is implemented by backends that can read and clear a key atomically.
// [Queue.DrainAll] prefers Take over a Read followed by Clear.
type Taker interface {
	Take(ctx context.Context, key string) ([]byte, error)
}

// Memory is an in-process backend. Contents are lost on exit.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Read returns a copy of the stored bytes.
func (m *Memory) Read(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

// Write stores a copy of data.
func (m *Memory) Write(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

// Clear removes the key.
func (m *Memory) Clear(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Take returns the stored bytes and removes the key.
func (m *Memory) Take(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	delete(m.data, key)
	return v, nil
}

// Close does nothing for the memory backend.
func (m *Memory) Close() error {
	return nil
}

var (
	_ Backend = (*Memory)(nil)
	_ Taker   = (*Memory)(nil)
)
