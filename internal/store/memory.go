package store

import (
	"context"
	"sync"
)

// Memory is an in-process store. With a non-zero quota it rejects writes
// that would grow the total size of keys and values past the quota, which
// mirrors how browser storage behaves when full.
type Memory struct {
	mu     sync.RWMutex
	data   map[string]string
	size   int
	quota  int
	closed bool
}

// NewMemory creates an empty store. quota <= 0 means unlimited.
func NewMemory(quota int) *Memory {
	return &Memory{data: make(map[string]string), quota: quota}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, ErrUnavailable
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return &WriteError{Key: key, Err: ErrUnavailable}
	}

	next := m.size + len(value)
	if old, ok := m.data[key]; ok {
		next -= len(old)
	} else {
		next += len(key)
	}
	if m.quota > 0 && next > m.quota {
		return &WriteError{Key: key, Err: ErrQuotaExceeded}
	}

	m.data[key] = value
	m.size = next
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrUnavailable
	}
	if old, ok := m.data[key]; ok {
		m.size -= len(key) + len(old)
		delete(m.data, key)
	}
	return nil
}

// Size returns the number of bytes counted against the quota.
func (m *Memory) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.size
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
