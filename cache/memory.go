package cache

import (
	"context"
	"sync"

	"github.com/golang/groupcache/lru"
)

// Memory is a process-local Provider backed by an LRU. The least recently
// used entry is evicted once maxEntries is exceeded.
type Memory struct {
	mu  sync.Mutex
	lru *lru.Cache
}

// NewMemory creates a Memory provider holding at most maxEntries entries. Zero
// means no limit.
func NewMemory(maxEntries int) *Memory {
	return &Memory{lru: lru.New(maxEntries)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.lru.Get(key)
	if !ok {
		return nil, false, nil
	}

	return clone(v.([]byte)), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lru.Add(key, clone(value))
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lru.Remove(key)
	return nil
}

// Len returns the number of entries held.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.lru.Len()
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
