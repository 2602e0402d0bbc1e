package service

import (
	"context"
	"sync"

	"github.com/jmgilman/go/repometa/cache"
)

// ProtectionStore records which branches of a project are protected.
type ProtectionStore interface {
	IsProtected(ctx context.Context, projectID, branch string) (bool, error)
	Protect(ctx context.Context, projectID, branch string) error
	Unprotect(ctx context.Context, projectID, branch string) error
}

// MemoryProtectionStore is a process-local ProtectionStore.
type MemoryProtectionStore struct {
	mu        sync.RWMutex
	protected map[string]map[string]struct{}
}

// NewMemoryProtectionStore creates an empty store.
func NewMemoryProtectionStore() *MemoryProtectionStore {
	return &MemoryProtectionStore{protected: make(map[string]map[string]struct{})}
}

func (m *MemoryProtectionStore) IsProtected(_ context.Context, projectID, branch string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.protected[projectID][branch]
	return ok, nil
}

func (m *MemoryProtectionStore) Protect(_ context.Context, projectID, branch string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.protected[projectID] == nil {
		m.protected[projectID] = make(map[string]struct{})
	}
	m.protected[projectID][branch] = struct{}{}
	return nil
}

func (m *MemoryProtectionStore) Unprotect(_ context.Context, projectID, branch string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.protected[projectID], branch)
	return nil
}

// ProviderProtectionStore keeps protection flags in a cache.Provider, so a
// file or Postgres provider persists them across processes. Do not back it
// with an evicting provider such as cache.Memory: an evicted flag reads as
// unprotected.
type ProviderProtectionStore struct {
	provider cache.Provider
}

// NewProviderProtectionStore creates a store backed by provider.
func NewProviderProtectionStore(provider cache.Provider) *ProviderProtectionStore {
	return &ProviderProtectionStore{provider: provider}
}

func (p *ProviderProtectionStore) IsProtected(ctx context.Context, projectID, branch string) (bool, error) {
	_, ok, err := p.provider.Get(ctx, protectionKey(projectID, branch))
	return ok, err
}

func (p *ProviderProtectionStore) Protect(ctx context.Context, projectID, branch string) error {
	return p.provider.Set(ctx, protectionKey(projectID, branch), []byte{1})
}

func (p *ProviderProtectionStore) Unprotect(ctx context.Context, projectID, branch string) error {
	return p.provider.Delete(ctx, protectionKey(projectID, branch))
}

func protectionKey(projectID, branch string) string {
	return "protected:" + projectID + ":" + branch
}
