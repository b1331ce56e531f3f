package rolecache

// Package rolecache provides RoleCache adapters: an in-process map for
// single-client use and a Redis-backed store shared across instances.

import (
	"context"
	"sync"

	domainauth "github.com/devhive/devhive-client/internal/domain/auth"
)

// Memory is an in-process role cache. Safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]domainauth.Role
}

// NewMemory creates an empty in-process role cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]domainauth.Role)}
}

func (m *Memory) Get(_ context.Context, identityID string) (domainauth.Role, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	role, ok := m.entries[identityID]
	return role, ok, nil
}

func (m *Memory) Set(_ context.Context, identityID string, role domainauth.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[identityID] = role
	return nil
}

func (m *Memory) Delete(_ context.Context, identityID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, identityID)
	return nil
}
