// Package positions remembers the last viewing position per session key so a
// restarted session resumes where the user left off.
package positions

import (
	"context"
	"sync"
)

// Store persists remembered viewing positions keyed by session key (an album
// or primary-record key).
type Store interface {
	Get(ctx context.Context, key string) (int, bool, error)
	Set(ctx context.Context, key string, position int) error
	Clear(ctx context.Context, key string) error
}

// NewMemoryStore returns a Store backed by an in-memory map, used in tests
// and in deployments without Redis.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{positions: make(map[string]int)}
}

// MemoryStore implements Store for tests and local development.
type MemoryStore struct {
	mu        sync.RWMutex
	positions map[string]int
}

// Get retrieves a remembered position.
func (s *MemoryStore) Get(_ context.Context, key string) (int, bool, error) {
	s.mu.RLock()
	position, ok := s.positions[key]
	s.mu.RUnlock()
	return position, ok, nil
}

// Set stores a position.
func (s *MemoryStore) Set(_ context.Context, key string, position int) error {
	s.mu.Lock()
	s.positions[key] = position
	s.mu.Unlock()
	return nil
}

// Clear forgets a position.
func (s *MemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.positions, key)
	s.mu.Unlock()
	return nil
}
