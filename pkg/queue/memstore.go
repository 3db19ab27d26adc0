package queue

import (
	"sync"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/types"
)

// MemStore is an in-memory Store used by tests and ephemeral runs.
type MemStore struct {
	mu      sync.Mutex
	entries []types.QueuedRequest
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Load returns a copy of the stored entries.
func (s *MemStore) Load() ([]types.QueuedRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.QueuedRequest, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Replace swaps the stored entries.
func (s *MemStore) Replace(entries []types.QueuedRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make([]types.QueuedRequest, len(entries))
	copy(s.entries, entries)
	return nil
}

// Close is a no-op.
func (s *MemStore) Close() error {
	return nil
}
