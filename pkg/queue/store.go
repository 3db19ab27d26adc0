package queue

import (
	"github.com/prioritylivinglabs/priority-living-cli/pkg/types"
)

// Store defines the persistence interface for the offline queue.
// Implementations must preserve insertion order across Load/Replace
// cycles, and Replace must be atomic: after a crash the store holds
// either the previous contents or the new contents, never a mix.
type Store interface {
	// Load returns all queued requests in insertion order.
	Load() ([]types.QueuedRequest, error)

	// Replace atomically swaps the stored contents for entries.
	Replace(entries []types.QueuedRequest) error

	// Close releases the underlying resources.
	Close() error
}
