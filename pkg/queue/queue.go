package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/log"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/metrics"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/types"
)

// MaxEntries caps the offline queue. When a new entry would exceed the
// cap, the oldest entries are dropped first.
const MaxEntries = 500

// Queue is the durable offline request queue. Every mutation is a full
// load-modify-replace cycle against the Store, so concurrent processes
// sharing a store never see partial state and a restart picks up
// exactly what was last saved.
type Queue struct {
	store  Store
	logger zerolog.Logger
	max    int
}

// New creates a queue backed by store.
func New(store Store) *Queue {
	return &Queue{
		store:  store,
		logger: log.WithComponent("queue"),
		max:    MaxEntries,
	}
}

// Enqueue appends a deferred request, enforcing the size cap by
// dropping the oldest entries.
func (q *Queue) Enqueue(endpoint string, payload json.RawMessage, method string) error {
	entries, err := q.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load queue: %w", err)
	}

	entries = append(entries, types.QueuedRequest{
		ID:       uuid.New().String(),
		Endpoint: endpoint,
		Payload:  payload,
		Method:   method,
		QueuedAt: time.Now().UTC(),
	})

	if dropped := len(entries) - q.max; dropped > 0 {
		entries = entries[dropped:]
		metrics.QueueDropped.Add(float64(dropped))
		q.logger.Warn().
			Int("dropped", dropped).
			Msg("Offline queue full, dropped oldest entries")
	}

	if err := q.store.Replace(entries); err != nil {
		return fmt.Errorf("failed to save queue: %w", err)
	}

	metrics.QueueEnqueued.Inc()
	metrics.QueueDepth.Set(float64(len(entries)))
	q.logger.Info().
		Str("endpoint", endpoint).
		Int("pending", len(entries)).
		Msg("Queued offline")
	return nil
}

// Entries returns the queued requests in replay order.
func (q *Queue) Entries() ([]types.QueuedRequest, error) {
	return q.store.Load()
}

// Replace atomically swaps the queue contents. Drain uses this to
// persist the survivors of a replay pass.
func (q *Queue) Replace(entries []types.QueuedRequest) error {
	if err := q.store.Replace(entries); err != nil {
		return fmt.Errorf("failed to save queue: %w", err)
	}
	metrics.QueueDepth.Set(float64(len(entries)))
	return nil
}

// Len returns the number of queued requests.
func (q *Queue) Len() (int, error) {
	entries, err := q.store.Load()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Close closes the underlying store.
func (q *Queue) Close() error {
	return q.store.Close()
}
