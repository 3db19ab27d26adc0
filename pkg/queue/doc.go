/*
Package queue implements the durable offline request queue.

When the control plane is unreachable, payload-bearing API calls are
captured here and replayed later in order. The queue survives process
restarts and crashes: it is backed by BoltDB and every mutation is an
atomic replace of the full contents.

# Architecture

	┌──────────────────── OFFLINE QUEUE ───────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │                 Queue                       │          │
	│  │  - Enqueue(endpoint, payload, method)       │          │
	│  │  - Entries() / Replace(entries) / Len()     │          │
	│  │  - Size cap: 500, drop-oldest               │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │ load / replace-all                  │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │              Store interface                │          │
	│  │  - Load() ([]QueuedRequest, error)          │          │
	│  │  - Replace([]QueuedRequest) error           │          │
	│  │  - Close() error                            │          │
	│  └───────┬────────────────────────┬───────────┘          │
	│          │                        │                       │
	│  ┌───────▼────────┐      ┌───────▼────────┐             │
	│  │   BoltStore    │      │    MemStore    │             │
	│  │  queue.db      │      │  tests, REPL   │             │
	│  │  seq-keyed     │      │  runs          │             │
	│  └────────────────┘      └────────────────┘             │
	└────────────────────────────────────────────────────────┘

# Core Components

Queue:
  - Load-modify-replace on every mutation (no in-memory cache)
  - FIFO ordering preserved across restarts
  - MaxEntries (500) cap enforced by dropping oldest entries
  - Emits depth/enqueued/dropped metrics

Store:
  - Load returns all entries in insertion order
  - Replace atomically swaps the full contents
  - BoltStore keys entries by a big-endian bucket sequence so cursor
    order equals insertion order; Replace rewrites the bucket inside a
    single transaction
  - MemStore is the in-memory implementation for tests

# Usage

Opening the durable queue:

	store, err := queue.NewBoltStore(cfg.QueuePath())
	if err != nil {
		return err
	}
	defer store.Close()
	q := queue.New(store)

Capturing a failed request:

	payload, _ := json.Marshal(report)
	if err := q.Enqueue("agent-task-result", payload, "POST"); err != nil {
		logger.Error().Err(err).Msg("Failed to queue request")
	}

Replaying (see pkg/backend for the drain policy):

	entries, err := q.Entries()
	// ... attempt each entry in order ...
	err = q.Replace(survivors)

# Ordering and Retention

Entries replay oldest first. The cap is enforced at enqueue time: if
appending would exceed MaxEntries, the oldest (len - cap) entries are
dropped before saving, so the newest 500 always survive. A queue
rebuilt after a crash contains exactly the entries of the last
successful Replace.

Payloads are stored as raw JSON and replayed byte for byte. A request
that failed to deliver is never re-marshaled or re-interpreted.

# Integration Points

This package integrates with:

  - pkg/backend: Enqueues transient failures, drains on reconnect
  - pkg/agent: Drains at the top of every poll cycle
  - pkg/dashboard: Shows pending entries on the local queue view
  - pkg/metrics: Depth, enqueued, dropped, drained counters

# Thread Safety

Queue methods are safe for concurrent use when the Store is: BoltStore
serializes writers through BoltDB's single-writer transaction lock, and
MemStore guards its slice with a mutex. The load-modify-replace cycle
means concurrent enqueuers can interleave, which at worst reorders two
entries queued in the same instant.
*/
package queue
