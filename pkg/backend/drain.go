package backend

import (
	"context"
	"fmt"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/metrics"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/types"
)

// DrainQueue replays queued requests in FIFO order, one call per
// entry with a short timeout. Per-entry policy:
//
//   - Success: entry is resolved and removed.
//   - Connectivity: still offline, so this entry and every entry
//     after it are kept untouched and the drain stops.
//   - ServerError: entry is kept for the next drain, replay continues.
//   - ClientError: entry is discarded, it cannot succeed on replay.
//
// The surviving set replaces the stored queue in one atomic write.
// Returns the number of entries resolved (delivered or discarded).
func (c *Client) DrainQueue(ctx context.Context) (int, error) {
	if c.queue == nil {
		return 0, nil
	}

	entries, err := c.queue.Entries()
	if err != nil {
		return 0, fmt.Errorf("failed to load queue: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	c.logger.Info().Int("pending", len(entries)).Msg("Draining offline queue")

	var remaining []types.QueuedRequest
	drained := 0

replay:
	for i, entry := range entries {
		entryCtx, cancel := context.WithTimeout(ctx, DrainEntryTimeout)
		_, outcome := c.send(entryCtx, entry.Endpoint, entry.Payload, entry.Method, headerBridgeKey, c.apiKey)
		cancel()

		switch outcome {
		case Success:
			drained++
			metrics.QueueDrained.Inc()
		case Connectivity:
			// Keep the unsent tail in order and try again next cycle.
			remaining = append(remaining, entries[i:]...)
			break replay
		case ServerError:
			remaining = append(remaining, entry)
		case ClientError:
			c.logger.Warn().
				Str("endpoint", entry.Endpoint).
				Str("queued_at", entry.QueuedAt.String()).
				Msg("Dropping queued request rejected by the backend")
			drained++
		}
	}

	if err := c.queue.Replace(remaining); err != nil {
		return drained, fmt.Errorf("failed to save queue: %w", err)
	}

	if drained > 0 {
		c.logger.Info().Int("drained", drained).Int("remaining", len(remaining)).Msg("Drained queued requests")
	}
	return drained, nil
}
