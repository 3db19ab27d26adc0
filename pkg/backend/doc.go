// Package backend implements the control plane API client with
// offline resilience. Every operation is exactly one synchronous HTTP
// call classified into an Outcome; requests that fail transiently
// while carrying a payload are captured in the durable queue and
// replayed by the drain when connectivity returns.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────┐
//	│                        Client                           │
//	│                                                         │
//	│  PollTasks ──────> x-connection-token ──┐               │
//	│  ReportResult ──> Resilient ──┐         │               │
//	│  Call (control) ──────────────┤         │               │
//	│                               ▼         ▼               │
//	│                        ┌─────────────────────┐          │
//	│                        │        send         │          │
//	│                        │  one HTTP request   │          │
//	│                        └──────────┬──────────┘          │
//	│                                   │                     │
//	│                                   ▼                     │
//	│            ┌──────────────── classify ───────────────┐  │
//	│            │ error 5xx           4xx          <400   │  │
//	│            ▼       ▼              ▼            ▼     │  │
//	│      Connectivity ServerError ClientError   Success  │  │
//	│            │       │              │                  │  │
//	│            └───┬───┘              └── drop           │  │
//	│                ▼                                     │  │
//	│         queue.Enqueue (payload-bearing only)         │  │
//	└─────────────────────────────────────────────────────────┘
//	                         │
//	                         ▼ DrainQueue (FIFO replay)
//	              ┌─────────────────────────┐
//	              │ Success      -> remove  │
//	              │ Connectivity -> keep    │
//	              │               tail+stop │
//	              │ ServerError  -> keep    │
//	              │ ClientError  -> drop    │
//	              └─────────────────────────┘
//
// # Core Components
//
//   - Client: resty-backed HTTP client holding the gateway anon key,
//     the per-role API key (bridge key or connection token) and an
//     optional offline queue.
//   - Outcome: four-way classification of a call (Success,
//     Connectivity, ServerError, ClientError) shared by retry policy,
//     logs and metrics labels.
//   - Resilient: call-or-queue primitive used for task results.
//   - DrainQueue: in-order replay with a 15s cap per entry and an
//     atomic rewrite of the surviving entries.
//
// # Usage
//
//	store, _ := queue.NewBoltStore(cfg.QueuePath())
//	q := queue.New(store)
//	client := backend.NewClient(backend.Options{
//		BackendURL:      cfg.BackendURL,
//		AnonKey:         cfg.AnonKey,
//		APIKey:          cfg.ConnectionToken,
//		ConnectionToken: cfg.ConnectionToken,
//	}, q)
//
//	drained, _ := client.DrainQueue(ctx)
//	poll, outcome := client.PollTasks(ctx)
//	client.ReportResult(ctx, task.ID, result)
//
// # Integration Points
//
//   - pkg/queue: durable storage for requests that could not be
//     delivered.
//   - pkg/agent: drives the drain/poll/report cycle.
//   - pkg/dashboard and cmd/pl: control operations (list agents,
//     spawn, live feed, manual tasks) over the same client.
//   - pkg/metrics: request counters and latency histograms labelled
//     by endpoint and outcome.
//
// # Thread Safety
//
// A Client is safe for concurrent use; the underlying resty client
// and the queue serialize their own state. DrainQueue should run from
// a single goroutine at a time, concurrent drains would replay
// entries twice.
package backend
