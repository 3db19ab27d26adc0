// Package agent implements the worker loop that keeps one local
// agent identity alive: drain the offline queue, poll the control
// plane, execute whatever came back, report every result, sleep,
// repeat. The loop only ends when its context is cancelled.
//
// # Architecture
//
//	            ┌────────────────────────────────────────┐
//	            │                 Run                    │
//	            │                                        │
//	 register ──┤  ┌──────────────────────────────────┐  │
//	 liveness   │  │              cycle               │  │
//	 marker     │  │                                  │  │
//	            │  │  DrainQueue ──> PollTasks         │  │
//	            │  │                   │              │  │
//	            │  │      ┌────────────┼───────────┐  │  │
//	            │  │      ▼            ▼           ▼  │  │
//	            │  │  Connectivity  Success     4xx/5xx│  │
//	            │  │  backoff       tasks+msgs  plain  │  │
//	            │  │  n×interval    execute+    sleep  │  │
//	            │  │  (cap 60s)     report each        │  │
//	            │  └──────────────────────────────────┘  │
//	            │                  │                     │
//	            │            sleep(delay)                │
//	            │                  │                     │
//	 unregister─┤    ctx cancelled ──> return            │
//	            └────────────────────────────────────────┘
//
// # Loop Contract
//
//   - One identity, one worker: Run refuses to start while the
//     liveness registry reports another live worker, and removes its
//     marker on every exit path.
//   - Tasks from one poll batch run strictly sequentially, in order,
//     and every result is reported immediately through the resilient
//     client, so results survive offline periods in the durable
//     queue.
//   - Connectivity failures grow the sleep linearly with the
//     consecutive-failure count, capped at 60 seconds; the counter
//     resets on the next successful poll. HTTP rejections sleep the
//     plain interval.
//   - A stop request is honored at the next loop boundary. It never
//     kills a running task; only the executor's own timeout and
//     output ceilings do that.
//   - Panics inside a cycle are logged and followed by a short pause,
//     never propagated.
//
// # Usage
//
//	ag := agent.New(&agent.Config{
//		AgentID:  cfg.AgentID,
//		Client:   client,
//		Registry: liveness.New(cfg.AgentsDir()),
//	})
//	err := ag.Run(ctx)
//
// # Integration Points
//
//   - pkg/backend: drain, poll and report calls.
//   - pkg/executor: bounded subprocess execution.
//   - pkg/liveness: single-worker enforcement.
//   - pkg/metrics: poll cycle and failure gauges.
//
// # Thread Safety
//
// An Agent owns its loop state and must be driven by a single Run
// call; everything it touches underneath (queue, client) is safe for
// the sharing that Run does.
package agent
