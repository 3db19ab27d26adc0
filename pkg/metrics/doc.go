/*
Package metrics provides Prometheus metrics collection and exposition
for the local agent runtime.

All metrics are defined as package-level collectors, registered at
init with the default registry and exposed through the dashboard's
/metrics endpoint. The package also keeps a lightweight component
health view used by the dashboard health endpoint.

# Architecture

	┌──────────────────── METRICS SYSTEM ─────────────────────┐
	│                                                          │
	│  ┌────────────────────────────────────────────┐          │
	│  │          Prometheus Registry                │          │
	│  │  - Global DefaultRegistry                   │          │
	│  │  - MustRegister at package init             │          │
	│  │  - Automatic Go runtime metrics             │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                    │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │           Metric Categories                 │          │
	│  │                                             │          │
	│  │  Worker:  poll cycles, failures, backoff    │          │
	│  │  Tasks:   executed by status, duration      │          │
	│  │  Queue:   depth, enqueued, dropped, drained │          │
	│  │  API:     requests by endpoint/outcome,     │          │
	│  │           duration by endpoint              │          │
	│  │  Agents:  live worker gauge                 │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                    │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │          HTTP Metrics Endpoint              │          │
	│  │  - Path: /metrics (dashboard server)        │          │
	│  │  - Format: Prometheus text exposition       │          │
	│  │  - Handler: promhttp.Handler()              │          │
	│  └────────────────────────────────────────────┘          │
	└──────────────────────────────────────────────────────────┘

# Core Components

  - Package-level collectors (PollCycles, TasksExecuted, QueueDepth,
    RequestsTotal, ...) incremented at the call sites that own the
    event.
  - Timer: start/observe helper for histograms.
  - Collector: 15s background refresher for gauges whose truth lives
    on disk (queue depth, live worker count) and can change under
    other processes.
  - Health: component health registry behind the dashboard's
    /api/health endpoint.

# Usage

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.TaskDuration)

	metrics.TasksExecuted.WithLabelValues("completed").Inc()

	collector := metrics.NewCollector(q, registry)
	collector.Start()
	defer collector.Stop()

# Integration Points

  - pkg/backend: request counters and latency per endpoint.
  - pkg/queue: depth gauge and enqueue/drop/drain counters.
  - pkg/agent: poll cycle and consecutive failure tracking.
  - pkg/dashboard: exposes /metrics and /api/health.

# Thread Safety

Prometheus collectors are safe for concurrent use. The health
registry is guarded by its own mutex. A Collector must be started and
stopped at most once.
*/
package metrics
