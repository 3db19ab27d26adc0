/*
Package dashboard implements the local web dashboard for the Priority Living CLI.

The dashboard package serves a single-page command center on localhost that
surfaces cloud connectivity, the live task feed, agent configuration, the
offline request queue, and local hardware details. It is a thin proxy: every
cloud-backed panel goes through pkg/backend, so the browser never needs the
bridge key and the key never leaves the machine; the queue panel reads the
local store directly and never mutates it.

# Architecture

The server sits between the browser and the control plane:

	┌──────────────────────── BROWSER ───────────────────────────┐
	│                                                             │
	│  ┌───────────────────────────────────────────────┐         │
	│  │        Embedded SPA (dashboard.html)           │         │
	│  │  - Status, feed, agents, models panels         │         │
	│  │  - Task submission + agent configuration       │         │
	│  │  - WebSocket live feed subscription            │         │
	│  └──────────────────┬────────────────────────────┘         │
	└─────────────────────┼──────────────────────────────────────┘
	                      │ HTTP + WebSocket (port 8420)
	                      │
	┌─────────────────────▼──── LOCAL DASHBOARD ─────────────────┐
	│                                                             │
	│  ┌───────────────────────────────────────────────┐         │
	│  │           Gin HTTP Server (pkg/dashboard)      │         │
	│  │  - REST API handlers                           │         │
	│  │  - WebSocket feed pusher (3s poll, diff push)  │         │
	│  │  - Hardware introspection                      │         │
	│  │  - Prometheus /metrics                         │         │
	│  └──────────────────┬────────────────────────────┘         │
	│                     │                                       │
	│  ┌──────────────────▼────────────────────────────┐         │
	│  │              Backend Client                    │         │
	│  │  - Bridge-key authenticated cloud calls        │         │
	│  │  - 15s timeout per request                     │         │
	│  └────────────────────────────────────────────────┘        │
	└─────────────────────────────────────────────────────────────┘

# Routes

	GET  /            Embedded dashboard page
	GET  /metrics     Prometheus metrics
	GET  /ws/feed     WebSocket live feed (pushes {"feed": [...]} on change)
	GET  /api/health  Server health and version
	GET  /api/status  Cloud connectivity + local hardware info
	GET  /api/feed    Recent task feed (limit query param, default 50)
	GET  /api/agents  Bound agent configurations
	GET  /api/models  Locally installed models
	GET  /api/queue   Offline request queue preview (local, read-only)
	POST /api/task    Queue a manual task in the cloud
	POST /api/config  Update agent autonomy mode and tool permissions

Handlers that require cloud access return a JSON error when no bridge key is
configured rather than failing the whole page: /api/feed and /api/agents
degrade to empty lists, while POST /api/task rejects with HTTP 400.

# WebSocket Feed

/ws/feed re-polls the cloud feed every 3 seconds and pushes a frame only when
the set of task IDs changes, so an idle browser tab costs one cloud call per
interval and no socket writes. The read side of the connection is drained
solely to detect disconnects; any in-flight cloud fetch is aborted as soon as
the client goes away.

# Usage

	srv := dashboard.New(dashboard.Options{
		Config:  cfg,
		Client:  backendClient,
		Version: version.Version,
	})
	if err := srv.Run(ctx); err != nil {
		return err
	}

Run blocks until the context is cancelled, then shuts the listener down
gracefully with a 5 second drain window.

# Integration Points

  - pkg/backend: all cloud calls (feed, agents, task queueing, config)
  - pkg/config: listen address, bridge key, models directory
  - pkg/metrics: /metrics endpoint and optional background collector

# Thread Safety

Gin handlers run concurrently; they share only the immutable Server fields
and the backend client, which is safe for concurrent use. Each WebSocket
connection runs in its own handler goroutine with connection-local state.
*/
package dashboard
