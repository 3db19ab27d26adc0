/*
Package types defines the core data structures shared across the
Priority Living CLI.

This package contains the wire-level types exchanged with the control
plane (tasks, results, messages, feed entries) and the locally persisted
types (queued requests). All other packages depend on it; it depends on
nothing but the standard library.

# Core Types

Task Execution:
  - Task: Unit of work delivered by the task queue endpoint
  - ActionKind: Typed task kind (shell, command, execute, script, python)
  - ActionData: Execution parameters (command, script body, workdir)
  - TaskResult: Terminal status plus a kind-shaped result payload
  - ResultStatus: completed or failed

Polling:
  - PollResponse: Body of a task queue poll ({tasks, messages})
  - Message: Informational note from another agent (displayed only)

Offline Queue:
  - QueuedRequest: One deferred API call (endpoint, payload, method,
    queued-at timestamp) retained until connectivity returns

Control Plane Views:
  - AgentInfo: Agent bound to a bridge key (list view)
  - AgentConfig: Cloud-side configuration of a bound agent
  - FeedItem: Entry of the remotely kept live task feed

# Wire Format

All types serialize as JSON with snake_case keys matching the control
plane's contract:

	{
	  "id": "9f8c...",
	  "action_type": "shell",
	  "action_data": {"command": "uname -a", "cwd": "/tmp"},
	  "action_description": "Print kernel info"
	}

Result payloads vary by kind, which is why TaskResult.Data is a map
rather than a fixed struct:

	shell:  {"exit_code": 0, "output": "..."}
	script: {"exit_code": 1, "stdout": "...", "stderr": "..."}
	other:  {"message": "Acknowledged task type: ...", "description": "..."}

QueuedRequest.Payload is kept as raw JSON. A payload that failed to
deliver is replayed byte for byte; it is never re-interpreted locally.

# Design Patterns

Enumeration Pattern:

	All enums use typed string constants:
	  type ResultStatus string
	  const (
	      ResultCompleted ResultStatus = "completed"
	      ResultFailed    ResultStatus = "failed"
	  )

Optional Fields:

	Optional configurations use pointers or omitempty:
	  - *ActionData: nil = no parameters, fall back to the description
	  - *time.Time CompletedAt: nil = still pending

# Integration Points

This package integrates with:

  - pkg/queue: Persists QueuedRequest to BoltDB
  - pkg/backend: Marshals tasks, results, and control calls
  - pkg/executor: Dispatches on ActionKind, produces TaskResult
  - pkg/agent: Drives the poll/execute/report cycle
  - pkg/dashboard: Renders FeedItem and AgentConfig

# Thread Safety

Types here are plain data. They can be read concurrently; mutations
must be synchronized by callers. The queue store hands out fresh
copies on every load, so shared mutation does not arise in practice.
*/
package types
