/*
Package log configures the process-wide zerolog logger for the
Priority Living CLI.

Commands call Init once after loading config; every other package
derives a tagged child logger at construction time and logs through
that. The zero-value root logger discards events, so packages built
before Init (or in tests that never call it) stay silent instead of
panicking.

# Configuration

	log.Init(log.Config{Level: cfg.LogLevel})

	// Log shipping: one JSON object per line.
	log.Init(log.Config{Level: "debug", JSON: true})

Level strings are zerolog's ("debug", "info", "warn", "error");
unknown or empty values fall back to info. Output defaults to stderr
so `pl queue show` and friends can pipe stdout cleanly.

# Tagged Loggers

	logger := log.WithComponent("queue")
	logger.Warn().Int("dropped", n).Msg("Queue full, dropping oldest")

	agentLog := log.WithAgentID(cfg.AgentID)
	agentLog.Info().Str("task_id", task.ID).Msg("Task completed")

Console format:

	10:30:00 INF Task completed agent_id=9f8c task_id=task-def456
	10:30:02 WRN Queue full, dropping oldest component=queue dropped=1

JSON format:

	{"level":"info","agent_id":"9f8c","task_id":"task-def456","time":"2026-01-10T10:30:00Z","message":"Task completed"}

# Integration Points

  - cmd/pl: Init from the loaded config before any command runs
  - pkg/agent: WithAgentID for the worker loop
  - pkg/backend, pkg/queue, pkg/executor, pkg/liveness, pkg/dashboard,
    pkg/updater: WithComponent at construction

# Thread Safety

zerolog loggers are safe for concurrent use. Init is not; call it once
at startup before spawning goroutines that log.
*/
package log
