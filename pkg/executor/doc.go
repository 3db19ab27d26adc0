// Package executor runs control plane tasks as bounded subprocesses.
// Every execution path returns a TaskResult: spawn failures, nonzero
// exits, timeouts and output overflows all become structured failed
// results, never errors, so the agent loop keeps running whatever a
// task does.
//
// # Architecture
//
//	                ┌──────────────────────────┐
//	     Task ────> │         Execute          │
//	                │   dispatch on kind       │
//	                └─────┬──────┬──────┬──────┘
//	                      │      │      │
//	        shell/command │      │      │ unknown kind
//	        /execute      │script│      │
//	                      ▼      ▼      ▼
//	               ┌────────┐ ┌────────┐ ┌─────────────┐
//	               │/bin/sh │ │interp. │ │ acknowledge │
//	               │  -c    │ │  -c    │ │ (no spawn)  │
//	               └───┬────┘ └───┬────┘ └─────────────┘
//	                   │          │
//	         merged out│          │stdout / stderr
//	         cap 50000 │          │sliced to 20000 / 5000
//	         kill+mark │          │
//	                   ▼          ▼
//	                      TaskResult
//	            {exit_code, output | stdout+stderr}
//
// # Execution Contract
//
//   - Shell tasks run the command line through /bin/sh -c with
//     stdout and stderr merged in arrival order. Output accumulates
//     incrementally; crossing the 50,000 byte ceiling kills the
//     process and appends a truncation marker.
//   - Script tasks run the body through a fresh interpreter process
//     (python3 unless configured otherwise) with no shell. The result
//     carries diagnostic slices of the streams, not the full output.
//   - Both kinds share the working-directory rule (task cwd, else the
//     configured default, normally the home directory) and the
//     5-minute wall clock, enforced by killing the whole process
//     group so forked children die with the shell.
//   - Unrecognized kinds are acknowledged as completed without
//     spawning a process.
//
// # Usage
//
//	exec := executor.New()
//	result := exec.Execute(ctx, task)
//	client.ReportResult(ctx, task.ID, result)
//
// # Integration Points
//
//   - pkg/agent: runs one task at a time from each poll batch.
//   - pkg/types: Task input and TaskResult output shapes.
//   - pkg/metrics: per-task duration histogram and status counter.
//
// # Thread Safety
//
// An Executor is stateless between calls and safe for concurrent use,
// although the agent loop runs tasks strictly sequentially.
package executor
