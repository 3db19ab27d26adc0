// Package liveness enforces one worker process per agent identity
// using pid marker files.
//
// A marker (<agent-id>.pid) records the pid of the worker serving an
// identity. The marker alone proves nothing: IsRunning probes the
// recorded pid with the null signal and believes the marker only if
// the process is still alive. Dead and unparseable markers are
// removed during the check, so a crashed worker's leftover marker can
// never block a restart.
//
// The registry backs the `pl agent start` duplicate guard, `pl agent
// stop` signalling, and the running column of `pl status`.
package liveness
