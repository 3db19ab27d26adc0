package executor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/log"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/metrics"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/types"
)

const (
	// DefaultTimeout bounds each task subprocess.
	DefaultTimeout = 5 * time.Minute

	// ShellOutputLimit caps merged shell output; crossing it kills the
	// process.
	ShellOutputLimit = 50000

	// ScriptStdoutLimit and ScriptStderrLimit bound the diagnostic
	// slices kept in a script result.
	ScriptStdoutLimit = 20000
	ScriptStderrLimit = 5000

	// DefaultInterpreter runs script tasks.
	DefaultInterpreter = "python3"

	// TruncationMarker is appended to capped shell output.
	TruncationMarker = "\n... [truncated] ..."

	// TimeoutMessage is the error text reported for a timed out task.
	TimeoutMessage = "Timed out (5 min)"

	// waitDelay bounds the wait for pipe copiers after a kill. The
	// group kill should leave no process holding a pipe; this is the
	// backstop for children that moved themselves to a new group.
	waitDelay = 5 * time.Second
)

// Executor runs tasks as bounded subprocesses. Every path returns a
// TaskResult; spawn failures, timeouts and output overflows are
// converted into failed results instead of errors.
type Executor struct {
	// Timeout is the wall-clock ceiling per task.
	Timeout time.Duration

	// OutputLimit caps merged shell output in bytes.
	OutputLimit int

	// StdoutLimit and StderrLimit cap the script result slices.
	StdoutLimit int
	StderrLimit int

	// Interpreter is the binary used for script tasks.
	Interpreter string

	// WorkDir is the working directory for tasks that do not name one.
	WorkDir string

	logger zerolog.Logger
}

// New creates an executor with production limits. The default working
// directory is the user's home.
func New() *Executor {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Executor{
		Timeout:     DefaultTimeout,
		OutputLimit: ShellOutputLimit,
		StdoutLimit: ScriptStdoutLimit,
		StderrLimit: ScriptStderrLimit,
		Interpreter: DefaultInterpreter,
		WorkDir:     home,
		logger:      log.WithComponent("executor"),
	}
}

// WithTimeout sets the per-task wall-clock ceiling.
func (e *Executor) WithTimeout(timeout time.Duration) *Executor {
	e.Timeout = timeout
	return e
}

// WithInterpreter sets the script interpreter binary.
func (e *Executor) WithInterpreter(path string) *Executor {
	e.Interpreter = path
	return e
}

// WithWorkDir sets the default working directory.
func (e *Executor) WithWorkDir(dir string) *Executor {
	e.WorkDir = dir
	return e
}

// Execute dispatches a task on its action kind and always returns a
// result. Kinds the executor does not recognize are acknowledged
// without spawning anything, so new control plane task types never
// crash an old agent.
func (e *Executor) Execute(ctx context.Context, task *types.Task) *types.TaskResult {
	timer := metrics.NewTimer()

	var result *types.TaskResult
	switch {
	case task.ActionType.IsShell():
		result = e.runShell(ctx, task)
	case task.ActionType.IsScript():
		result = e.runScript(ctx, task)
	default:
		result = e.acknowledge(task)
	}

	timer.ObserveDuration(metrics.TaskDuration)
	metrics.TasksExecuted.WithLabelValues(string(result.Status)).Inc()

	e.logger.Info().
		Str("task_id", task.ID).
		Str("action_type", string(task.ActionType)).
		Str("status", string(result.Status)).
		Dur("duration", timer.Duration()).
		Msg("Task finished")
	return result
}

func (e *Executor) acknowledge(task *types.Task) *types.TaskResult {
	e.logger.Info().
		Str("task_id", task.ID).
		Str("action_type", string(task.ActionType)).
		Msg("Acknowledging unrecognized task kind")

	return types.NewCompletedResult(map[string]any{
		"message":     fmt.Sprintf("Acknowledged task type: %s", task.ActionType),
		"description": task.Description,
	})
}

// workDir resolves the working directory for one task.
func (e *Executor) workDir(task *types.Task) string {
	if task.ActionData != nil && task.ActionData.WorkDir != "" {
		return task.ActionData.WorkDir
	}
	return e.WorkDir
}
