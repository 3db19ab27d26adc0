package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/types"
)

// runScript executes an embedded script body through a fresh
// interpreter process without a shell. The full streams are captured
// and only a bounded diagnostic slice of each is reported.
func (e *Executor) runScript(ctx context.Context, task *types.Task) *types.TaskResult {
	var script string
	if task.ActionData != nil {
		script = task.ActionData.Script
	}
	if script == "" {
		return types.NewFailedResult(map[string]any{"error": "No script provided"})
	}

	execCtx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, e.Interpreter, "-c", script)
	cmd.Dir = e.workDir(task)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	e.logger.Info().
		Str("task_id", task.ID).
		Str("interpreter", e.Interpreter).
		Str("cwd", cmd.Dir).
		Msg("Running script task")

	err := cmd.Run()
	if err != nil {
		if execCtx.Err() == context.DeadlineExceeded {
			return types.NewFailedResult(map[string]any{"error": TimeoutMessage})
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return types.NewFailedResult(map[string]any{"error": err.Error()})
		}
	}

	exitCode := cmd.ProcessState.ExitCode()
	data := map[string]any{
		"exit_code": exitCode,
		"stdout":    head(stdout.String(), e.StdoutLimit),
		"stderr":    head(stderr.String(), e.StderrLimit),
	}
	if exitCode == 0 {
		return types.NewCompletedResult(data)
	}
	return types.NewFailedResult(data)
}

func head(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
