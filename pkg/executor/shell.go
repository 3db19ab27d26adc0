package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"sync"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/types"
)

// capWriter accumulates subprocess output up to a byte ceiling. The
// write that crosses the ceiling keeps the prefix that still fits,
// marks the stream truncated and cancels the subprocess context; later
// writes are swallowed. Writes never return an error so the pipe
// copiers drain cleanly while the process dies.
type capWriter struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	limit     int
	truncated bool
	cancel    context.CancelFunc
}

func (w *capWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.truncated {
		return len(p), nil
	}

	room := w.limit - w.buf.Len()
	if len(p) <= room {
		w.buf.Write(p)
		return len(p), nil
	}

	w.buf.Write(p[:room])
	w.truncated = true
	w.cancel()
	return len(p), nil
}

func (w *capWriter) output() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String(), w.truncated
}

// runShell executes a command line through /bin/sh with merged
// stdout/stderr, bounded by the output ceiling and the task timeout.
func (e *Executor) runShell(ctx context.Context, task *types.Task) *types.TaskResult {
	var command string
	if task.ActionData != nil {
		command = task.ActionData.Command
	}

	execCtx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	writer := &capWriter{limit: e.OutputLimit, cancel: cancel}

	cmd := exec.CommandContext(execCtx, "/bin/sh", "-c", command)
	cmd.Dir = e.workDir(task)
	cmd.Stdout = writer
	cmd.Stderr = writer
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	e.logger.Info().
		Str("task_id", task.ID).
		Str("command", command).
		Str("cwd", cmd.Dir).
		Msg("Running shell task")

	err := cmd.Run()

	output, truncated := writer.output()
	if truncated {
		output += TruncationMarker
	}

	if err != nil {
		if execCtx.Err() == context.DeadlineExceeded && !truncated {
			return types.NewFailedResult(map[string]any{"error": TimeoutMessage})
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// The process never ran (bad working directory, missing
			// shell).
			return types.NewFailedResult(map[string]any{"error": err.Error()})
		}
	}

	exitCode := cmd.ProcessState.ExitCode()
	data := map[string]any{
		"exit_code": exitCode,
		"output":    output,
	}
	if exitCode == 0 {
		return types.NewCompletedResult(data)
	}
	return types.NewFailedResult(data)
}
