package executor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/types"
)

func testExecutor(t *testing.T) *Executor {
	t.Helper()
	return New().WithWorkDir(t.TempDir()).WithTimeout(10 * time.Second)
}

func shellTask(command string) *types.Task {
	return &types.Task{
		ID:         "t-shell",
		ActionType: types.ActionShell,
		ActionData: &types.ActionData{Command: command},
	}
}

func scriptTask(script string) *types.Task {
	return &types.Task{
		ID:         "t-script",
		ActionType: types.ActionScript,
		ActionData: &types.ActionData{Script: script},
	}
}

func TestShellCommand(t *testing.T) {
	tests := []struct {
		name           string
		command        string
		expectedStatus types.ResultStatus
		expectedExit   int
		expectedOutput string
	}{
		{
			name:           "echo succeeds",
			command:        "echo hello",
			expectedStatus: types.ResultCompleted,
			expectedExit:   0,
			expectedOutput: "hello\n",
		},
		{
			name:           "nonzero exit fails",
			command:        "exit 3",
			expectedStatus: types.ResultFailed,
			expectedExit:   3,
			expectedOutput: "",
		},
		{
			name:           "empty command succeeds",
			command:        "",
			expectedStatus: types.ResultCompleted,
			expectedExit:   0,
			expectedOutput: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := testExecutor(t).Execute(context.Background(), shellTask(tt.command))

			assert.Equal(t, tt.expectedStatus, result.Status)
			assert.Equal(t, tt.expectedExit, result.Data["exit_code"])
			assert.Equal(t, tt.expectedOutput, result.Data["output"])
		})
	}
}

func TestShellMergesStdoutAndStderr(t *testing.T) {
	result := testExecutor(t).Execute(context.Background(), shellTask("echo out; echo err 1>&2"))

	require.Equal(t, types.ResultCompleted, result.Status)
	output := result.Data["output"].(string)
	assert.Contains(t, output, "out\n")
	assert.Contains(t, output, "err\n")
}

func TestShellTaskWorkDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "probe.txt"), []byte("x"), 0644))

	task := shellTask("ls")
	task.ActionData.WorkDir = dir

	result := testExecutor(t).Execute(context.Background(), task)
	require.Equal(t, types.ResultCompleted, result.Status)
	assert.Contains(t, result.Data["output"].(string), "probe.txt")
}

func TestShellBadWorkDirFails(t *testing.T) {
	task := shellTask("echo hi")
	task.ActionData.WorkDir = "/nonexistent/never-created"

	result := testExecutor(t).Execute(context.Background(), task)
	require.Equal(t, types.ResultFailed, result.Status)
	assert.NotEmpty(t, result.Data["error"])
	assert.NotContains(t, result.Data, "exit_code")
}

func TestShellTimeout(t *testing.T) {
	e := testExecutor(t).WithTimeout(200 * time.Millisecond)

	start := time.Now()
	result := e.Execute(context.Background(), shellTask("sleep 10"))

	require.Equal(t, types.ResultFailed, result.Status)
	assert.Equal(t, TimeoutMessage, result.Data["error"])
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestShellTimeoutKillsForkedChildren(t *testing.T) {
	e := testExecutor(t).WithTimeout(200 * time.Millisecond)

	// The backgrounded sleep inherits the output pipe. If only the
	// shell died on timeout, the child would keep the pipe open and
	// the run would block for the full waitDelay.
	start := time.Now()
	result := e.Execute(context.Background(), shellTask("sleep 30 & sleep 30"))

	require.Equal(t, types.ResultFailed, result.Status)
	assert.Equal(t, TimeoutMessage, result.Data["error"])
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestShellOutputCapKillsProcess(t *testing.T) {
	e := testExecutor(t)
	e.OutputLimit = 200

	start := time.Now()
	result := e.Execute(context.Background(), shellTask("while true; do echo aaaaaaaaaaaaaaaa; done"))

	// The cap, not the 10s timeout, must have ended the run.
	assert.Less(t, time.Since(start), 5*time.Second)
	require.Equal(t, types.ResultFailed, result.Status)

	output := result.Data["output"].(string)
	assert.True(t, strings.HasSuffix(output, TruncationMarker))
	assert.Len(t, output, 200+len(TruncationMarker))
	assert.NotEqual(t, 0, result.Data["exit_code"])
}

func TestScriptSeparatesStreams(t *testing.T) {
	e := testExecutor(t).WithInterpreter("/bin/sh")

	result := e.Execute(context.Background(), scriptTask("echo out; echo err 1>&2"))

	require.Equal(t, types.ResultCompleted, result.Status)
	assert.Equal(t, 0, result.Data["exit_code"])
	assert.Equal(t, "out\n", result.Data["stdout"])
	assert.Equal(t, "err\n", result.Data["stderr"])
}

func TestScriptNonzeroExit(t *testing.T) {
	e := testExecutor(t).WithInterpreter("/bin/sh")

	result := e.Execute(context.Background(), scriptTask("echo partial; exit 7"))

	require.Equal(t, types.ResultFailed, result.Status)
	assert.Equal(t, 7, result.Data["exit_code"])
	assert.Equal(t, "partial\n", result.Data["stdout"])
}

func TestScriptEmptyBodyFails(t *testing.T) {
	result := testExecutor(t).Execute(context.Background(), scriptTask(""))

	require.Equal(t, types.ResultFailed, result.Status)
	assert.Equal(t, "No script provided", result.Data["error"])
}

func TestScriptTruncatesResultSlices(t *testing.T) {
	e := testExecutor(t).WithInterpreter("/bin/sh")
	e.StdoutLimit = 10
	e.StderrLimit = 4

	result := e.Execute(context.Background(), scriptTask("echo 0123456789ABCDEF; echo stderrtext 1>&2"))

	require.Equal(t, types.ResultCompleted, result.Status)
	assert.Equal(t, "0123456789", result.Data["stdout"])
	assert.Equal(t, "stde", result.Data["stderr"])
}

func TestScriptTimeout(t *testing.T) {
	e := testExecutor(t).WithInterpreter("/bin/sh").WithTimeout(200 * time.Millisecond)

	result := e.Execute(context.Background(), scriptTask("sleep 10"))

	require.Equal(t, types.ResultFailed, result.Status)
	assert.Equal(t, TimeoutMessage, result.Data["error"])
}

func TestScriptMissingInterpreter(t *testing.T) {
	e := testExecutor(t).WithInterpreter("/nonexistent/python99")

	result := e.Execute(context.Background(), scriptTask("print('hi')"))

	require.Equal(t, types.ResultFailed, result.Status)
	assert.NotEmpty(t, result.Data["error"])
}

func TestUnknownKindAcknowledged(t *testing.T) {
	task := &types.Task{
		ID:          "t-noop",
		ActionType:  "noop",
		Description: "observe only",
	}

	result := testExecutor(t).Execute(context.Background(), task)

	require.Equal(t, types.ResultCompleted, result.Status)
	assert.Equal(t, "Acknowledged task type: noop", result.Data["message"])
	assert.Equal(t, "observe only", result.Data["description"])
}

func TestShellKindAliases(t *testing.T) {
	for _, kind := range []types.ActionKind{types.ActionShell, types.ActionCommand, types.ActionExecute} {
		t.Run(string(kind), func(t *testing.T) {
			task := shellTask("echo alias")
			task.ActionType = kind

			result := testExecutor(t).Execute(context.Background(), task)
			require.Equal(t, types.ResultCompleted, result.Status)
			assert.Equal(t, "alias\n", result.Data["output"])
		})
	}
}
