package executor

import (
	"os"
	"os/exec"
	"syscall"
)

// setProcessGroup starts the subprocess as its own process group leader
// and replaces the context kill with a group-wide SIGKILL. A shell or
// interpreter may fork children that inherit the output pipes; killing
// only the leader would leave them holding the pipes open until
// WaitDelay expires.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if err == syscall.ESRCH {
			return os.ErrProcessDone
		}
		return err
	}
}
