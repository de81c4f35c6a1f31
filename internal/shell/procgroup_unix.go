//go:build !windows

package shell

import (
	"os/exec"
	"syscall"
)

// setProcGroup starts cmd in its own process group and makes cancellation
// kill the whole group, so commands the shell spawned die with it.
func setProcGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		// Negative PID targets the group.
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = waitDelay
}
