//go:build windows

package shell

import "os/exec"

// setProcGroup only bounds the wait on Windows, which has no Unix-style
// process groups. exec.CommandContext already kills the direct child.
func setProcGroup(cmd *exec.Cmd) {
	cmd.WaitDelay = waitDelay
}
