//go:build windows

package platform

import (
	"os/exec"
	"syscall"
)

// SetProcessGroup starts the command in a new process group
func SetProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}

// KillProcessGroup kills the process started by cmd.
// Children spawned by cmd.exe are not tracked on Windows.
func KillProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
