//go:build !windows

package platform

import (
	"os/exec"
	"syscall"
)

// SetProcessGroup makes the command the leader of a new process group so
// the shell and every child it spawns can be signalled together.
func SetProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// KillProcessGroup kills the whole process group started by cmd
func KillProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
