package platform

import "runtime"

// Shell invocations
const (
	PosixShell     = "sh"
	PosixShellFlag = "-c"
	WindowsShell   = "cmd"
	WindowsCmdFlag = "/C"
)

// Shell returns the program and flag used to run a command line through the
// system shell on the current OS.
func Shell() (string, string) {
	if runtime.GOOS == OSWindows {
		return WindowsShell, WindowsCmdFlag
	}
	return PosixShell, PosixShellFlag
}
