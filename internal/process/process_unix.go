//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// Isolate starts the command in its own process group, so a later
// KillProcessGroup also reaches the Chromium children mmdc spawns.
func Isolate(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort; the caller still waits on the process.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
