//go:build windows

package runner

import (
	"os/exec"
	"syscall"
)

// hideConsoleWindow keeps the formatter subprocess from flashing a console
// window on Windows hosts.
func hideConsoleWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
