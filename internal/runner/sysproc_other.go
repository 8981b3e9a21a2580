//go:build !windows

package runner

import "os/exec"

func hideConsoleWindow(cmd *exec.Cmd) {}
