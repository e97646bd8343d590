//go:build windows

package gui

import (
	"os/exec"
	"syscall"
)

func applyHiddenWindow(cmd *exec.Cmd) {
	// Prevents a console window from flashing when launching the player on Windows.
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
