//go:build !windows

package gui

import "os/exec"

func applyHiddenWindow(cmd *exec.Cmd) {}
