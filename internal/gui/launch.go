package gui

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/clipgrid/clipgrid/internal/logging"
)

// launchPlaylist hands the playlist file to the OS default media
// player and returns once the process has been started; playback
// lifetime is not tracked.
func launchPlaylist(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	applyHiddenWindow(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open player: %w", err)
	}
	logging.Debug("gui: launched player for %s", path)

	go func() {
		if err := cmd.Wait(); err != nil {
			logging.Debug("gui: player launcher exited: %v", err)
		}
	}()
	return nil
}
