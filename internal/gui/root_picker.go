//go:build !flatpak

package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
)

// pickRootFolder shows the folder chooser and reports the chosen
// library root path, or an empty string when the user cancels.
func pickRootFolder(parent fyne.Window, callback func(path string, err error)) {
	dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil || dir == nil {
			callback("", err)
			return
		}
		callback(dir.Path(), nil)
	}, parent)
}
