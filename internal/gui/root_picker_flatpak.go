//go:build flatpak && !windows && !android && !ios && !wasm && !js

package gui

import (
	"net/url"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"

	"github.com/rymdport/portal"
	"github.com/rymdport/portal/filechooser"
)

// pickRootFolder routes the folder chooser through the XDG desktop
// portal so the sandboxed build gets real filesystem access to the
// chosen library root.
func pickRootFolder(parent fyne.Window, callback func(path string, err error)) {
	options := &filechooser.OpenFileOptions{
		AcceptLabel: "Open",
		Directory:   true,
	}
	windowHandle := windowHandleForPortal(parent)

	go func() {
		uris, err := filechooser.OpenFile(windowHandle, "Open Folder", options)
		fyne.Do(func() {
			if err != nil || len(uris) == 0 {
				callback("", err)
				return
			}
			callback(pathFromPortalURI(uris[0]), nil)
		})
	}()
}

// pathFromPortalURI unwraps the file:// URI the portal hands back.
func pathFromPortalURI(raw string) string {
	if !strings.HasPrefix(raw, "file://") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return strings.TrimPrefix(raw, "file://")
	}
	return u.Path
}

func windowHandleForPortal(window fyne.Window) string {
	native, ok := window.(driver.NativeWindow)
	if !ok {
		return ""
	}

	windowHandle := ""
	native.RunNative(func(context any) {
		if x11, ok := context.(driver.X11WindowContext); ok {
			windowHandle = portal.FormatX11WindowHandle(x11.WindowHandle)
		}
	})
	return windowHandle
}
