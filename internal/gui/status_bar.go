package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type statusBar struct {
	label    *widget.Label
	progress *widget.ProgressBarInfinite
	content  fyne.CanvasObject
}

func newStatusBar() *statusBar {
	label := widget.NewLabel("Ready")
	label.Truncation = fyne.TextTruncateEllipsis
	progress := widget.NewProgressBarInfinite()
	progress.Stop()
	progress.Hide()

	return &statusBar{
		label:    label,
		progress: progress,
		content:  container.NewBorder(nil, nil, nil, progress, label),
	}
}

func (s *statusBar) Content() fyne.CanvasObject {
	return s.content
}

func (s *statusBar) SetText(text string) {
	s.label.SetText(text)
}

// SetBusy doubles as the busy indicator for long reloads.
func (s *statusBar) SetBusy(busy bool) {
	if busy {
		s.progress.Show()
		s.progress.Start()
	} else {
		s.progress.Stop()
		s.progress.Hide()
	}
}
