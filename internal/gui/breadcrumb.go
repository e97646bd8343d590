package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const breadcrumbRootLabel = "Library"

// breadcrumb renders the navigation title path as a row of buttons;
// tapping a crumb truncates the navigation stack to that depth.
type breadcrumb struct {
	onJump  func(depth int)
	content *fyne.Container
	scroll  *container.Scroll
}

func newBreadcrumb(onJump func(depth int)) *breadcrumb {
	b := &breadcrumb{
		onJump:  onJump,
		content: container.NewHBox(),
	}
	b.scroll = container.NewHScroll(container.NewPadded(b.content))
	return b
}

// update rebuilds the crumb buttons for the given title path. The
// root crumb is always present at depth zero.
func (b *breadcrumb) update(titles []string) {
	b.content.Objects = nil

	b.content.Add(b.crumb(breadcrumbRootLabel, 0))
	for i, title := range titles {
		b.content.Add(widget.NewLabel("›"))
		b.content.Add(b.crumb(title, i+1))
	}

	b.content.Refresh()
}

func (b *breadcrumb) crumb(title string, depth int) *widget.Button {
	return widget.NewButton(title, func() {
		if b.onJump != nil {
			b.onJump(depth)
		}
	})
}
