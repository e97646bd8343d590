package gui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/clipgrid/clipgrid/internal/browse"
)

var sortOptions = []string{
	"Newest first",
	"Oldest first",
	"Largest first",
	"Smallest first",
	"Title A-Z",
	"Title Z-A",
}

func sortQueryFor(i int) (browse.SortKey, bool) {
	switch i {
	case 1:
		return browse.SortByModified, true
	case 2:
		return browse.SortBySize, false
	case 3:
		return browse.SortBySize, true
	case 4:
		return browse.SortByTitle, true
	case 5:
		return browse.SortByTitle, false
	default:
		return browse.SortByModified, false
	}
}

func (a *App) buildUI() {
	a.grid = newTileGrid(a.previews, a.zoomStep)
	a.grid.onMetrics = a.applyMetrics
	a.grid.onDragRect = a.onDragRect
	a.grid.onClick = a.onTileClick
	a.grid.onOpen = a.onTileOpen
	a.grid.setMinEdge(browse.MinTileEdge * zoomLevels[a.zoomLevel])

	a.crumbs = newBreadcrumb(a.jumpToDepth)
	a.status = newStatusBar()

	a.backBtn = widget.NewButtonWithIcon("", theme.NavigateBackIcon(), a.goBack)
	a.backBtn.Disable()

	a.sortSelect = widget.NewSelect(sortOptions, func(string) {
		i := a.sortSelect.SelectedIndex()
		a.fyneApp.Preferences().SetInt(prefSortKey, i)
		key, asc := sortQueryFor(i)
		a.setSort(key, asc)
	})
	a.sortSelect.SetSelectedIndex(a.fyneApp.Preferences().IntWithFallback(prefSortKey, 0))

	a.restricted = widget.NewCheck("R18 only", a.setRestrictedOnly)
	a.restricted.SetChecked(a.query.RestrictedOnly)

	a.pageEntry = widget.NewEntry()
	a.pageEntry.SetText("1")
	a.pageEntry.OnSubmitted = func(s string) { a.jumpToPage(s) }
	a.pageLabel = widget.NewLabel("/ 1")

	prevBtn := widget.NewButtonWithIcon("", theme.MediaSkipPreviousIcon(), func() { a.flipPage(-1) })
	nextBtn := widget.NewButtonWithIcon("", theme.MediaSkipNextIcon(), func() { a.flipPage(1) })

	playBtn := widget.NewButtonWithIcon("Play", theme.MediaPlayIcon(), a.playSelection)
	webBtn := widget.NewButtonWithIcon("Site", theme.ComputerIcon(), a.openSelectionPages)
	trashBtn := widget.NewButtonWithIcon("Trash", theme.DeleteIcon(), a.trashSelection)
	reloadBtn := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), a.reload)

	controls := container.NewHBox(
		a.sortSelect,
		a.restricted,
		widget.NewSeparator(),
		prevBtn,
		container.NewGridWrap(fyne.NewSize(52, a.pageEntry.MinSize().Height), a.pageEntry),
		a.pageLabel,
		nextBtn,
		widget.NewSeparator(),
		playBtn,
		webBtn,
		trashBtn,
		reloadBtn,
	)

	topBar := container.NewBorder(nil, nil, a.backBtn, controls, a.crumbs.scroll)

	a.win.SetContent(container.NewBorder(topBar, a.status.Content(), nil, nil, a.grid.Content()))
	a.win.Resize(a.initialWindowSize())
	a.bindShortcuts()
}

func (a *App) initialWindowSize() fyne.Size {
	p := a.fyneApp.Preferences()
	w := float32(p.FloatWithFallback(prefWinW, 1000))
	h := float32(p.FloatWithFallback(prefWinH, 700))
	if w < 400 {
		w = 400
	}
	if h < 300 {
		h = 300
	}
	return fyne.NewSize(w, h)
}

// jumpToPage validates a one-based page number typed by the user;
// invalid input is reported immediately and the state is untouched.
func (a *App) jumpToPage(s string) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > a.page.TotalPages {
		dialog.ShowError(fmt.Errorf("invalid page %q: expected 1 to %d", s, a.page.TotalPages), a.win)
		a.pageEntry.SetText(strconv.Itoa(a.page.Index + 1))
		return
	}
	a.query.Page = n - 1
	a.renderPage()
}

func (a *App) bindShortcuts() {
	canvas := a.win.Canvas()

	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyA,
		Modifier: fyne.KeyModifierControl,
	}, func(fyne.Shortcut) {
		a.selectAll()
	})

	canvas.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		// Keys typed into the page entry stay there.
		if _, ok := canvas.Focused().(*widget.Entry); ok {
			return
		}
		switch ev.Name {
		case fyne.KeyEscape, fyne.KeyBackspace:
			a.goBack()
		case fyne.KeyDelete:
			a.trashSelection()
		case fyne.KeyPageDown, fyne.KeyRight:
			a.flipPage(1)
		case fyne.KeyPageUp, fyne.KeyLeft:
			a.flipPage(-1)
		}
	})
}
