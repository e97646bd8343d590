// Package gui is the Fyne shell over the core packages: it owns the
// main window, the tile grid and the event wiring between navigation,
// selection, preview lifecycle and batch actions.
package gui

import (
	"fmt"
	"net/url"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/clipgrid/clipgrid/internal/batch"
	"github.com/clipgrid/clipgrid/internal/browse"
	"github.com/clipgrid/clipgrid/internal/library"
	"github.com/clipgrid/clipgrid/internal/logging"
	"github.com/clipgrid/clipgrid/internal/nav"
	"github.com/clipgrid/clipgrid/internal/preview"
	"github.com/clipgrid/clipgrid/internal/trash"
	"github.com/clipgrid/clipgrid/internal/watch"
)

const (
	appID        = "com.clipgrid.app"
	siteBaseURL  = "https://clipshelf.example/works/"
	defaultConf  = "folders.json"
	windowTitle  = "ClipGrid"
	prefSortKey  = "sortOrder"
	prefFiltered = "restrictedOnly"
	prefZoom     = "zoomLevel"
	prefWinW     = "windowWidth"
	prefWinH     = "windowHeight"
)

// App is the single mutable shell state. Everything here is touched
// only from the UI thread; background work re-enters via fyne.Do.
type App struct {
	fyneApp fyne.App
	win     fyne.Window

	rootDir    string
	configPath string
	confFlag   string

	lib      *library.Library
	stack    *nav.Stack
	sel      *browse.Controller
	previews *preview.Manager
	coord    *batch.Coordinator
	watcher  *watch.Debouncer

	query     browse.Query
	zoomLevel int
	page      browse.Page

	grid   *tileGrid
	crumbs *breadcrumb
	status *statusBar

	backBtn    *widget.Button
	sortSelect *widget.Select
	restricted *widget.Check
	pageEntry  *widget.Entry
	pageLabel  *widget.Label

	reloading     bool
	reloadPending bool
}

// Run builds the application and blocks until the window closes. An
// empty rootDir brings up the folder chooser first; an empty confPath
// defaults to folders.json inside the chosen root.
func Run(rootDir, confPath string) {
	a := &App{
		fyneApp:  app.NewWithID(appID),
		confFlag: confPath,
		sel:      browse.NewController(),
		previews: preview.NewManager(),
		query:    browse.Query{PageSize: browse.PageSize},
	}
	a.win = a.fyneApp.NewWindow(windowTitle)
	a.coord = batch.New(a.previews, trash.Move, launchPlaylist, a.reload)
	a.watcher = watch.New(func() {
		fyne.Do(a.reload)
	}, watch.QuietPeriod)

	a.loadPrefs()
	a.buildUI()
	a.bindLifecycle()

	if rootDir != "" {
		a.setRoot(rootDir)
	} else {
		a.chooseRoot()
	}

	a.win.ShowAndRun()
	a.watcher.Close()
}

// setRoot fixes the library location and kicks off the first reload.
func (a *App) setRoot(rootDir string) {
	a.rootDir = rootDir
	a.configPath = a.confFlag
	if a.configPath == "" {
		a.configPath = filepath.Join(rootDir, defaultConf)
	}
	logging.Info("gui: library root %s, config %s", a.rootDir, a.configPath)
	a.reload()
}

func (a *App) chooseRoot() {
	pickRootFolder(a.win, func(path string, err error) {
		if err != nil {
			dialog.ShowError(err, a.win)
			return
		}
		if path == "" {
			a.status.SetText("No library selected")
			return
		}
		a.setRoot(path)
	})
}

// reload rebuilds the library snapshot off the UI thread and swaps it
// in atomically. On a fatal configuration error the previous state
// stays on screen. Navigation survives by breadcrumb title path.
// A trigger arriving while a reload is in flight is deferred, never
// dropped: the in-flight reload runs to completion and then reloads
// once more.
func (a *App) reload() {
	if a.rootDir == "" {
		return
	}
	if a.reloading {
		a.reloadPending = true
		return
	}
	a.reloading = true
	a.status.SetBusy(true)
	a.status.SetText("Reloading...")

	var prevPath []string
	if a.stack != nil {
		prevPath = a.stack.Path()
	}
	rootDir, configPath := a.rootDir, a.configPath

	go func() {
		lib, err := library.Load(rootDir, configPath)
		fyne.Do(func() {
			a.applyReload(lib, err, prevPath, rootDir, configPath)
		})
	}()
}

// applyReload finishes a reload on the UI thread. The watcher is
// re-armed on both outcomes, so fixing a broken configuration file
// still triggers the next reload automatically.
func (a *App) applyReload(lib *library.Library, err error, prevPath []string, rootDir, configPath string) {
	a.reloading = false
	a.status.SetBusy(false)

	if err != nil {
		logging.Error("gui: reload: %v", err)
		dialog.ShowError(fmt.Errorf("reload library: %w", err), a.win)
		a.updateStatus()
	} else {
		a.lib = lib
		if a.stack == nil {
			a.stack = nav.New(lib)
		} else {
			a.stack.Reset(lib)
			a.stack.RestoreByPath(prevPath)
		}
		a.query.Page = 0
		a.renderPage()
	}

	if rerr := a.watcher.Rearm(rootDir, configPath); rerr != nil {
		logging.Warn("gui: watch: %v", rerr)
	}

	if a.reloadPending {
		a.reloadPending = false
		a.reload()
	}
}

// renderPage regenerates the tile page for the current navigation
// level and query, resetting the selection with it.
func (a *App) renderPage() {
	if a.lib == nil {
		return
	}

	frame := a.stack.Current()
	a.page = browse.VisiblePage(frame.Folders, frame.Items, a.lib.Index, a.query)
	a.query.Page = a.page.Index

	a.sel.SetTiles(len(a.page.Tiles))
	a.grid.setTiles(a.page.Tiles)
	a.crumbs.update(a.stack.Path())

	a.pageEntry.SetText(fmt.Sprintf("%d", a.page.Index+1))
	a.pageLabel.SetText(fmt.Sprintf("/ %d", a.page.TotalPages))
	if a.stack.Depth() > 0 {
		a.backBtn.Enable()
	} else {
		a.backBtn.Disable()
	}
	a.updateStatus()
}

func (a *App) updateStatus() {
	if a.lib == nil {
		a.status.SetText("No library loaded")
		return
	}

	folders := 0
	for _, t := range a.page.Tiles {
		if t.IsFolder() {
			folders++
		}
	}
	text := fmt.Sprintf("%d tiles (%d folders), %d at this level",
		len(a.page.Tiles), folders, a.page.TotalTiles)
	if n := a.sel.Len(); n > 0 {
		text += fmt.Sprintf(", %d selected", n)
	}
	a.status.SetText(text)
}

// Navigation

func (a *App) enterFolder(node *library.FolderNode) {
	a.stack.Enter(node)
	a.query.Page = 0
	a.renderPage()
}

func (a *App) goBack() {
	if a.stack == nil || a.stack.Depth() == 0 {
		return
	}
	a.stack.Back()
	a.query.Page = 0
	a.renderPage()
}

func (a *App) jumpToDepth(depth int) {
	if a.stack == nil || depth >= a.stack.Depth() {
		return
	}
	a.stack.TruncateTo(depth)
	a.query.Page = 0
	a.renderPage()
}

// Selection

func (a *App) onTileClick(id int, mod browse.Modifiers) {
	a.sel.ClickSelect(id, mod)
	a.refreshSelection()
}

func (a *App) onDragRect(r browse.Rect, mod browse.Modifiers) {
	a.sel.DragSelect(r, mod)
	a.refreshSelection()
}

func (a *App) selectAll() {
	a.sel.SelectAll()
	a.refreshSelection()
}

func (a *App) refreshSelection() {
	a.grid.refreshSelection(a.sel.IsSelected)
	a.updateStatus()
}

// onTileOpen handles a double click: folders are entered, items play
// on their own.
func (a *App) onTileOpen(id int) {
	if id < 0 || id >= len(a.page.Tiles) {
		return
	}
	tile := a.page.Tiles[id]
	if tile.IsFolder() {
		a.enterFolder(tile.Folder)
		return
	}
	if err := a.coord.Play([]library.Item{*tile.Item}); err != nil {
		dialog.ShowError(err, a.win)
	}
}

// Batch actions

func (a *App) selectedItems() []library.Item {
	var tiles []browse.Tile
	for _, id := range a.sel.Selected() {
		if id >= 0 && id < len(a.page.Tiles) {
			tiles = append(tiles, a.page.Tiles[id])
		}
	}
	return batch.Resolve(tiles, a.lib.Index, a.query.RestrictedOnly)
}

func (a *App) playSelection() {
	items := a.selectedItems()
	if len(items) == 0 {
		a.status.SetText("Nothing selected to play")
		return
	}
	if err := a.coord.Play(items); err != nil {
		dialog.ShowError(err, a.win)
	}
}

func (a *App) trashSelection() {
	items := a.selectedItems()
	if len(items) == 0 {
		return
	}

	msg := fmt.Sprintf("Move %d item(s) to the trash?", len(items))
	dialog.ShowConfirm("Move to Trash", msg, func(ok bool) {
		if !ok {
			return
		}
		if err := a.coord.TrashItems(items); err != nil {
			dialog.ShowError(fmt.Errorf("some items could not be trashed:\n%w", err), a.win)
		}
	}, a.win)
}

// openSelectionPages opens each selected item's site page in the
// default browser. Items whose directory name is not a valid web
// identifier are skipped.
func (a *App) openSelectionPages() {
	for _, item := range a.selectedItems() {
		id, err := library.WebID(item)
		if err != nil {
			logging.Debug("gui: %v", err)
			continue
		}
		u, err := url.Parse(siteBaseURL + id)
		if err != nil {
			continue
		}
		if err := a.fyneApp.OpenURL(u); err != nil {
			logging.Warn("gui: open %s: %v", u, err)
		}
	}
}

// Query changes

func (a *App) setSort(key browse.SortKey, ascending bool) {
	a.query.Sort = key
	a.query.Ascending = ascending
	a.query.Page = 0
	a.renderPage()
}

func (a *App) setRestrictedOnly(on bool) {
	a.query.RestrictedOnly = on
	a.query.Page = 0
	a.fyneApp.Preferences().SetBool(prefFiltered, on)
	a.renderPage()
}

func (a *App) flipPage(delta int) {
	next := a.query.Page + delta
	if next < 0 || next > a.page.TotalPages-1 {
		return
	}
	a.query.Page = next
	a.renderPage()
}

// Zoom

func (a *App) zoomStep(steps int) {
	a.setZoomLevel(a.zoomLevel + steps)
}

func (a *App) setZoomLevel(i int) {
	i = clampZoomLevelIndex(i)
	if i == a.zoomLevel {
		return
	}
	a.zoomLevel = i
	a.fyneApp.Preferences().SetInt(prefZoom, i)
	a.grid.setMinEdge(browse.MinTileEdge * zoomLevels[i])
}

// applyMetrics runs after a layout pass changed the grid geometry:
// selection hit-testing follows the new layout and every live preview
// is rescaled in place.
func (a *App) applyMetrics(m browse.GridMetrics) {
	a.sel.SetLayout(browse.Layout{
		Columns: m.Columns,
		Edge:    m.TileEdge,
		Spacing: browse.TileSpacing,
	})
	a.grid.rescale(int(m.TileEdge))
}

// Preferences and lifecycle

func (a *App) loadPrefs() {
	p := a.fyneApp.Preferences()
	a.zoomLevel = clampZoomLevelIndex(p.IntWithFallback(prefZoom, defaultZoomLevelIndex))
	a.query.RestrictedOnly = p.BoolWithFallback(prefFiltered, false)

	key, asc := sortQueryFor(p.IntWithFallback(prefSortKey, 0))
	a.query.Sort = key
	a.query.Ascending = asc
}

func (a *App) bindLifecycle() {
	lc := a.fyneApp.Lifecycle()
	lc.SetOnExitedForeground(func() {
		fyne.Do(a.grid.hideAll)
	})
	lc.SetOnEnteredForeground(func() {
		fyne.Do(a.grid.showAll)
	})

	a.win.SetCloseIntercept(func() {
		size := a.win.Canvas().Size()
		p := a.fyneApp.Preferences()
		p.SetFloat(prefWinW, float64(size.Width))
		p.SetFloat(prefWinH, float64(size.Height))
		a.win.Close()
	})
}
