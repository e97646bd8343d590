package gui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	"github.com/clipgrid/clipgrid/internal/batch"
	"github.com/clipgrid/clipgrid/internal/browse"
	"github.com/clipgrid/clipgrid/internal/library"
	"github.com/clipgrid/clipgrid/internal/preview"
	"github.com/clipgrid/clipgrid/internal/watch"
)

// newTestApp assembles the shell the way Run does, minus ShowAndRun,
// so reload behaviour can be driven directly.
func newTestApp(t *testing.T) *App {
	t.Helper()

	a := &App{
		fyneApp:  test.NewApp(),
		sel:      browse.NewController(),
		previews: preview.NewManager(),
		query:    browse.Query{PageSize: browse.PageSize},
	}
	t.Cleanup(a.fyneApp.Quit)
	a.win = a.fyneApp.NewWindow(windowTitle)
	a.coord = batch.New(a.previews,
		func(string) error { return nil },
		func(string) error { return nil },
		a.reload)
	a.watcher = watch.New(func() {}, time.Hour)
	t.Cleanup(a.watcher.Close)

	a.loadPrefs()
	a.buildUI()
	return a
}

func writeLibraryRoot(t *testing.T) (root, config string) {
	t.Helper()
	root = t.TempDir()
	config = filepath.Join(root, "folders.json")
	if err := os.WriteFile(config, []byte(`[{"folders": []}]`), 0644); err != nil {
		t.Fatal(err)
	}
	return root, config
}

func waitForReloadDone(t *testing.T, a *App) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		done := false
		fyne.DoAndWait(func() { done = !a.reloading })
		if done {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("reload did not finish")
}

func TestBreadcrumb_UpdateAndJump(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	jumped := -1
	b := newBreadcrumb(func(depth int) { jumped = depth })
	b.update([]string{"X", "Y"})

	// Root crumb plus two levels, separated by labels.
	if got, want := len(b.content.Objects), 5; got != want {
		t.Fatalf("crumb objects: got %d, want %d", got, want)
	}

	root, ok := b.content.Objects[0].(*widget.Button)
	if !ok {
		t.Fatal("first crumb is not a button")
	}
	if got, want := root.Text, breadcrumbRootLabel; got != want {
		t.Errorf("root crumb: got %q, want %q", got, want)
	}

	test.Tap(b.content.Objects[2].(*widget.Button))
	if got, want := jumped, 1; got != want {
		t.Errorf("jump depth: got %d, want %d", got, want)
	}

	test.Tap(root)
	if got, want := jumped, 0; got != want {
		t.Errorf("root jump depth: got %d, want %d", got, want)
	}
}

func TestClampZoomLevelIndex(t *testing.T) {
	if got := clampZoomLevelIndex(-3); got != 0 {
		t.Errorf("low clamp: got %d", got)
	}
	if got := clampZoomLevelIndex(len(zoomLevels) + 5); got != len(zoomLevels)-1 {
		t.Errorf("high clamp: got %d", got)
	}
	if got := clampZoomLevelIndex(2); got != 2 {
		t.Errorf("in range: got %d", got)
	}
}

func TestGridLayout_ReportsMetricsOnce(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	var changes []browse.GridMetrics
	l := &gridLayout{
		spacing: browse.TileSpacing,
		minEdge: browse.MinTileEdge,
		onChange: func(m browse.GridMetrics) {
			changes = append(changes, m)
		},
	}

	l.Layout(nil, fyne.NewSize(500, 300))
	fyne.DoAndWait(func() {})
	if len(changes) != 1 {
		t.Fatalf("expected 1 metrics change, got %d", len(changes))
	}
	if changes[0].Columns < 2 {
		t.Errorf("expected multiple columns at width 500, got %d", changes[0].Columns)
	}

	// Same width again: no new report.
	l.Layout(nil, fyne.NewSize(500, 600))
	fyne.DoAndWait(func() {})
	if len(changes) != 1 {
		t.Fatalf("metrics re-reported without a change, got %d", len(changes))
	}

	l.Layout(nil, fyne.NewSize(900, 300))
	fyne.DoAndWait(func() {})
	if len(changes) != 2 {
		t.Fatalf("expected a second metrics change, got %d", len(changes))
	}
}

func TestTileGrid_PreviewResidencyFollowsPage(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	dir := t.TempDir()
	previewPath := filepath.Join(dir, "preview.gif")
	os.WriteFile(previewPath, []byte("not a real gif"), 0644)

	manager := preview.NewManager()
	tg := newTileGrid(manager, nil)

	itemA := library.Item{ID: "1", Title: "A", PreviewPath: previewPath}
	itemB := library.Item{ID: "2", Title: "B", PreviewPath: previewPath}
	tiles := []browse.Tile{
		{Folder: &library.FolderNode{Title: "F"}, Count: 0},
		{Item: &itemA},
		{Item: &itemB},
	}

	tg.setTiles(tiles)
	if got, want := manager.LiveCount(), 2; got != want {
		t.Fatalf("live previews after render: got %d, want %d", got, want)
	}

	// Hiding the window releases everything; showing re-acquires.
	tg.hideAll()
	if got := manager.LiveCount(); got != 0 {
		t.Fatalf("live previews after hide: got %d", got)
	}
	tg.showAll()
	if got, want := manager.LiveCount(), 2; got != want {
		t.Fatalf("live previews after show: got %d, want %d", got, want)
	}

	// A new page replaces the old residency.
	tg.setTiles([]browse.Tile{{Item: &itemA}})
	if got, want := manager.LiveCount(), 1; got != want {
		t.Fatalf("live previews after page change: got %d, want %d", got, want)
	}

	tg.setTiles(nil)
	if got := manager.LiveCount(); got != 0 {
		t.Fatalf("live previews after empty page: got %d", got)
	}
}

func TestReload_MidReloadTriggerRunsAgain(t *testing.T) {
	a := newTestApp(t)
	root, config := writeLibraryRoot(t)
	a.rootDir, a.configPath = root, config

	// A trigger landing while a reload is in flight must be deferred,
	// not dropped.
	a.reloading = true
	a.reload()
	if !a.reloadPending {
		t.Fatal("mid-reload trigger was not recorded")
	}

	lib, err := library.Load(root, config)
	if err != nil {
		t.Fatal(err)
	}
	a.applyReload(lib, nil, nil, root, config)

	if a.reloadPending {
		t.Error("pending flag survived reload completion")
	}
	if !a.reloading {
		t.Error("deferred reload did not start after completion")
	}
	waitForReloadDone(t, a)
}

func TestReload_WatcherArmedAfterFailedLoad(t *testing.T) {
	a := newTestApp(t)
	a.watcher.Close()

	var fired atomic.Int32
	a.watcher = watch.New(func() { fired.Add(1) }, 20*time.Millisecond)
	t.Cleanup(a.watcher.Close)

	root := t.TempDir()
	config := filepath.Join(root, "folders.json")
	a.rootDir, a.configPath = root, config

	// A failed load must still arm the watcher, so fixing the
	// configuration triggers the next reload without user action.
	a.applyReload(nil, errors.New("read folders.json: no such file"), nil, root, config)

	if err := os.WriteFile(config, []byte(`[{"folders": []}]`), 0644); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for fired.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("watcher never fired after the configuration appeared")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestTileGrid_ReleasesTilesScrolledOutOfView(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	dir := t.TempDir()
	previewPath := filepath.Join(dir, "preview.gif")
	os.WriteFile(previewPath, []byte("not a real gif"), 0644)

	manager := preview.NewManager()
	tg := newTileGrid(manager, nil)

	w := test.NewWindow(tg.Content())
	defer w.Close()
	w.Resize(fyne.NewSize(340, 240))
	fyne.DoAndWait(func() {})

	items := make([]library.Item, 30)
	tiles := make([]browse.Tile, len(items))
	for i := range items {
		items[i] = library.Item{ID: fmt.Sprintf("%d", i+1), PreviewPath: previewPath}
		tiles[i] = browse.Tile{Item: &items[i]}
	}
	tg.setTiles(tiles)
	fyne.DoAndWait(func() {})

	live := manager.LiveCount()
	if live == 0 || live >= len(tiles) {
		t.Fatalf("live previews after render: got %d, want a strict subset of %d", live, len(tiles))
	}
	if tg.tiles[0].preview == nil {
		t.Fatal("first-row tile has no preview while in view")
	}
	if tg.tiles[len(tg.tiles)-1].preview != nil {
		t.Fatal("last-row tile holds a preview while out of view")
	}

	// Scrolling to the bottom hands residency to the last rows.
	tg.scroll.Offset = fyne.NewPos(0, 800)
	tg.updateVisibility()
	if tg.tiles[0].preview != nil {
		t.Error("first-row tile still holds a preview after scrolling away")
	}
	if tg.tiles[len(tg.tiles)-1].preview == nil {
		t.Error("last-row tile has no preview after scrolling into view")
	}
}

func TestSortQueryFor(t *testing.T) {
	cases := []struct {
		index int
		key   browse.SortKey
		asc   bool
	}{
		{0, browse.SortByModified, false},
		{1, browse.SortByModified, true},
		{2, browse.SortBySize, false},
		{3, browse.SortBySize, true},
		{4, browse.SortByTitle, true},
		{5, browse.SortByTitle, false},
		{99, browse.SortByModified, false},
	}
	for _, tc := range cases {
		key, asc := sortQueryFor(tc.index)
		if key != tc.key || asc != tc.asc {
			t.Errorf("index %d: got (%d, %v), want (%d, %v)", tc.index, key, asc, tc.key, tc.asc)
		}
	}
}
