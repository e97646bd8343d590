package gui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"github.com/clipgrid/clipgrid/internal/browse"
	"github.com/clipgrid/clipgrid/internal/preview"
)

// gridLayout positions square tiles in rows under fixed spacing,
// recomputing the (columns, edge) metrics whenever the width changes
// and reporting the change back so selection geometry and preview
// scaling can follow.
type gridLayout struct {
	spacing float32
	minEdge float32

	metrics  browse.GridMetrics
	onChange func(browse.GridMetrics)
}

func (g *gridLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	m := browse.Metrics(size.Width, g.spacing, g.minEdge)
	if m != g.metrics {
		g.metrics = m
		if g.onChange != nil {
			onChange := g.onChange
			// Defer past the current layout pass.
			fyne.Do(func() {
				onChange(m)
			})
		}
	}

	step := m.TileEdge + g.spacing
	for i, o := range objects {
		col := i % m.Columns
		row := i / m.Columns
		o.Resize(fyne.NewSquareSize(m.TileEdge))
		o.Move(fyne.NewPos(g.spacing+float32(col)*step, g.spacing+float32(row)*step))
	}
}

func (g *gridLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	edge := g.metrics.TileEdge
	cols := g.metrics.Columns
	if cols < 1 {
		cols = 1
		edge = g.minEdge
	}

	rows := (len(objects) + cols - 1) / cols
	height := 2 * g.spacing
	if rows > 0 {
		height += float32(rows)*edge + float32(rows-1)*g.spacing
	}
	return fyne.NewSize(g.minEdge+2*g.spacing, height)
}

// tileGrid owns the scrollable tile area: the laid-out tile widgets,
// the rubber-band selection overlay wrapping them and the Ctrl+scroll
// zoom overlay on top.
type tileGrid struct {
	previews *preview.Manager

	layout  *gridLayout
	grid    *fyne.Container
	overlay *selectionOverlay
	scroll  *container.Scroll
	content fyne.CanvasObject

	tiles  []*tileWidget
	active bool

	// Click guarding after a rubber-band drag; MouseUp can fire
	// before DragEnd on some platforms.
	dragSelecting bool
	lastDragTime  time.Time

	onMetrics  func(browse.GridMetrics)
	onDragRect func(r browse.Rect, mod browse.Modifiers)
	onDragEnd  func()
	onClick    func(id int, mod browse.Modifiers)
	onOpen     func(id int)
}

func newTileGrid(previews *preview.Manager, onZoomStep func(steps int)) *tileGrid {
	tg := &tileGrid{previews: previews, active: true}

	tg.layout = &gridLayout{
		spacing: browse.TileSpacing,
		minEdge: browse.MinTileEdge,
		onChange: func(m browse.GridMetrics) {
			if tg.onMetrics != nil {
				tg.onMetrics(m)
			}
		},
	}
	tg.grid = container.New(tg.layout)
	tg.overlay = newSelectionOverlay(tg.grid, tg.onSelectionDrag, tg.onSelectionEnd)
	tg.scroll = container.NewScroll(tg.overlay)
	tg.scroll.OnScrolled = func(fyne.Position) {
		tg.updateVisibility()
	}
	tg.content = container.NewStack(tg.scroll, newZoomScrollOverlay(onZoomStep))
	return tg
}

func (tg *tileGrid) Content() fyne.CanvasObject {
	return tg.content
}

func (tg *tileGrid) metrics() browse.GridMetrics {
	return tg.layout.metrics
}

// edge returns the current tile edge in pixels, falling back to the
// minimum before the first layout pass has run.
func (tg *tileGrid) edge() int {
	if tg.layout.metrics.Columns < 1 {
		return int(tg.layout.minEdge)
	}
	return int(tg.layout.metrics.TileEdge)
}

// setMinEdge applies a new zoom-scaled minimum tile edge and lets the
// next layout pass recompute the metrics from it.
func (tg *tileGrid) setMinEdge(edge float32) {
	if tg.layout.minEdge == edge {
		return
	}
	tg.layout.minEdge = edge
	tg.grid.Refresh()
}

// setTiles replaces the rendered page. Previous tiles release their
// previews first, so residency stays bounded by one page.
func (tg *tileGrid) setTiles(tiles []browse.Tile) {
	for _, t := range tg.tiles {
		t.deactivate()
	}

	tg.tiles = make([]*tileWidget, 0, len(tiles))
	tg.grid.Objects = nil
	for i, tile := range tiles {
		w := newTileWidget(tg)
		w.setTile(i, tile)
		tg.tiles = append(tg.tiles, w)
		tg.grid.Add(w)
	}
	tg.scroll.ScrollToTop()
	tg.updateVisibility()
	tg.grid.Refresh()
}

// updateVisibility acquires previews for tiles inside the scroll
// viewport and releases those scrolled out. Before the first layout
// pass (or in headless use) the viewport is unknown and the whole
// page counts as visible, which keeps residency bounded by the page.
func (tg *tileGrid) updateVisibility() {
	if !tg.active {
		return
	}
	edge := tg.edge()
	m := tg.layout.metrics
	viewport := tg.scroll.Size()
	if m.Columns < 1 || viewport.Height <= 0 {
		for _, t := range tg.tiles {
			t.activate(edge)
		}
		return
	}

	step := m.TileEdge + tg.layout.spacing
	top := tg.scroll.Offset.Y
	bottom := top + viewport.Height
	for i, t := range tg.tiles {
		y1 := tg.layout.spacing + float32(i/m.Columns)*step
		if y1 < bottom && y1+m.TileEdge > top {
			t.activate(edge)
		} else {
			t.deactivate()
		}
	}
}

// rescale regenerates every tile's display frames for a new edge
// without touching the preview files.
func (tg *tileGrid) rescale(edge int) {
	tg.updateVisibility()
	for _, t := range tg.tiles {
		t.rescale(edge)
	}
}

func (tg *tileGrid) refreshSelection(isSelected func(id int) bool) {
	for i, t := range tg.tiles {
		t.setSelected(isSelected(i))
	}
}

// hideAll releases every preview while the window is not in the
// foreground; showAll re-acquires the visible ones on return.
func (tg *tileGrid) hideAll() {
	tg.active = false
	for _, t := range tg.tiles {
		t.deactivate()
	}
}

func (tg *tileGrid) showAll() {
	tg.active = true
	tg.updateVisibility()
}

func (tg *tileGrid) onSelectionDrag(start, cur fyne.Position) {
	tg.dragSelecting = true

	// Overlay positions are grid content coordinates; shift by the
	// outer spacing so the rectangle is relative to the first tile.
	x1, x2 := start.X, cur.X
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	y1, y2 := start.Y, cur.Y
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	r := browse.Rect{
		X1: x1 - tg.layout.spacing,
		Y1: y1 - tg.layout.spacing,
		X2: x2 - tg.layout.spacing,
		Y2: y2 - tg.layout.spacing,
	}

	if tg.onDragRect != nil {
		tg.onDragRect(r, browse.Modifiers{Ctrl: isCtrlModifierActive()})
	}
}

func (tg *tileGrid) onSelectionEnd() {
	tg.dragSelecting = false
	tg.lastDragTime = time.Now()
	if tg.onDragEnd != nil {
		tg.onDragEnd()
	}
}

func (tg *tileGrid) clickGuarded() bool {
	return tg.dragSelecting || time.Since(tg.lastDragTime) < 200*time.Millisecond
}
