package gui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/clipgrid/clipgrid/internal/browse"
	"github.com/clipgrid/clipgrid/internal/preview"
)

// tileWidget renders one cell of the grid: a folder with its
// recursive item count, or an item with its animated preview. Item
// tiles hold their decoded preview only while activated.
type tileWidget struct {
	widget.BaseWidget
	grid *tileGrid
	id   int
	tile browse.Tile

	bg    *canvas.Rectangle
	img   *canvas.Image
	icon  *widget.Icon
	label *widget.Label

	preview   *preview.Preview
	frame     int
	animGen   int
	animTimer *time.Timer

	lastClick time.Time
}

func newTileWidget(grid *tileGrid) *tileWidget {
	t := &tileWidget{
		grid:  grid,
		bg:    canvas.NewRectangle(theme.Color(theme.ColorNameSelection)),
		img:   canvas.NewImageFromImage(nil),
		icon:  widget.NewIcon(theme.FolderIcon()),
		label: widget.NewLabel(""),
	}
	t.bg.Hide()
	t.img.FillMode = canvas.ImageFillContain
	t.img.ScaleMode = canvas.ImageScaleFastest
	t.img.Hide()
	t.icon.Hide()
	t.label.Alignment = fyne.TextAlignCenter
	t.label.Truncation = fyne.TextTruncateEllipsis
	t.ExtendBaseWidget(t)
	return t
}

func (t *tileWidget) CreateRenderer() fyne.WidgetRenderer {
	return &tileWidgetRenderer{tile: t}
}

func (t *tileWidget) setTile(id int, tile browse.Tile) {
	t.id = id
	t.tile = tile

	if tile.IsFolder() {
		t.icon.Show()
		t.img.Hide()
		t.label.SetText(fmt.Sprintf("%s (%d)", tile.Title(), tile.Count))
		return
	}
	t.icon.Hide()
	t.label.SetText(tile.Title())
}

// activate acquires the decoded preview at the given tile edge and
// starts the frame timer. Folder tiles have nothing to acquire.
func (t *tileWidget) activate(edge int) {
	if t.tile.Item == nil || t.preview != nil {
		return
	}

	t.preview = t.grid.previews.Acquire(t.tile.Item.PreviewPath, edge)
	t.frame = 0
	t.img.Image = t.preview.Frame(0)
	t.img.Show()
	t.img.Refresh()
	t.scheduleFrame()
}

// deactivate stops the animation and releases the preview buffers.
func (t *tileWidget) deactivate() {
	t.animGen++
	if t.animTimer != nil {
		t.animTimer.Stop()
		t.animTimer = nil
	}
	if t.preview != nil {
		t.grid.previews.Release(t.preview)
		t.preview = nil
	}
	t.img.Image = nil
	t.img.Hide()
}

// rescale regenerates the display frames for a new tile edge from the
// preview's retained composites.
func (t *tileWidget) rescale(edge int) {
	if t.preview == nil {
		return
	}
	t.preview.Rescale(edge)
	t.img.Image = t.preview.Frame(t.frame)
	t.img.Refresh()
}

func (t *tileWidget) scheduleFrame() {
	if t.preview == nil || t.preview.FrameCount() < 2 {
		return
	}

	gen := t.animGen
	t.animTimer = time.AfterFunc(t.preview.Delay(t.frame), func() {
		fyne.Do(func() {
			if t.animGen != gen || t.preview == nil {
				return
			}
			t.frame = (t.frame + 1) % t.preview.FrameCount()
			t.img.Image = t.preview.Frame(t.frame)
			t.img.Refresh()
			t.scheduleFrame()
		})
	})
}

func (t *tileWidget) setSelected(selected bool) {
	if selected == t.bg.Visible() {
		return
	}
	if selected {
		t.bg.Show()
	} else {
		t.bg.Hide()
	}
	t.Refresh()
}

func (t *tileWidget) Tapped(e *fyne.PointEvent) {
	if t.grid.clickGuarded() {
		return
	}

	now := time.Now()
	if now.Sub(t.lastClick) < fyne.CurrentApp().Driver().DoubleTapDelay() {
		if t.grid.onOpen != nil {
			t.grid.onOpen(t.id)
		}
	}
	t.lastClick = now
}

var _ desktop.Mouseable = (*tileWidget)(nil)

func (t *tileWidget) MouseDown(e *desktop.MouseEvent) {}

func (t *tileWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	if t.grid.clickGuarded() {
		return
	}

	mod := browse.Modifiers{
		Ctrl:  e.Modifier&fyne.KeyModifierControl != 0,
		Shift: e.Modifier&fyne.KeyModifierShift != 0,
	}
	if t.grid.onClick != nil {
		t.grid.onClick(t.id, mod)
	}
}

type tileWidgetRenderer struct {
	tile *tileWidget
}

func (r *tileWidgetRenderer) Layout(size fyne.Size) {
	t := r.tile
	t.bg.Resize(size)

	labelHeight := t.label.MinSize().Height
	if labelHeight > size.Height/2 {
		labelHeight = size.Height / 2
	}
	bodyHeight := size.Height - labelHeight

	t.img.Resize(fyne.NewSize(size.Width, bodyHeight))
	t.img.Move(fyne.NewPos(0, 0))

	iconSize := fyne.NewSquareSize(bodyHeight * 0.6)
	t.icon.Resize(iconSize)
	t.icon.Move(fyne.NewPos((size.Width-iconSize.Width)/2, (bodyHeight-iconSize.Height)/2))

	t.label.Resize(fyne.NewSize(size.Width, labelHeight))
	t.label.Move(fyne.NewPos(0, bodyHeight))
}

func (r *tileWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSquareSize(browse.MinTileEdge)
}

func (r *tileWidgetRenderer) Refresh() {
	r.tile.bg.Refresh()
	r.tile.img.Refresh()
	r.tile.icon.Refresh()
	r.tile.label.Refresh()
}

func (r *tileWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.tile.bg, r.tile.img, r.tile.icon, r.tile.label}
}

func (r *tileWidgetRenderer) Destroy() {
	if r.tile.animTimer != nil {
		r.tile.animTimer.Stop()
	}
}
