package gui

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// selectionOverlay draws the rubber-band rectangle over the tile grid
// and reports drag geometry to the grid. It implements Draggable but
// not Tappable, so taps still reach the tiles underneath.
type selectionOverlay struct {
	widget.BaseWidget
	content fyne.CanvasObject

	rect *canvas.Rectangle

	startPos fyne.Position
	curPos   fyne.Position
	dragging bool

	onChanged func(start, cur fyne.Position)
	onEnd     func()
}

func newSelectionOverlay(content fyne.CanvasObject, onChanged func(start, cur fyne.Position), onEnd func()) *selectionOverlay {
	s := &selectionOverlay{
		content:   content,
		rect:      canvas.NewRectangle(color.Transparent),
		onChanged: onChanged,
		onEnd:     onEnd,
	}
	s.rect.StrokeColor = theme.Color(theme.ColorNamePrimary)
	s.rect.StrokeWidth = 2
	r, g, b, _ := theme.Color(theme.ColorNameFocus).RGBA()
	s.rect.FillColor = color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 64}

	s.rect.Hide()
	s.ExtendBaseWidget(s)
	return s
}

func (s *selectionOverlay) CreateRenderer() fyne.WidgetRenderer {
	return &selectionOverlayRenderer{s: s}
}

func (s *selectionOverlay) Dragged(e *fyne.DragEvent) {
	if !s.dragging {
		s.dragging = true
		s.startPos = e.PointEvent.Position.Subtract(e.Dragged)
		s.rect.Show()
	}

	s.curPos = e.PointEvent.Position
	s.refreshRect()

	if s.onChanged != nil {
		s.onChanged(s.startPos, s.curPos)
	}
}

func (s *selectionOverlay) DragEnd() {
	if !s.dragging {
		return
	}
	s.dragging = false
	s.rect.Hide()
	s.rect.Refresh()

	if s.onEnd != nil {
		s.onEnd()
	}
}

func (s *selectionOverlay) refreshRect() {
	x1 := math.Min(float64(s.startPos.X), float64(s.curPos.X))
	y1 := math.Min(float64(s.startPos.Y), float64(s.curPos.Y))
	x2 := math.Max(float64(s.startPos.X), float64(s.curPos.X))
	y2 := math.Max(float64(s.startPos.Y), float64(s.curPos.Y))
	s.rect.Move(fyne.NewPos(float32(x1), float32(y1)))
	s.rect.Resize(fyne.NewSize(float32(x2-x1), float32(y2-y1)))
}

var _ fyne.Draggable = (*selectionOverlay)(nil)

type selectionOverlayRenderer struct {
	s *selectionOverlay
}

func (r *selectionOverlayRenderer) Layout(size fyne.Size) {
	r.s.content.Resize(size)
	r.s.content.Move(fyne.NewPos(0, 0))
}

func (r *selectionOverlayRenderer) MinSize() fyne.Size {
	return r.s.content.MinSize()
}

func (r *selectionOverlayRenderer) Refresh() {
	r.s.content.Refresh()
	r.s.rect.Refresh()
}

func (r *selectionOverlayRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.s.content, r.s.rect}
}

func (r *selectionOverlayRenderer) Destroy() {}
