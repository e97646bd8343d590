package browse

import "sort"

// Modifiers mirrors the keyboard state attached to a pointer action.
type Modifiers struct {
	Ctrl  bool
	Shift bool
}

// Rect is an axis-aligned rectangle in grid content coordinates
// (origin at the top-left tile corner), normalized so X1 <= X2 and
// Y1 <= Y2.
type Rect struct {
	X1, Y1, X2, Y2 float32
}

// Layout is the geometry the controller needs to hit-test tiles
// against a drag rectangle.
type Layout struct {
	Columns int
	Edge    float32
	Spacing float32
}

// Controller tracks the selected subset of the currently rendered
// tile list. Selection is bound to on-screen tile order, not to any
// persistent id: a structural page change resets it.
type Controller struct {
	count    int
	layout   Layout
	selected map[int]struct{}
	anchor   int
}

// NewController returns an empty controller.
func NewController() *Controller {
	return &Controller{
		selected: make(map[int]struct{}),
		anchor:   -1,
	}
}

// SetTiles rebinds the controller to a freshly rendered tile list,
// dropping any prior selection and focus anchor.
func (c *Controller) SetTiles(count int) {
	c.count = count
	c.selected = make(map[int]struct{})
	c.anchor = -1
}

// SetLayout updates grid geometry after a metrics change. Tile order
// is unchanged by a pure resize, so the selection is kept.
func (c *Controller) SetLayout(l Layout) {
	if l.Columns < 1 {
		l.Columns = 1
	}
	c.layout = l
}

// ClickSelect applies a click at the given tile. Plain click selects
// exactly that tile; Ctrl toggles it leaving others untouched; Shift
// selects the contiguous run between the last focused tile and this
// one in rendered order. Every click moves the focus anchor.
func (c *Controller) ClickSelect(id int, mod Modifiers) {
	if id < 0 || id >= c.count {
		return
	}

	switch {
	case mod.Shift:
		anchor := c.anchor
		if anchor == -1 {
			anchor = 0
		}
		start, end := anchor, id
		if start > end {
			start, end = end, start
		}
		c.selected = make(map[int]struct{})
		for i := start; i <= end; i++ {
			c.selected[i] = struct{}{}
		}
	case mod.Ctrl:
		if _, ok := c.selected[id]; ok {
			delete(c.selected, id)
		} else {
			c.selected[id] = struct{}{}
		}
	default:
		c.selected = map[int]struct{}{id: {}}
	}
	c.anchor = id
}

// DragSelect selects every tile whose bounding box intersects the
// rubber-band rectangle. With Ctrl held the hits are added to the
// existing selection; otherwise they replace it. Dragging does not
// move the focus anchor.
func (c *Controller) DragSelect(r Rect, mod Modifiers) {
	hits := c.intersecting(r)
	if !mod.Ctrl {
		c.selected = make(map[int]struct{})
	}
	for _, id := range hits {
		c.selected[id] = struct{}{}
	}
}

// intersecting walks only the rows and columns the rectangle touches,
// then performs a strict box intersection per candidate tile.
func (c *Controller) intersecting(r Rect) []int {
	if c.count == 0 || c.layout.Columns < 1 {
		return nil
	}

	cols := c.layout.Columns
	step := c.layout.Edge + c.layout.Spacing
	if step <= 0 {
		return nil
	}

	startRow := int(r.Y1 / step)
	endRow := int(r.Y2 / step)
	maxRow := (c.count - 1) / cols
	if startRow < 0 {
		startRow = 0
	}
	if endRow > maxRow {
		endRow = maxRow
	}

	startCol := int(r.X1 / step)
	endCol := int(r.X2 / step)
	if startCol < 0 {
		startCol = 0
	}
	if endCol > cols-1 {
		endCol = cols - 1
	}

	var ids []int
	for row := startRow; row <= endRow; row++ {
		for col := startCol; col <= endCol; col++ {
			id := row*cols + col
			if id < 0 || id >= c.count {
				continue
			}
			x1 := float32(col) * step
			y1 := float32(row) * step
			x2 := x1 + c.layout.Edge
			y2 := y1 + c.layout.Edge
			if x1 < r.X2 && x2 > r.X1 && y1 < r.Y2 && y2 > r.Y1 {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// SelectAll selects every rendered tile.
func (c *Controller) SelectAll() {
	for i := 0; i < c.count; i++ {
		c.selected[i] = struct{}{}
	}
}

// Clear empties the selection without touching the focus anchor.
func (c *Controller) Clear() {
	c.selected = make(map[int]struct{})
}

// IsSelected reports whether the tile at id is selected.
func (c *Controller) IsSelected(id int) bool {
	_, ok := c.selected[id]
	return ok
}

// Selected returns the selected tile indexes in rendered order.
func (c *Controller) Selected() []int {
	ids := make([]int, 0, len(c.selected))
	for id := range c.selected {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Len returns the number of selected tiles.
func (c *Controller) Len() int {
	return len(c.selected)
}
