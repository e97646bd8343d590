// Package browse turns one navigation level into the ordered page of
// tiles actually shown, and owns the pure geometry behind the grid:
// metrics and rubber-band selection. Everything here is independent
// of the widget toolkit so it can be tested headless.
package browse

import (
	"sort"
	"strings"

	"github.com/clipgrid/clipgrid/internal/library"
)

// PageSize is the fixed number of tiles per page.
const PageSize = 45

// SortKey selects the item ordering within a page. Folders always
// keep tree-declared order ahead of items.
type SortKey int

const (
	SortByModified SortKey = iota
	SortBySize
	SortByTitle
)

// Tile is the ephemeral descriptor of one on-screen cell: either a
// folder (with its recursive resolvable item count) or an item.
// Tiles are regenerated on every page render and never persisted.
type Tile struct {
	Folder *library.FolderNode
	Count  int
	Item   *library.Item
}

// IsFolder reports whether the tile represents a folder.
func (t Tile) IsFolder() bool {
	return t.Folder != nil
}

// Title returns the tile's display title.
func (t Tile) Title() string {
	if t.Folder != nil {
		return t.Folder.Title
	}
	return t.Item.Title
}

// Query captures the filter, sort and pagination state for a render.
type Query struct {
	RestrictedOnly bool
	Sort           SortKey
	Ascending      bool
	Page           int
	PageSize       int
}

// Page is one rendered page plus the totals for the current level.
type Page struct {
	Tiles      []Tile
	Index      int
	TotalTiles int
	TotalPages int
}

// VisiblePage filters, sorts and paginates the current level's
// children. Folders come first in tree order and are never filtered
// by rating; stale item ids are silently dropped; the page index is
// clamped to the valid range.
func VisiblePage(folders []*library.FolderNode, itemIDs []string, index map[string]library.Item, q Query) Page {
	if q.PageSize <= 0 {
		q.PageSize = PageSize
	}

	items := make([]library.Item, 0, len(itemIDs))
	for _, id := range itemIDs {
		item, ok := index[id]
		if !ok {
			continue
		}
		if q.RestrictedOnly && item.Rating != library.RatingRestricted {
			continue
		}
		items = append(items, item)
	}
	sortItems(items, q.Sort, q.Ascending)

	tiles := make([]Tile, 0, len(folders)+len(items))
	for _, folder := range folders {
		tiles = append(tiles, Tile{Folder: folder, Count: folder.RecursiveCount(index)})
	}
	for i := range items {
		tiles = append(tiles, Tile{Item: &items[i]})
	}

	total := len(tiles)
	totalPages := (total + q.PageSize - 1) / q.PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	page := q.Page
	if page < 0 {
		page = 0
	}
	if page > totalPages-1 {
		page = totalPages - 1
	}

	start := page * q.PageSize
	end := start + q.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Tiles:      tiles[start:end],
		Index:      page,
		TotalTiles: total,
		TotalPages: totalPages,
	}
}

func sortItems(items []library.Item, key SortKey, ascending bool) {
	sort.SliceStable(items, func(i, j int) bool {
		var less bool
		switch key {
		case SortBySize:
			if items[i].Size != items[j].Size {
				less = items[i].Size < items[j].Size
			} else {
				less = items[i].ID < items[j].ID
			}
		case SortByTitle:
			a := strings.ToLower(items[i].Title)
			b := strings.ToLower(items[j].Title)
			if a != b {
				less = a < b
			} else {
				less = items[i].ID < items[j].ID
			}
		default:
			if !items[i].ModTime.Equal(items[j].ModTime) {
				less = items[i].ModTime.Before(items[j].ModTime)
			} else {
				less = items[i].ID < items[j].ID
			}
		}
		if ascending {
			return less
		}
		return !less
	})
}
