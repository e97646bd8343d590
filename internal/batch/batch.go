// Package batch resolves a tile selection into a concrete item set
// and drives the destructive and playback actions over it.
package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/clipgrid/clipgrid/internal/browse"
	"github.com/clipgrid/clipgrid/internal/library"
	"github.com/clipgrid/clipgrid/internal/logging"
	"github.com/clipgrid/clipgrid/internal/playlist"
)

// Releaser drops every live preview buffer. Destructive filesystem
// operations must run with zero decoded previews resident.
type Releaser interface {
	ReleaseAll()
}

// Coordinator wires the selection-resolution logic to the trash,
// playlist and reload collaborators.
type Coordinator struct {
	releaser Releaser
	trash    func(dir string) error
	launch   func(path string) error
	reload   func()
}

// New builds a coordinator. trash moves one directory to a
// recoverable state; launch hands a playlist file to the OS default
// player; reload triggers a full library reload.
func New(releaser Releaser, trash func(string) error, launch func(string) error, reload func()) *Coordinator {
	return &Coordinator{releaser: releaser, trash: trash, launch: launch, reload: reload}
}

// Resolve expands the selected tiles into items: directly selected
// items plus every item transitively contained in a selected folder,
// with the rating filter re-applied at resolution time. The result
// is deduplicated by video path, preserving first-seen order.
func Resolve(tiles []browse.Tile, index map[string]library.Item, restrictedOnly bool) []library.Item {
	seen := make(map[string]struct{})
	var items []library.Item

	add := func(item library.Item) {
		if restrictedOnly && item.Rating != library.RatingRestricted {
			return
		}
		if _, ok := seen[item.VideoPath]; ok {
			return
		}
		seen[item.VideoPath] = struct{}{}
		items = append(items, item)
	}

	for _, tile := range tiles {
		if tile.IsFolder() {
			for _, id := range tile.Folder.RecursiveItems() {
				if item, ok := index[id]; ok {
					add(item)
				}
			}
			continue
		}
		add(*tile.Item)
	}
	return items
}

// TrashItems moves the items' backing directories to the trash. All
// live previews are released first, directories are deduplicated,
// and individual failures do not stop the batch: they are aggregated
// into the returned error. A full reload is triggered afterwards
// regardless of partial failure.
func (c *Coordinator) TrashItems(items []library.Item) error {
	c.releaser.ReleaseAll()

	seen := make(map[string]struct{})
	var dirs []string
	for _, item := range items {
		dir := item.Dir()
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}

	var errs []error
	for _, dir := range dirs {
		if err := c.trash(dir); err != nil {
			logging.Warn("batch: %v", err)
			errs = append(errs, err)
		}
	}
	logging.Info("batch: trashed %d of %d directories", len(dirs)-len(errs), len(dirs))

	c.reload()
	return errors.Join(errs...)
}

// Play writes the items, already deduplicated by Resolve, as an
// ordered playlist and hands it to the external player launcher.
func (c *Coordinator) Play(items []library.Item) error {
	if len(items) == 0 {
		return nil
	}

	entries := make([]playlist.Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, playlist.Entry{Title: item.Title, Path: item.VideoPath})
	}

	path := filepath.Join(os.TempDir(), "clipgrid.m3u8")
	if err := playlist.WriteM3U(path, entries); err != nil {
		return err
	}
	if err := c.launch(path); err != nil {
		return fmt.Errorf("launch playlist: %w", err)
	}
	return nil
}
