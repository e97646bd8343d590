package library

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/clipgrid/clipgrid/internal/logging"
)

// WebIDLength is the digit count of an item's site identifier, which
// is the item's directory name under the library root.
const WebIDLength = 7

// Library is one immutable snapshot of the collection: the item
// index, the folder tree and the unassigned complement. A reload
// builds a fresh snapshot which the UI swaps in atomically; nothing
// is patched in place.
type Library struct {
	Root       string
	Index      map[string]Item
	Folders    []*FolderNode
	Unassigned []string
}

// Load scans root and builds the folder tree from configPath. A
// configuration read failure aborts the load; scan problems degrade
// to a partial index.
func Load(root, configPath string) (*Library, error) {
	folders, err := BuildTree(configPath)
	if err != nil {
		return nil, err
	}

	index := Scan(root)
	lib := &Library{
		Root:       root,
		Index:      index,
		Folders:    folders,
		Unassigned: unassigned(index, folders),
	}
	logging.Info("library: loaded %d items, %d root folders, %d unassigned",
		len(index), len(folders), len(lib.Unassigned))
	return lib, nil
}

// unassigned returns all indexed ids not reachable from any folder,
// ordered ascending by numeric id value so that reloads of an
// unchanged tree are deterministic.
func unassigned(index map[string]Item, folders []*FolderNode) []string {
	assigned := make(map[string]struct{})
	stale := 0
	for _, folder := range folders {
		for _, id := range folder.RecursiveItems() {
			if _, ok := index[id]; !ok {
				stale++
			}
			assigned[id] = struct{}{}
		}
	}
	if stale > 0 {
		logging.Debug("library: %d stale folder member ids", stale)
	}

	rest := make([]string, 0, len(index))
	for id := range index {
		if _, ok := assigned[id]; !ok {
			rest = append(rest, id)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		a, aErr := strconv.ParseUint(rest[i], 10, 64)
		b, bErr := strconv.ParseUint(rest[j], 10, 64)
		if aErr != nil || bErr != nil {
			return rest[i] < rest[j]
		}
		if a != b {
			return a < b
		}
		return rest[i] < rest[j]
	})
	return rest
}

// Resolve maps ids to items, silently dropping stale references.
func (l *Library) Resolve(ids []string) []Item {
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := l.Index[id]; ok {
			items = append(items, item)
		}
	}
	return items
}

// WebID derives the site identifier from an item's backing directory
// name. Directories with a different digit count have no site page.
func WebID(item Item) (string, error) {
	id := filepath.Base(item.Dir())
	if len(id) != WebIDLength || !isNumericName(id) {
		return "", fmt.Errorf("no site identifier for %q", id)
	}
	return id, nil
}
