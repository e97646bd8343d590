package library

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/clipgrid/clipgrid/internal/logging"
)

// MetaFileName is the per-item metadata descriptor read from each
// numeric directory under the library root.
const MetaFileName = "item.json"

// MediaTypeVideo is the only media type the index accepts.
const MediaTypeVideo = "video"

// RatingRestricted is the designated restricted content-rating tag.
const RatingRestricted = "r18"

// Item is one media entry: a paired animated preview and playable video.
// Items are immutable between reloads.
type Item struct {
	ID          string
	Title       string
	PreviewPath string
	VideoPath   string
	ModTime     time.Time
	Size        int64
	Rating      string
	MediaType   string
}

// Dir returns the item's backing directory, the unit destructive
// operations act on.
func (it Item) Dir() string {
	return filepath.Dir(it.VideoPath)
}

type itemMeta struct {
	Title   string `json:"title"`
	Preview string `json:"preview"`
	Video   string `json:"video"`
	Type    string `json:"type"`
	Rating  string `json:"rating"`
}

// Scan walks the immediate numeric-named subdirectories of root and
// builds the item index. Per-entry failures (missing descriptor,
// malformed JSON, missing media files, wrong media type) skip that
// entry and continue; a missing root yields an empty index. Scanning
// an unchanged tree twice yields identical maps.
func Scan(root string) map[string]Item {
	index := make(map[string]Item)

	entries, err := os.ReadDir(root)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("library: cannot read root %s: %v", root, err)
		}
		return index
	}

	for _, entry := range entries {
		if !entry.IsDir() || !isNumericName(entry.Name()) {
			continue
		}
		item, ok := readItem(filepath.Join(root, entry.Name()), entry.Name())
		if !ok {
			continue
		}
		index[item.ID] = item
	}
	return index
}

func readItem(dir, id string) (Item, bool) {
	raw, err := os.ReadFile(filepath.Join(dir, MetaFileName))
	if err != nil {
		logging.Debug("library: skip %s: %v", id, err)
		return Item{}, false
	}

	var meta itemMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		logging.Debug("library: skip %s: bad descriptor: %v", id, err)
		return Item{}, false
	}
	if meta.Type != MediaTypeVideo {
		return Item{}, false
	}
	if meta.Preview == "" || meta.Video == "" {
		logging.Debug("library: skip %s: incomplete descriptor", id)
		return Item{}, false
	}

	previewPath := filepath.Join(dir, meta.Preview)
	videoPath := filepath.Join(dir, meta.Video)
	if _, err := os.Stat(previewPath); err != nil {
		logging.Debug("library: skip %s: preview missing: %v", id, err)
		return Item{}, false
	}
	videoInfo, err := os.Stat(videoPath)
	if err != nil {
		logging.Debug("library: skip %s: video missing: %v", id, err)
		return Item{}, false
	}

	title := meta.Title
	if title == "" {
		title = id
	}

	return Item{
		ID:          id,
		Title:       title,
		PreviewPath: previewPath,
		VideoPath:   videoPath,
		ModTime:     videoInfo.ModTime(),
		Size:        videoInfo.Size(),
		Rating:      meta.Rating,
		MediaType:   meta.Type,
	}, true
}

func isNumericName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
