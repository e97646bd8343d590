// Package playlist writes extended M3U playlists for handoff to the
// system's default media player.
package playlist

import (
	"fmt"
	"os"
	"strings"
)

// Entry is one playlist line: a display title and an absolute media
// path.
type Entry struct {
	Title string
	Path  string
}

// WriteM3U writes the entries, in order, as an extended M3U file.
// It is a single atomic-enough write; partial-failure aggregation is
// not needed here.
func WriteM3U(path string, entries []Entry) error {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	for _, e := range entries {
		title := strings.ReplaceAll(e.Title, "\n", " ")
		fmt.Fprintf(&b, "#EXTINF:-1,%s\n%s\n", title, e.Path)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write playlist %s: %w", path, err)
	}
	return nil
}
