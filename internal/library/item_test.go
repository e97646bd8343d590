package library

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeItemDir(t *testing.T, root, id, rating, title string, videoSize int) {
	t.Helper()

	dir := filepath.Join(root, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}

	meta := fmt.Sprintf(`{"title":%q,"preview":"preview.gif","video":"video.mp4","type":"video","rating":%q}`, title, rating)
	if err := os.WriteFile(filepath.Join(dir, MetaFileName), []byte(meta), 0644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "preview.gif"), []byte("gif"), 0644); err != nil {
		t.Fatalf("write preview: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "video.mp4"), make([]byte, videoSize), 0644); err != nil {
		t.Fatalf("write video: %v", err)
	}
}

func TestScan_IndexesValidItems(t *testing.T) {
	root := t.TempDir()
	writeItemDir(t, root, "1234567", "all", "First", 100)
	writeItemDir(t, root, "7654321", "r18", "Second", 200)

	index := Scan(root)
	if len(index) != 2 {
		t.Fatalf("expected 2 items, got %d", len(index))
	}

	item, ok := index["1234567"]
	if !ok {
		t.Fatal("item 1234567 missing from index")
	}
	if got, want := item.Title, "First"; got != want {
		t.Errorf("title: got %q, want %q", got, want)
	}
	if got, want := item.Size, int64(100); got != want {
		t.Errorf("size: got %d, want %d", got, want)
	}
	if got, want := item.Dir(), filepath.Join(root, "1234567"); got != want {
		t.Errorf("dir: got %q, want %q", got, want)
	}
	if got, want := index["7654321"].Rating, RatingRestricted; got != want {
		t.Errorf("rating: got %q, want %q", got, want)
	}
}

func TestScan_SkipsBrokenEntries(t *testing.T) {
	root := t.TempDir()
	writeItemDir(t, root, "1111111", "all", "Good", 10)

	// Non-numeric directory name.
	writeItemDir(t, root, "notanid", "all", "Bad", 10)

	// Malformed descriptor.
	dir := filepath.Join(root, "2222222")
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, MetaFileName), []byte("{nope"), 0644)

	// Missing video file.
	writeItemDir(t, root, "3333333", "all", "NoVideo", 10)
	os.Remove(filepath.Join(root, "3333333", "video.mp4"))

	// Wrong media type.
	dir = filepath.Join(root, "4444444")
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, MetaFileName),
		[]byte(`{"title":"x","preview":"p.gif","video":"v.mp4","type":"image"}`), 0644)

	index := Scan(root)
	if len(index) != 1 {
		t.Fatalf("expected only the valid item, got %d entries", len(index))
	}
	if _, ok := index["1111111"]; !ok {
		t.Error("valid item was dropped")
	}
}

func TestScan_MissingRootYieldsEmptyIndex(t *testing.T) {
	index := Scan(filepath.Join(t.TempDir(), "does-not-exist"))
	if len(index) != 0 {
		t.Fatalf("expected empty index, got %d entries", len(index))
	}
}

func TestScan_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeItemDir(t, root, "1234567", "all", "A", 10)
	writeItemDir(t, root, "2345678", "r18", "B", 20)

	first := Scan(root)
	second := Scan(root)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("scanning an unchanged tree twice differed:\n%v\n%v", first, second)
	}
}

func TestItemTitle_FallsBackToID(t *testing.T) {
	root := t.TempDir()
	writeItemDir(t, root, "1234567", "all", "", 10)

	index := Scan(root)
	if got, want := index["1234567"].Title, "1234567"; got != want {
		t.Errorf("title: got %q, want %q", got, want)
	}
}
