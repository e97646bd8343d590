package playlist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteM3U(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.m3u8")
	entries := []Entry{
		{Title: "First Clip", Path: "/lib/0000001/video.mp4"},
		{Title: "Multi\nLine", Path: "/lib/0000002/video.mp4"},
	}

	if err := WriteM3U(path, entries); err != nil {
		t.Fatalf("WriteM3U: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read playlist: %v", err)
	}
	want := "#EXTM3U\n" +
		"#EXTINF:-1,First Clip\n/lib/0000001/video.mp4\n" +
		"#EXTINF:-1,Multi Line\n/lib/0000002/video.mp4\n"
	if got := string(raw); got != want {
		t.Errorf("playlist content:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteM3U_EmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.m3u8")
	if err := WriteM3U(path, nil); err != nil {
		t.Fatalf("WriteM3U: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if got, want := string(raw), "#EXTM3U\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteM3U_BadTargetDir(t *testing.T) {
	if err := WriteM3U(filepath.Join(t.TempDir(), "missing", "out.m3u8"), nil); err == nil {
		t.Fatal("expected error writing into a missing directory")
	}
}
