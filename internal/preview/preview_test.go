package preview

import (
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeAnimatedGIF(t *testing.T, frames int, delays []int) string {
	t.Helper()

	palette := color.Palette{color.Black, color.White, color.RGBA{R: 255, A: 255}}
	anim := &gif.GIF{Config: image.Config{Width: 20, Height: 10}}
	for i := 0; i < frames; i++ {
		frame := image.NewPaletted(image.Rect(0, 0, 20, 10), palette)
		for x := 0; x < 20; x++ {
			frame.SetColorIndex(x, 5, uint8(1+i%2))
		}
		anim.Image = append(anim.Image, frame)
		delay := 10
		if i < len(delays) {
			delay = delays[i]
		}
		anim.Delay = append(anim.Delay, delay)
		anim.Disposal = append(anim.Disposal, gif.DisposalNone)
	}

	path := filepath.Join(t.TempDir(), "preview.gif")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create gif: %v", err)
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close gif: %v", err)
	}
	return path
}

func TestManager_AcquireRelease(t *testing.T) {
	m := NewManager()
	path := writeAnimatedGIF(t, 3, nil)

	p := m.Acquire(path, 64)
	if got, want := m.LiveCount(), 1; got != want {
		t.Fatalf("live count: got %d, want %d", got, want)
	}
	if p.Placeholder() {
		t.Fatal("valid animation decoded as placeholder")
	}
	if got, want := p.FrameCount(), 3; got != want {
		t.Errorf("frames: got %d, want %d", got, want)
	}
	if got := p.Frame(0).Bounds(); got.Dx() != 64 || got.Dy() != 64 {
		t.Errorf("frame bounds: got %v, want 64x64", got)
	}

	m.Release(p)
	if got := m.LiveCount(); got != 0 {
		t.Errorf("live count after release: got %d", got)
	}
}

func TestAcquire_DecodeFailureGivesPlaceholder(t *testing.T) {
	m := NewManager()
	path := filepath.Join(t.TempDir(), "broken.gif")
	os.WriteFile(path, []byte("not a gif"), 0644)

	p := m.Acquire(path, 48)
	if !p.Placeholder() {
		t.Fatal("expected placeholder for undecodable file")
	}
	if got, want := p.FrameCount(), 1; got != want {
		t.Errorf("placeholder frames: got %d, want %d", got, want)
	}
	if got := p.Frame(0).Bounds(); got.Dx() != 48 {
		t.Errorf("placeholder bounds: got %v", got)
	}

	// A missing file degrades the same way.
	p2 := m.Acquire(filepath.Join(t.TempDir(), "absent.gif"), 48)
	if !p2.Placeholder() {
		t.Fatal("expected placeholder for missing file")
	}
}

func TestRescale_DoesNotTouchTheFile(t *testing.T) {
	m := NewManager()
	path := writeAnimatedGIF(t, 2, nil)

	p := m.Acquire(path, 64)
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	// The decode retained no handle and rescaling re-reads nothing,
	// so a deleted file must not matter.
	p.Rescale(128)
	if got, want := p.FrameCount(), 2; got != want {
		t.Fatalf("frames after rescale: got %d, want %d", got, want)
	}
	if got := p.Frame(0).Bounds(); got.Dx() != 128 || got.Dy() != 128 {
		t.Errorf("rescaled bounds: got %v, want 128x128", got)
	}
}

func TestDelay_ZeroClamped(t *testing.T) {
	path := writeAnimatedGIF(t, 2, []int{0, 25})

	m := NewManager()
	p := m.Acquire(path, 32)
	if got, want := p.Delay(0), 100*time.Millisecond; got != want {
		t.Errorf("clamped delay: got %v, want %v", got, want)
	}
	if got, want := p.Delay(1), 250*time.Millisecond; got != want {
		t.Errorf("delay: got %v, want %v", got, want)
	}
}

func TestReleaseAll(t *testing.T) {
	m := NewManager()
	path := writeAnimatedGIF(t, 2, nil)
	for i := 0; i < 3; i++ {
		m.Acquire(path, 32)
	}
	if got, want := m.LiveCount(), 3; got != want {
		t.Fatalf("live count: got %d, want %d", got, want)
	}

	m.ReleaseAll()
	if got := m.LiveCount(); got != 0 {
		t.Errorf("live count after release all: got %d", got)
	}
}
