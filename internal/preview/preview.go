// Package preview owns the heavyweight per-tile resource: the decoded
// animated preview. A preview is acquired when its tile becomes
// visible and released when it is hidden, so that the number of
// decoded buffers is bounded by the visible page, and no OS file
// handle outlives the acquire call itself.
package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"os"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/clipgrid/clipgrid/internal/logging"
)

// Preview is the decoded animation for one visible tile, backed
// entirely by in-memory buffers. Frames are pre-composited to full
// logical frames at decode time and letterboxed into a square at the
// current tile edge; Rescale regenerates the square frames from the
// retained composites without touching the file again.
type Preview struct {
	path        string
	placeholder bool

	native []*image.RGBA
	delays []time.Duration

	scaled []*image.RGBA
	edge   int
}

// decode reads the preview file fully into memory, closes it, and
// decodes the animation from the in-memory stream. Any failure
// degrades to a placeholder; decode errors are never surfaced.
func decode(path string, edge int) *Preview {
	data, err := os.ReadFile(path)
	if err != nil {
		logging.Debug("preview: read %s: %v", path, err)
		return placeholderPreview(path, edge)
	}

	anim, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil || len(anim.Image) == 0 {
		logging.Debug("preview: decode %s: %v", path, err)
		return placeholderPreview(path, edge)
	}

	p := &Preview{path: path}
	p.native, p.delays = composite(anim)
	p.Rescale(edge)
	return p
}

// composite flattens the GIF's incremental frames into full RGBA
// frames, honoring per-frame disposal.
func composite(anim *gif.GIF) ([]*image.RGBA, []time.Duration) {
	bounds := image.Rect(0, 0, anim.Config.Width, anim.Config.Height)
	if bounds.Empty() {
		bounds = anim.Image[0].Bounds()
	}

	canvas := image.NewRGBA(bounds)
	frames := make([]*image.RGBA, 0, len(anim.Image))
	delays := make([]time.Duration, 0, len(anim.Image))

	for i, src := range anim.Image {
		var before *image.RGBA
		if disposal(anim, i) == gif.DisposalPrevious {
			before = cloneRGBA(canvas)
		}

		draw.Draw(canvas, src.Bounds(), src, src.Bounds().Min, draw.Over)
		frames = append(frames, cloneRGBA(canvas))
		delays = append(delays, frameDelay(anim, i))

		switch disposal(anim, i) {
		case gif.DisposalBackground:
			draw.Draw(canvas, src.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = before
		}
	}
	return frames, delays
}

func disposal(anim *gif.GIF, i int) byte {
	if i < len(anim.Disposal) {
		return anim.Disposal[i]
	}
	return gif.DisposalNone
}

func frameDelay(anim *gif.GIF, i int) time.Duration {
	// GIF delays are hundredths of a second; zero means "as fast as
	// possible", which every renderer clamps to something sane.
	d := 0
	if i < len(anim.Delay) {
		d = anim.Delay[i]
	}
	if d <= 0 {
		d = 10
	}
	return time.Duration(d) * 10 * time.Millisecond
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

func placeholderPreview(path string, edge int) *Preview {
	p := &Preview{path: path, placeholder: true}
	p.Rescale(edge)
	return p
}

// Rescale regenerates the square display frames for a new tile edge
// in place. The retained composites are the scale source, so no
// acquire/release cycle and no file access happens on resize.
func (p *Preview) Rescale(edge int) {
	if edge < 1 {
		edge = 1
	}
	if p.edge == edge && p.scaled != nil {
		return
	}
	p.edge = edge

	if p.placeholder || len(p.native) == 0 {
		p.scaled = []*image.RGBA{placeholderFrame(edge)}
		return
	}

	scaled := make([]*image.RGBA, len(p.native))
	for i, frame := range p.native {
		scaled[i] = letterbox(frame, edge)
	}
	p.scaled = scaled
}

// letterbox scales src to fit a black edge×edge square, preserving
// aspect ratio and centering, using the same approximate bilinear
// scaler the thumbnails of the visible page can afford.
func letterbox(src *image.RGBA, edge int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, edge, edge))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{image.Black}, image.Point{}, draw.Src)

	srcW := src.Bounds().Dx()
	srcH := src.Bounds().Dy()
	if srcW == 0 || srcH == 0 {
		return dst
	}

	var scaledW, scaledH int
	if srcW >= srcH {
		scaledW = edge
		scaledH = edge * srcH / srcW
	} else {
		scaledH = edge
		scaledW = edge * srcW / srcH
	}
	if scaledW < 1 {
		scaledW = 1
	}
	if scaledH < 1 {
		scaledH = 1
	}

	x := (edge - scaledW) / 2
	y := (edge - scaledH) / 2
	target := image.Rect(x, y, x+scaledW, y+scaledH)
	xdraw.ApproxBiLinear.Scale(dst, target, src, src.Bounds(), xdraw.Over, nil)
	return dst
}

func placeholderFrame(edge int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, edge, edge))
	gray := color.RGBA{R: 0x2e, G: 0x2e, B: 0x2e, A: 0xff}
	draw.Draw(dst, dst.Bounds(), &image.Uniform{gray}, image.Point{}, draw.Src)
	return dst
}

// Path returns the preview file this was decoded from.
func (p *Preview) Path() string {
	return p.path
}

// Placeholder reports whether decoding failed and a static
// placeholder frame is shown instead.
func (p *Preview) Placeholder() bool {
	return p.placeholder
}

// FrameCount returns the number of display frames (at least one).
func (p *Preview) FrameCount() int {
	return len(p.scaled)
}

// Frame returns the display frame at index i.
func (p *Preview) Frame(i int) image.Image {
	if i < 0 || i >= len(p.scaled) {
		return nil
	}
	return p.scaled[i]
}

// Delay returns how long frame i is shown.
func (p *Preview) Delay(i int) time.Duration {
	if i < 0 || i >= len(p.delays) {
		return 100 * time.Millisecond
	}
	return p.delays[i]
}

// Edge returns the current square frame edge.
func (p *Preview) Edge() int {
	return p.edge
}

func (p *Preview) drop() {
	p.native = nil
	p.scaled = nil
	p.delays = nil
}
