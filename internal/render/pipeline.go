package render

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/zen-web-components/photo-viewer/internal/geometry"
)

// Frame is the input of one draw call.
type Frame struct {
	Params geometry.Params
	Pan    geometry.Point
	Loaded bool
	Image  image.Image
}

// Reporter hands out the pending-change flag, clearing it.
type Reporter interface {
	TakeDirtyAndClear() bool
}

// CaptureFunc receives an encoded snapshot of a frame.
type CaptureFunc func(snapshot []byte)

// Pipeline draws frames onto a Surface.
type Pipeline struct {
	surface Surface

	// OnCapture, when set, receives a snapshot of every frame drawn while
	// the image is loaded and the reporter has a pending change.
	OnCapture CaptureFunc
	// Format is the snapshot encoding. Defaults to JPEG.
	Format SnapshotFormat
}

// NewPipeline returns a pipeline drawing onto s.
func NewPipeline(s Surface) *Pipeline {
	return &Pipeline{surface: s, Format: JPEG}
}

// Draw renders f. The surface is always resized and cleared, so a frame
// without a loaded image is blank. Resizing comes first because it
// discards whatever the surface held.
func (p *Pipeline) Draw(f Frame, report Reporter) error {
	canvas := f.Params.Canvas
	p.surface.Resize(int(math.Round(canvas.W)), int(math.Round(canvas.H)))
	p.surface.Clear()

	if !f.Loaded || f.Image == nil {
		return nil
	}

	m, err := geometry.Transform(f.Params, f.Pan)
	if err != nil {
		return fmt.Errorf("draw frame: %w", err)
	}
	// A zero fit scale leaves nothing to draw.
	if !canvas.Empty() && !f.Params.Image.Empty() {
		p.surface.Concat(m)
		p.surface.DrawImage(f.Image, -f.Params.Image.W/2, -f.Params.Image.H/2)
	}

	if p.OnCapture == nil || report == nil || !report.TakeDirtyAndClear() {
		return nil
	}
	var buf bytes.Buffer
	if err := p.surface.EncodeSnapshot(&buf, p.Format); err != nil {
		return fmt.Errorf("capture frame: %w", err)
	}
	p.OnCapture(buf.Bytes())
	return nil
}
