package render

import (
	"image"
	"image/color"
	"io"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/zen-web-components/photo-viewer/internal/geometry"
)

// Raster is a software Surface backed by an *image.RGBA. It needs no window
// and is used for headless snapshots.
type Raster struct {
	img *image.RGBA
	ctm f64.Aff3

	// Background fills the surface on Clear. Defaults to opaque black.
	Background color.Color
	// Interpolator resamples images in DrawImage. Defaults to
	// draw.ApproxBiLinear.
	Interpolator draw.Interpolator
	// Quality is the JPEG quality for EncodeSnapshot.
	Quality int
}

// NewRaster returns an empty surface; call Resize before drawing.
func NewRaster() *Raster {
	return &Raster{
		img:          image.NewRGBA(image.Rectangle{}),
		ctm:          geometry.Identity(),
		Background:   color.Black,
		Interpolator: draw.ApproxBiLinear,
		Quality:      DefaultJPEGQuality,
	}
}

// Resize reallocates the backing image when the size changes, resets the
// transform and clears.
func (r *Raster) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if b := r.img.Bounds(); b.Dx() != width || b.Dy() != height {
		r.img = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	r.ctm = geometry.Identity()
	r.Clear()
}

func (r *Raster) Clear() {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(r.Background), image.Point{}, draw.Src)
}

func (r *Raster) Concat(m f64.Aff3) {
	r.ctm = geometry.Mul(r.ctm, m)
}

// DrawImage composites img over the surface through the current transform.
func (r *Raster) DrawImage(img image.Image, x, y float64) {
	b := img.Bounds()
	s2d := geometry.Mul(r.ctm, geometry.Translation(x-float64(b.Min.X), y-float64(b.Min.Y)))
	r.Interpolator.Transform(r.img, s2d, img, b, draw.Over, nil)
}

func (r *Raster) EncodeSnapshot(w io.Writer, format SnapshotFormat) error {
	return Encode(w, r.img, format, r.Quality)
}
