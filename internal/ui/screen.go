package ui

import (
	"errors"
	"image"
	"image/color"
	"io"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/math/f64"

	"github.com/zen-web-components/photo-viewer/internal/geometry"
	"github.com/zen-web-components/photo-viewer/internal/render"
)

var errUnbound = errors.New("screen surface has no target")

// Screen is a render.Surface drawing onto the ebiten screen image handed to
// Game.Draw. Bind must be called at the start of every frame.
type Screen struct {
	screen *ebiten.Image
	target *ebiten.Image
	ctm    f64.Aff3

	// The decoded image is uploaded once and kept until a different image
	// is drawn. The replaced texture is released on the next frame, after
	// the GPU is done with it.
	source            image.Image
	texture           *ebiten.Image
	imageToDeallocate *ebiten.Image

	// Background fills the surface on Clear.
	Background color.Color
	// Quality is the JPEG quality for EncodeSnapshot.
	Quality int
}

// NewScreen returns an unbound screen surface.
func NewScreen() *Screen {
	return &Screen{
		ctm:        geometry.Identity(),
		Background: color.Black,
		Quality:    render.DefaultJPEGQuality,
	}
}

// Bind sets the image drawn to during the current frame and releases the
// texture replaced during the previous one.
func (s *Screen) Bind(screen *ebiten.Image) {
	if s.imageToDeallocate != nil {
		s.imageToDeallocate.Deallocate()
		s.imageToDeallocate = nil
	}
	s.screen = screen
	s.target = screen
	s.ctm = geometry.Identity()
}

// Resize limits drawing to the top-left width x height pixels of the bound
// screen and resets the transform. The screen itself is sized by
// Game.Layout.
func (s *Screen) Resize(width, height int) {
	s.ctm = geometry.Identity()
	if s.screen == nil {
		return
	}
	r := image.Rect(0, 0, max(width, 0), max(height, 0)).Intersect(s.screen.Bounds())
	s.target = s.screen.SubImage(r).(*ebiten.Image)
}

func (s *Screen) Clear() {
	if s.target != nil {
		s.target.Fill(s.Background)
	}
}

func (s *Screen) Concat(m f64.Aff3) {
	s.ctm = geometry.Mul(s.ctm, m)
}

// DrawImage draws img through the current transform with linear filtering.
func (s *Screen) DrawImage(img image.Image, x, y float64) {
	if s.target == nil {
		return
	}
	tex := s.textureFor(img)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM(geometry.Mul(s.ctm, geometry.Translation(x, y)))
	op.Filter = ebiten.FilterLinear
	s.target.DrawImage(tex, op)
}

func (s *Screen) textureFor(img image.Image) *ebiten.Image {
	if e, ok := img.(*ebiten.Image); ok {
		return e
	}
	if s.texture != nil && s.source == img {
		return s.texture
	}
	if s.texture != nil {
		s.imageToDeallocate = s.texture
	}
	s.source = img
	s.texture = ebiten.NewImageFromImage(img)
	return s.texture
}

// EncodeSnapshot reads back the drawn region and encodes it.
func (s *Screen) EncodeSnapshot(w io.Writer, format render.SnapshotFormat) error {
	if s.target == nil {
		return errUnbound
	}
	b := s.target.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	s.target.ReadPixels(rgba.Pix)
	return render.Encode(w, rgba, format, s.Quality)
}

// Release frees the cached texture. The surface stays usable.
func (s *Screen) Release() {
	for _, img := range []*ebiten.Image{s.texture, s.imageToDeallocate} {
		if img != nil {
			img.Deallocate()
		}
	}
	s.texture, s.imageToDeallocate, s.source = nil, nil, nil
}

// geoM converts an affine transform to ebiten's matrix.
func geoM(m f64.Aff3) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(0, 1, m[1])
	g.SetElement(0, 2, m[2])
	g.SetElement(1, 0, m[3])
	g.SetElement(1, 1, m[4])
	g.SetElement(1, 2, m[5])
	return g
}
