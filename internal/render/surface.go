// Package render draws viewer frames onto a drawing surface and drives the
// redraw loop.
package render

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/math/f64"
)

// Surface is a drawing target with a canvas-style current transform.
// Resize discards the content and resets the transform to identity.
type Surface interface {
	Resize(width, height int)
	Clear()
	// Concat composes m onto the current transform; m applies to image
	// coordinates first.
	Concat(m f64.Aff3)
	// DrawImage draws img with its top-left corner at (x, y) in the
	// current coordinate system, at its intrinsic size.
	DrawImage(img image.Image, x, y float64)
	EncodeSnapshot(w io.Writer, format SnapshotFormat) error
}

// SnapshotFormat selects the encoding of captured frames.
type SnapshotFormat int

const (
	JPEG SnapshotFormat = iota
	PNG
)

// DefaultJPEGQuality is used when a surface has no explicit quality.
const DefaultJPEGQuality = 92

func (f SnapshotFormat) String() string {
	switch f {
	case JPEG:
		return "jpeg"
	case PNG:
		return "png"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// Extension returns the usual file extension, including the dot.
func (f SnapshotFormat) Extension() string {
	if f == PNG {
		return ".png"
	}
	return ".jpg"
}

// ParseSnapshotFormat accepts jpeg, jpg or png.
func ParseSnapshotFormat(s string) (SnapshotFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpeg", "jpg":
		return JPEG, nil
	case "png":
		return PNG, nil
	}
	return 0, fmt.Errorf("unknown snapshot format %q", s)
}

// Encode writes img in the given format. Quality only applies to JPEG;
// values outside 1..100 fall back to DefaultJPEGQuality.
func Encode(w io.Writer, img image.Image, format SnapshotFormat, quality int) error {
	switch format {
	case JPEG:
		if quality < 1 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("encoding jpeg snapshot: %w", err)
		}
		return nil
	case PNG:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("encoding png snapshot: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown snapshot format %v", format)
}
