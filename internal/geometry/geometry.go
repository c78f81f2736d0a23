// Package geometry computes how an image is fitted, rotated and panned inside
// a canvas. Every function is pure: results depend only on the arguments.
package geometry

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Mode is the fitting policy applied before zoom.
type Mode int

const (
	// Contain scales the image so it is fully visible inside the canvas.
	Contain Mode = iota
	// Cover scales the image so it fills the canvas, cropping the overflow.
	Cover
)

// String returns the lower-case name of the mode.
func (m Mode) String() string {
	switch m {
	case Contain:
		return "contain"
	case Cover:
		return "cover"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts "contain" or "cover" (case-insensitive) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "contain":
		return Contain, nil
	case "cover":
		return Cover, nil
	}
	return 0, fmt.Errorf("parse mode %q: %w", s, ErrInvalidMode)
}

// Validate returns an *InvalidModeError unless m is Contain or Cover.
func (m Mode) Validate() error {
	if m != Contain && m != Cover {
		return &InvalidModeError{Mode: m}
	}
	return nil
}

// ErrInvalidMode matches every InvalidModeError.
var ErrInvalidMode = errors.New("invalid content mode")

// InvalidModeError is returned when a fit scale is requested for a mode that
// is neither Contain nor Cover.
type InvalidModeError struct {
	Mode Mode
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid content mode specified: %d", int(e.Mode))
}

// Is reports whether target is ErrInvalidMode.
func (e *InvalidModeError) Is(target error) bool {
	return target == ErrInvalidMode
}

// Params bundles everything the fitting math depends on.
type Params struct {
	Canvas   Size
	Image    Size
	Rotation int
	Zoom     float64
	Mode     Mode
}

// QuarterTurns normalises a rotation index into [0, 4). Rotations turn
// counter-clockwise on screen.
func QuarterTurns(r int) int {
	return ((r % 4) + 4) % 4
}

// Angle returns the rotation in radians for a rotation index.
func Angle(rotation int) float64 {
	return float64(-QuarterTurns(rotation)) * math.Pi / 2
}

// IsRotatedOrthogonally reports whether the rotation swaps width and height.
func IsRotatedOrthogonally(rotation int) bool {
	return QuarterTurns(rotation)%2 != 0
}

// EffectiveSize returns the image size as seen after rotation.
func EffectiveSize(img Size, rotation int) Size {
	if IsRotatedOrthogonally(rotation) {
		return Size{W: img.H, H: img.W}
	}
	return img
}

// CanvasAspect is the canvas width over its height.
func CanvasAspect(canvas Size) float64 {
	return canvas.Aspect()
}

// ImageAspect is the aspect ratio of the rotated image.
func ImageAspect(img Size, rotation int) float64 {
	return EffectiveSize(img, rotation).Aspect()
}

// FitScale returns the scale that fits the rotated image into the canvas
// according to the mode. Zero-sized inputs give a scale of zero.
func FitScale(p Params) (float64, error) {
	if err := p.Mode.Validate(); err != nil {
		return 0, err
	}
	if p.Canvas.Empty() || p.Image.Empty() {
		return 0, nil
	}

	eff := EffectiveSize(p.Image, p.Rotation)
	canvasAspect := CanvasAspect(p.Canvas)
	imageAspect := eff.Aspect()

	byHeight := p.Canvas.H / eff.H
	byWidth := p.Canvas.W / eff.W

	if p.Mode == Contain {
		if canvasAspect >= imageAspect {
			return byHeight, nil
		}
		return byWidth, nil
	}
	if imageAspect >= canvasAspect {
		return byHeight, nil
	}
	return byWidth, nil
}

// ScaledSize is the on-canvas size of the rotated image after fit and zoom.
func ScaledSize(p Params) (Size, error) {
	scale, err := FitScale(p)
	if err != nil {
		return Size{}, err
	}
	eff := EffectiveSize(p.Image, p.Rotation)
	return Size{W: eff.W * p.Zoom * scale, H: eff.H * p.Zoom * scale}, nil
}

// MaxExtent returns the largest pan offset on each axis that keeps the image
// covering the canvas. It is half the overflow and never negative.
func MaxExtent(p Params) (Point, error) {
	scaled, err := ScaledSize(p)
	if err != nil {
		return Point{}, err
	}
	return Point{
		X: math.Max(0, scaled.W-p.Canvas.W) / 2,
		Y: math.Max(0, scaled.H-p.Canvas.H) / 2,
	}, nil
}

// ClampPan limits each axis of candidate to [-extent, extent]. The axes are
// clamped independently, so both corners of the rectangle are reachable.
func ClampPan(p Params, candidate Point) (Point, error) {
	ext, err := MaxExtent(p)
	if err != nil {
		return Point{}, err
	}
	return Point{
		X: clamp(candidate.X, -ext.X, ext.X),
		Y: clamp(candidate.Y, -ext.Y, ext.Y),
	}, nil
}

// clamp restricts a value to a given range.
func clamp(value, min, max float64) float64 {
	if value <= min {
		return min
	}
	if value >= max {
		return max
	}
	return value
}
