package geometry

import "fmt"

// Point is an offset or position in canvas pixels.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Size is a width and height. Image sizes are integral but kept as float64
// so the fitting math needs no conversions.
type Size struct {
	W, H float64
}

// SizeOf builds a Size from integer pixel dimensions.
func SizeOf(w, h int) Size {
	return Size{W: float64(w), H: float64(h)}
}

// Empty reports whether either dimension is zero or negative.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// Aspect returns W/H, or 0 for an empty size.
func (s Size) Aspect() float64 {
	if s.Empty() {
		return 0
	}
	return s.W / s.H
}

// Center returns the midpoint of a box of this size anchored at the origin.
func (s Size) Center() Point {
	return Point{X: s.W / 2, Y: s.H / 2}
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.W, s.H)
}
