package geometry

import (
	"math"

	"golang.org/x/image/math/f64"
)

// The affine helpers use the f64.Aff3 layout from golang.org/x/image:
//
//	x' = m[0]*x + m[1]*y + m[2]
//	y' = m[3]*x + m[4]*y + m[5]

// Identity returns the identity transform.
func Identity() f64.Aff3 {
	return f64.Aff3{1, 0, 0, 0, 1, 0}
}

// Translation returns a transform that shifts by (tx, ty).
func Translation(tx, ty float64) f64.Aff3 {
	return f64.Aff3{1, 0, tx, 0, 1, ty}
}

// Scaling returns a uniform scale about the origin.
func Scaling(s float64) f64.Aff3 {
	return f64.Aff3{s, 0, 0, 0, s, 0}
}

// Rotation returns a rotation by theta radians about the origin. With the
// y axis pointing down, positive angles turn clockwise on screen.
func Rotation(theta float64) f64.Aff3 {
	sin, cos := math.Sincos(theta)
	return f64.Aff3{cos, -sin, 0, sin, cos, 0}
}

// Mul returns a*b: the transform that applies b first, then a.
func Mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

// Apply maps p through m.
func Apply(m f64.Aff3, p Point) Point {
	return Point{
		X: m[0]*p.X + m[1]*p.Y + m[2],
		Y: m[3]*p.X + m[4]*p.Y + m[5],
	}
}

// Transform composes the render transform for an image centered on its own
// origin: translate to canvas center plus pan, scale by zoom times the fit
// scale, then rotate. Translating first keeps pan in canvas pixels.
func Transform(p Params, pan Point) (f64.Aff3, error) {
	scale, err := FitScale(p)
	if err != nil {
		return f64.Aff3{}, err
	}
	c := p.Canvas.Center().Add(pan)
	m := Translation(c.X, c.Y)
	m = Mul(m, Scaling(p.Zoom*scale))
	m = Mul(m, Rotation(Angle(p.Rotation)))
	return m, nil
}
