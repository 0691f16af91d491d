// internal/humanoid/vector.go
package humanoid

import "math"

// Point represents a position or vector in screen space. Coordinates stay
// real-valued throughout the engine; conversion to integer pixels happens
// only in AccumulateDeltas.
type Point struct {
	// X is the horizontal component.
	X float64 `json:"x"`
	// Y is the vertical component.
	Y float64 `json:"y"`
}

// Add performs vector addition, returning `p + other`.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub performs vector subtraction, returning `p - other`.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Mul performs scalar multiplication, returning `p * scalar`.
func (p Point) Mul(scalar float64) Point {
	return Point{X: p.X * scalar, Y: p.Y * scalar}
}

// Dot calculates the dot product of `p` and `other`.
func (p Point) Dot(other Point) float64 {
	return p.X*other.X + p.Y*other.Y
}

// Mag calculates the Euclidean length of the vector.
func (p Point) Mag() float64 {
	// math.Hypot is stable for very large or small components.
	return math.Hypot(p.X, p.Y)
}

// Normalize returns a unit vector with the same direction as `p`, or the zero
// vector when `p` has (near) zero length.
func (p Point) Normalize() Point {
	mag := p.Mag()
	if mag < 1e-9 {
		return Point{}
	}
	return p.Mul(1.0 / mag)
}

// Perp returns `p` rotated by 90 degrees counter-clockwise.
func (p Point) Perp() Point {
	return Point{X: -p.Y, Y: p.X}
}

// Dist calculates the Euclidean distance between `p` and `other`.
func (p Point) Dist(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Lerp interpolates linearly from `p` (t=0) to `other` (t=1).
func (p Point) Lerp(other Point, t float64) Point {
	return Point{X: p.X + (other.X-p.X)*t, Y: p.Y + (other.Y-p.Y)*t}
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// distanceToLine returns the perpendicular distance from `p` to the infinite
// line through a and b. Degenerates to the distance to a when a == b.
func distanceToLine(p, a, b Point) float64 {
	d := b.Sub(a)
	length := d.Mag()
	if length < 1e-12 {
		return p.Dist(a)
	}
	return math.Abs(d.X*(a.Y-p.Y)-d.Y*(a.X-p.X)) / length
}
