// Package geometry is the pure 2D kernel used by the metrics extractor.
// Screen space: origin top-left, y grows downward.
package geometry

import (
	"fmt"
	"math"
)

// degenerateEpsilon is the squared length below which a vector is treated as zero.
const degenerateEpsilon = 1e-18

// Point is a 2D coordinate.
type Point struct {
	X float64
	Y float64
}

// Offset returns p translated by (dx, dy).
func (p Point) Offset(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Midpoint returns the arithmetic mean of a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// AngleAtVertex returns the angle at b formed by b->a and b->c, in [0,180].
// Coincident points yield NaN; use CheckVertex first.
func AngleAtVertex(a, b, c Point) float64 {
	radians := math.Atan2(c.Y-b.Y, c.X-b.X) - math.Atan2(a.Y-b.Y, a.X-b.X)
	angle := math.Abs(radians * 180 / math.Pi)
	if angle > 180 {
		angle = 360 - angle
	}
	if isZero(a, b) || isZero(c, b) {
		return math.NaN()
	}
	return angle
}

// AngleFromVertical returns the signed angle of the segment bottom->top from
// vertical. A vertical segment reads 0; leaning right is positive.
func AngleFromVertical(top, bottom Point) float64 {
	dx := top.X - bottom.X
	dy := bottom.Y - top.Y
	return math.Atan2(dx, dy) * 180 / math.Pi
}

// Distance is the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// CheckVertex returns ErrDegenerateGeometry when either arm of the angle at b
// has zero length.
func CheckVertex(a, b, c Point) error {
	if isZero(a, b) || isZero(c, b) {
		return fmt.Errorf("%w: vertex (%.4f,%.4f)", ErrDegenerateGeometry, b.X, b.Y)
	}
	return nil
}

func isZero(p, q Point) bool {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx+dy*dy < degenerateEpsilon
}
