package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a 2D coordinate in overlay space. Values are immutable; every
// operation returns a new Point.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

func fromVec(v r2.Vec) Point {
	return Point{X: v.X, Y: v.Y}
}

func (p Point) Plus(o Point) Point {
	return fromVec(r2.Add(p.vec(), o.vec()))
}

func (p Point) Minus(o Point) Point {
	return fromVec(r2.Sub(p.vec(), o.vec()))
}

func (p Point) Times(s float64) Point {
	return fromVec(r2.Scale(s, p.vec()))
}

func (p Point) Dot(o Point) float64 {
	return r2.Dot(p.vec(), o.vec())
}

func (p Point) Magnitude() float64 {
	return r2.Norm(p.vec())
}

// Normalize returns the unit vector in p's direction, or the zero point when
// p has no length.
func (p Point) Normalize() Point {
	if p.IsZero() {
		return Point{}
	}
	return fromVec(r2.Unit(p.vec()))
}

func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// IsFinite reports whether both coordinates are real numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Nearest returns the index of the candidate closest to p and its distance.
// Ties keep the earliest candidate. It returns -1 for an empty slice.
func Nearest(p Point, candidates []Point) (int, float64) {
	best, bestD := -1, math.Inf(1)
	for i, c := range candidates {
		if d := Dist(p, c); d < bestD {
			best, bestD = i, d
		}
	}
	return best, bestD
}
