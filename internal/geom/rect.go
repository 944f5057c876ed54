package geom

import "math"

// Rect is an axis-aligned rectangle described by its top-left corner and size.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromEdges builds a rectangle from its four edge coordinates. The result
// is not normalized.
func RectFromEdges(left, top, right, bottom float64) Rect {
	return Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

func (r Rect) Right() float64  { return r.Left + r.Width }
func (r Rect) Bottom() float64 { return r.Top + r.Height }

func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

func (r Rect) TopLeft() Point {
	return Point{X: r.Left, Y: r.Top}
}

// Normalized swaps edges so width and height are non-negative.
func (r Rect) Normalized() Rect {
	left, right := math.Min(r.Left, r.Right()), math.Max(r.Left, r.Right())
	top, bottom := math.Min(r.Top, r.Bottom()), math.Max(r.Top, r.Bottom())
	return RectFromEdges(left, top, right, bottom)
}

func (r Rect) Translate(d Point) Rect {
	r.Left += d.X
	r.Top += d.Y
	return r
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right() && p.Y >= r.Top && p.Y <= r.Bottom()
}

// Clamp returns the point of r closest to p.
func (r Rect) Clamp(p Point) Point {
	return Point{
		X: math.Min(math.Max(p.X, r.Left), r.Right()),
		Y: math.Min(math.Max(p.Y, r.Top), r.Bottom()),
	}
}

func (r Rect) IsFinite() bool {
	return r.TopLeft().IsFinite() && Pt(r.Width, r.Height).IsFinite()
}
