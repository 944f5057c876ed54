package aim

import (
	"math"

	"github.com/playpool/aimline/internal/geom"
)

// Pocket indices in the fixed order hotkeys rely on.
const (
	PocketTopLeft = iota
	PocketTopMid
	PocketTopRight
	PocketBottomLeft
	PocketBottomMid
	PocketBottomRight
	NumPockets
)

// Surface is the containing overlay area the table must stay inside.
type Surface struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func DefaultSurface() Surface {
	return Surface{Width: DefaultSurfaceWidth, Height: DefaultSurfaceHeight}
}

func (s Surface) Rect() geom.Rect {
	return geom.Rect{Width: s.Width, Height: s.Height}
}

// DefaultTable is the table rectangle a fresh overlay starts with.
func DefaultTable() geom.Rect {
	return geom.Rect{Left: 34, Top: 171, Width: 1133, Height: 569}
}

// PocketCenters returns the six pocket centers of r: the top row left to
// right, then the bottom row.
func PocketCenters(r geom.Rect) [NumPockets]geom.Point {
	cx := r.Center().X
	return [NumPockets]geom.Point{
		{X: r.Left, Y: r.Top},
		{X: cx, Y: r.Top},
		{X: r.Right(), Y: r.Top},
		{X: r.Left, Y: r.Bottom()},
		{X: cx, Y: r.Bottom()},
		{X: r.Right(), Y: r.Bottom()},
	}
}

// Grip identifies one of the eight resize handles on the table outline.
type Grip int

const (
	GripTopLeft Grip = iota
	GripTopMid
	GripTopRight
	GripMidLeft
	GripMidRight
	GripBottomLeft
	GripBottomMid
	GripBottomRight
	NumGrips
)

var gripNames = [NumGrips]string{"TL", "TM", "TR", "ML", "MR", "BL", "BM", "BR"}

func (g Grip) String() string {
	if g < 0 || g >= NumGrips {
		return "?"
	}
	return gripNames[g]
}

// GripPositions returns where each grip handle sits on r.
func GripPositions(r geom.Rect) [NumGrips]geom.Point {
	c := r.Center()
	return [NumGrips]geom.Point{
		{X: r.Left, Y: r.Top},
		{X: c.X, Y: r.Top},
		{X: r.Right(), Y: r.Top},
		{X: r.Left, Y: c.Y},
		{X: r.Right(), Y: c.Y},
		{X: r.Left, Y: r.Bottom()},
		{X: c.X, Y: r.Bottom()},
		{X: r.Right(), Y: r.Bottom()},
	}
}

// FitTable normalizes r and grows it to the minimum table size. Every table
// edit goes through here.
func FitTable(r geom.Rect) geom.Rect {
	r = r.Normalized()
	if r.Width < MinTableWidth {
		r.Width = MinTableWidth
	}
	if r.Height < MinTableHeight {
		r.Height = MinTableHeight
	}
	return r
}

// Resize moves the edge or corner owned by g to p, clamped to the surface.
// Corner grips keep the opposite corner anchored. When the minimum size
// pushes the table past the surface it slides back inside.
func Resize(r geom.Rect, g Grip, p geom.Point, s Surface) geom.Rect {
	p = s.Rect().Clamp(p)
	left, top, right, bottom := r.Left, r.Top, r.Right(), r.Bottom()
	switch g {
	case GripTopLeft:
		left, top = p.X, p.Y
	case GripTopMid:
		top = p.Y
	case GripTopRight:
		right, top = p.X, p.Y
	case GripMidLeft:
		left = p.X
	case GripMidRight:
		right = p.X
	case GripBottomLeft:
		left, bottom = p.X, p.Y
	case GripBottomMid:
		bottom = p.Y
	case GripBottomRight:
		right, bottom = p.X, p.Y
	default:
		return keepInside(FitTable(r), s)
	}
	return keepInside(FitTable(geom.RectFromEdges(left, top, right, bottom)), s)
}

func keepInside(r geom.Rect, s Surface) geom.Rect {
	if r.Right() > s.Width {
		r.Left = s.Width - r.Width
	}
	if r.Bottom() > s.Height {
		r.Top = s.Height - r.Height
	}
	if r.Left < 0 {
		r.Left = 0
	}
	if r.Top < 0 {
		r.Top = 0
	}
	return r
}

// Translate moves r by delta and then pushes it back inside the surface.
// It returns the moved rectangle and the delta actually applied, which
// callers add to every point that travels with the table.
func Translate(r geom.Rect, delta geom.Point, s Surface) (geom.Rect, geom.Point) {
	moved := r.Translate(delta)
	if moved.Left < 0 {
		moved.Left = 0
	}
	if moved.Top < 0 {
		moved.Top = 0
	}
	if moved.Right() > s.Width {
		moved.Left += s.Width - moved.Right()
	}
	if moved.Bottom() > s.Height {
		moved.Top += s.Height - moved.Bottom()
	}
	applied := geom.Pt(moved.Left-r.Left, moved.Top-r.Top)
	return moved, applied
}

// snapToPocket returns the nearest pocket when p is within threshold of it.
func snapToPocket(p geom.Point, pockets [NumPockets]geom.Point, threshold float64) geom.Point {
	i, d := geom.Nearest(p, pockets[:])
	if i >= 0 && d <= threshold {
		return pockets[i]
	}
	return p
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
