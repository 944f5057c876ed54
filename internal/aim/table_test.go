package aim

import (
	"testing"

	"github.com/playpool/aimline/internal/geom"
)

func TestPocketCentersOrderAndBoundary(t *testing.T) {
	rects := []geom.Rect{
		{Left: 0, Top: 0, Width: 1000, Height: 500},
		{Left: 34, Top: 171, Width: 1133, Height: 569},
		{Left: 10.5, Top: 20.25, Width: 120, Height: 80},
	}
	for _, r := range rects {
		p := PocketCenters(r)
		want := [NumPockets]geom.Point{
			{X: r.Left, Y: r.Top},
			{X: r.Left + r.Width/2, Y: r.Top},
			{X: r.Right(), Y: r.Top},
			{X: r.Left, Y: r.Bottom()},
			{X: r.Left + r.Width/2, Y: r.Bottom()},
			{X: r.Right(), Y: r.Bottom()},
		}
		if p != want {
			t.Errorf("PocketCenters(%+v) = %v, want %v", r, p, want)
		}
		for i, c := range p {
			onVertical := c.X == r.Left || c.X == r.Right()
			onHorizontal := c.Y == r.Top || c.Y == r.Bottom()
			if !onHorizontal || !(onVertical || i == PocketTopMid || i == PocketBottomMid) {
				t.Errorf("pocket %d at %v is not on the boundary of %+v", i, c, r)
			}
		}
	}
}

func TestResizeKeepsMinimumSize(t *testing.T) {
	surface := DefaultSurface()
	rects := []geom.Rect{
		DefaultTable(),
		{Left: 100, Top: 100, Width: 120, Height: 80},
		{Left: 500, Top: 300, Width: 400, Height: 200},
	}
	targets := []geom.Point{
		{X: 0, Y: 0}, {X: 1200, Y: 800}, {X: -500, Y: 2000},
		{X: 600, Y: 400}, {X: 101, Y: 101}, {X: 950, Y: 310},
	}
	for _, r := range rects {
		for g := Grip(0); g < NumGrips; g++ {
			for _, p := range targets {
				got := Resize(r, g, p, surface)
				if got.Width < MinTableWidth || got.Height < MinTableHeight {
					t.Errorf("Resize(%+v, %s, %v) = %+v, below minimum size", r, g, p, got)
				}
				if got.Width < 0 || got.Height < 0 {
					t.Errorf("Resize(%+v, %s, %v) = %+v, not normalized", r, g, p, got)
				}
			}
		}
	}
}

func TestResizeCornerAnchorsOppositeCorner(t *testing.T) {
	r := geom.Rect{Left: 100, Top: 100, Width: 400, Height: 300}
	got := Resize(r, GripTopLeft, geom.Pt(50, 60), DefaultSurface())
	want := geom.Rect{Left: 50, Top: 60, Width: 450, Height: 340}
	if got != want {
		t.Errorf("Resize TL = %+v, want %+v", got, want)
	}

	// Dragging the top-left grip past the bottom-right corner flips the rect.
	got = Resize(r, GripTopLeft, geom.Pt(700, 600), DefaultSurface())
	want = geom.Rect{Left: 500, Top: 400, Width: 200, Height: 200}
	if got != want {
		t.Errorf("Resize TL past BR = %+v, want %+v", got, want)
	}
}

func TestResizeClampsToSurface(t *testing.T) {
	r := geom.Rect{Left: 100, Top: 100, Width: 400, Height: 300}
	got := Resize(r, GripMidRight, geom.Pt(5000, 250), DefaultSurface())
	if got.Right() != DefaultSurfaceWidth {
		t.Errorf("right edge = %.2f, want %.2f", got.Right(), DefaultSurfaceWidth)
	}
	if got.Top != r.Top || got.Height != r.Height {
		t.Errorf("edge grip changed the other axis: %+v", got)
	}
}

func TestResizeStaysInsideSurface(t *testing.T) {
	surface := DefaultSurface()
	r := DefaultTable()

	got := Resize(r, GripMidLeft, geom.Pt(surface.Width, r.Center().Y), surface)
	if got.Right() > surface.Width || got.Width < MinTableWidth {
		t.Errorf("left grip at the right edge: %+v", got)
	}
	got = Resize(r, GripTopMid, geom.Pt(r.Center().X, surface.Height), surface)
	if got.Bottom() > surface.Height || got.Height < MinTableHeight {
		t.Errorf("top grip at the bottom edge: %+v", got)
	}

	targets := []geom.Point{{X: 0, Y: 0}, {X: 1200, Y: 800}, {X: 1190, Y: 795}, {X: 5000, Y: -300}}
	for g := Grip(0); g < NumGrips; g++ {
		for _, p := range targets {
			got := Resize(r, g, p, surface)
			if got.Left < 0 || got.Top < 0 || got.Right() > surface.Width || got.Bottom() > surface.Height {
				t.Errorf("Resize(%s, %v) = %+v, outside %gx%g", g, p, got, surface.Width, surface.Height)
			}
		}
	}
}

func TestTranslateClampsInsideSurface(t *testing.T) {
	r := geom.Rect{Left: 100, Top: 100, Width: 400, Height: 300}
	s := DefaultSurface()

	moved, applied := Translate(r, geom.Pt(-200, 50), s)
	if moved.Left != 0 || moved.Top != 150 {
		t.Errorf("moved = %+v, want left=0 top=150", moved)
	}
	if applied != geom.Pt(-100, 50) {
		t.Errorf("applied = %v, want (-100, 50)", applied)
	}

	moved, applied = Translate(r, geom.Pt(1000, 1000), s)
	if moved.Right() != s.Width || moved.Bottom() != s.Height {
		t.Errorf("moved = %+v, want flush with bottom-right of surface", moved)
	}
	if applied != geom.Pt(700, 400) {
		t.Errorf("applied = %v, want (700, 400)", applied)
	}
}

func TestTableDragPreservesPointOffsets(t *testing.T) {
	s := NewState(DefaultSurface(), DefaultTuning())
	s.Table = geom.Rect{Left: 100, Top: 100, Width: 400, Height: 300}
	s.P1 = geom.Pt(150, 200)
	s.P2 = geom.Pt(450, 200)
	s.Marker = geom.Pt(300, 300)

	before := [3]geom.Point{s.P1.Minus(s.Table.TopLeft()), s.P2.Minus(s.Table.TopLeft()), s.Marker.Minus(s.Table.TopLeft())}

	s, _ = Replay(s,
		PointerPressed{At: geom.Pt(200, 350)},
		PointerMoved{At: geom.Pt(-100, 400)},
		PointerReleased{At: geom.Pt(-100, 400)},
	)

	if s.Table.Left != 0 || s.Table.Top != 150 {
		t.Fatalf("table = %+v, want left=0 top=150", s.Table)
	}
	after := [3]geom.Point{s.P1.Minus(s.Table.TopLeft()), s.P2.Minus(s.Table.TopLeft()), s.Marker.Minus(s.Table.TopLeft())}
	if before != after {
		t.Errorf("relative offsets changed: before=%v after=%v", before, after)
	}
	if s.Drag != nil {
		t.Errorf("drag still active after release: %v", s.Drag)
	}
}
