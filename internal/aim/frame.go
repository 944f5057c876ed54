package aim

import (
	"math"

	"github.com/playpool/aimline/internal/geom"
)

// LineKind tells a renderer which overlay feature a line belongs to.
type LineKind string

const (
	LinePocket   LineKind = "pocket"
	LineAim      LineKind = "aim"
	LineBankLead LineKind = "bank_lead"
	LineBank     LineKind = "bank"
)

// Line is one drawn segment.
type Line struct {
	Kind      LineKind     `json:"kind"`
	Segment   geom.Segment `json:"segment"`
	Thickness float64      `json:"thickness"`
}

// Ring is a hollow circle.
type Ring struct {
	Center geom.Point `json:"center"`
	Radius float64    `json:"radius"`
}

// RenderModel is everything a renderer needs to draw one frame. It holds no
// references into the session state.
type RenderModel struct {
	Table        geom.Rect              `json:"table"`
	CornerRadius float64                `json:"corner_radius"`
	Pockets      [NumPockets]geom.Point `json:"pockets"`
	PocketRadius float64                `json:"pocket_radius"`
	Lines        []Line                 `json:"lines"`
	Marker       *Ring                  `json:"marker,omitempty"`
	Highlight    *Ring                  `json:"highlight,omitempty"`
	Handles      [2]Ring                `json:"handles"`
	Grips        []geom.Point           `json:"grips,omitempty"`
	GripSize     float64                `json:"grip_size"`
	Color        RGBA                   `json:"color"`
	Opacity      float64                `json:"opacity"`
	Locked       bool                   `json:"locked"`
	Carrying     string                 `json:"carrying,omitempty"`
	Dragging     string                 `json:"dragging,omitempty"`
	LastTarget   string                 `json:"last_target"`
}

// Frame computes the render model for s. The only state it advances is the
// snap lock on the final bank endpoint, which is why it returns the State.
func Frame(s State) (State, RenderModel) {
	v := s.Visuals
	pockets := s.Pockets()
	thickness := float64(v.LineThickness)

	m := RenderModel{
		Table:        s.Table,
		CornerRadius: CornerRadius,
		Pockets:      pockets,
		PocketRadius: s.Tuning.PocketRadius,
		Lines:        make([]Line, 0, NumPockets+2+DoubleBankBounces),
		Handles: [2]Ring{
			{Center: s.P1, Radius: s.Tuning.PocketRadius},
			{Center: s.P2, Radius: s.Tuning.PocketRadius},
		},
		GripSize:   s.Tuning.GripSize,
		Color:      v.Color,
		Opacity:    v.Opacity,
		Locked:     s.Locked,
		Carrying:   s.Carry.Active.String(),
		Dragging:   dragName(s.Drag),
		LastTarget: s.LastTarget.String(),
	}

	if v.ShowPocketLines {
		m.Marker = &Ring{Center: s.Marker, Radius: s.Tuning.PocketRadius}
		for _, c := range pockets {
			m.Lines = append(m.Lines, Line{Kind: LinePocket, Segment: geom.Seg(s.Marker, c), Thickness: thickness})
		}
	}

	if v.ShowAimLine {
		m.Lines = append(m.Lines, Line{Kind: LineAim, Segment: geom.Seg(s.P1, s.P2), Thickness: thickness})
	}

	var path []geom.Segment
	path, m.Highlight = s.bankPath(&s.Snap, pockets)
	if path != nil {
		bank := math.Max(2, thickness+1)
		m.Lines = append(m.Lines, Line{Kind: LineBankLead, Segment: geom.Seg(s.P1, s.P2), Thickness: bank})
		for _, seg := range path {
			m.Lines = append(m.Lines, Line{Kind: LineBank, Segment: seg, Thickness: bank})
		}
	}

	if !s.Locked {
		g := GripPositions(s.Table)
		m.Grips = g[:]
	}
	return s, m
}

// bankPath traces the bank or double-bank continuation of p1→p2 and runs the
// final endpoint through the snap lock. It returns nil when no bank line is
// enabled or p1 and p2 coincide.
func (s State) bankPath(snap *SnapState, pockets [NumPockets]geom.Point) ([]geom.Segment, *Ring) {
	bounces := s.Visuals.bankBounces()
	dir := s.P2.Minus(s.P1)
	if bounces == 0 || dir.IsZero() {
		return nil, nil
	}

	path := Trace(s.P2, dir.Normalize(), s.Table, bounces)
	if len(path) == 0 {
		return path, nil
	}

	last := &path[len(path)-1]
	display, highlight, ok := snap.Update(last.End, pockets, s.Tuning.LockRadius, s.Tuning.UnlockRadius)
	last.End = display
	if !ok {
		return path, nil
	}
	return path, &Ring{Center: highlight, Radius: s.Tuning.PocketRadius + 3}
}
