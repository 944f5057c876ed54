package aim

import "github.com/playpool/aimline/internal/geom"

// ControlPoint names one of the two movable balls.
type ControlPoint int

const (
	NoPoint ControlPoint = iota
	PointP1
	PointP2
)

func (c ControlPoint) String() string {
	switch c {
	case PointP1:
		return "p1"
	case PointP2:
		return "p2"
	}
	return ""
}

// ParseControlPoint maps "p1"/"p2" to a ControlPoint.
func ParseControlPoint(s string) (ControlPoint, bool) {
	switch s {
	case "p1":
		return PointP1, true
	case "p2":
		return PointP2, true
	}
	return NoPoint, false
}

// CarryState tracks a click-to-pick-up, click-to-drop carry. Only one point
// is carried at a time.
type CarryState struct {
	Active ControlPoint `json:"active"`
	Offset geom.Point   `json:"offset"`
}

func (c CarryState) Carrying() bool {
	return c.Active != NoPoint
}

// PickUp starts carrying id if press lands within handleRadius of pos. A
// carry already in progress wins and the press is ignored.
func (c *CarryState) PickUp(id ControlPoint, press, pos geom.Point, handleRadius float64) bool {
	if c.Carrying() || id == NoPoint {
		return false
	}
	if geom.Dist(press, pos) > handleRadius {
		return false
	}
	c.Active = id
	c.Offset = press.Minus(pos)
	return true
}

// Follow returns where the carried point sits for a pointer at the given
// position: offset removed, clamped to the table, then snapped onto a
// pocket within snapThreshold when snap is on.
func (c CarryState) Follow(pointer geom.Point, table geom.Rect, snap bool, snapThreshold float64) geom.Point {
	p := table.Clamp(pointer.Minus(c.Offset))
	if snap {
		p = snapToPocket(p, PocketCenters(table), snapThreshold)
	}
	return p
}

// Drop ends the carry; the point keeps its current position.
func (c *CarryState) Drop() ControlPoint {
	id := c.Active
	*c = CarryState{}
	return id
}

// Cancel ends the carry without restoring the pick-up position.
func (c *CarryState) Cancel() {
	*c = CarryState{}
}
