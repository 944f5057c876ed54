package aim

import "github.com/playpool/aimline/internal/geom"

// State is the complete mutable state of one aiming overlay. It is a plain
// value: Handle and Frame take a State and return the next one.
type State struct {
	Table   geom.Rect `json:"table"`
	Surface Surface   `json:"surface"`

	P1     geom.Point `json:"p1"`
	P2     geom.Point `json:"p2"`
	Marker geom.Point `json:"marker"`

	// LastTarget is the ball the pocket hotkeys move.
	LastTarget ControlPoint `json:"last_target"`

	// Locked hides the grips and freezes the table geometry.
	Locked      bool `json:"locked"`
	SnapEnabled bool `json:"snap_enabled"`

	Carry CarryState `json:"carry"`
	Drag  DragTarget `json:"-"`
	Snap  SnapState  `json:"snap"`

	Visuals Visuals `json:"visuals"`
	Tuning  Tuning  `json:"tuning"`
}

// NewState builds the initial overlay: default table clipped to the surface,
// balls a quarter of the way in from each short rail, marker centered,
// unlocked.
func NewState(surface Surface, tuning Tuning) State {
	table := DefaultTable()
	if table.Right() > surface.Width || table.Bottom() > surface.Height {
		table = FitTable(geom.Rect{Left: 0, Top: 0, Width: surface.Width, Height: surface.Height})
	}
	s := State{
		Table:       table,
		Surface:     surface,
		LastTarget:  PointP2,
		SnapEnabled: true,
		Visuals:     DefaultVisuals(),
		Tuning:      tuning,
	}
	s.resetPoints()
	return s
}

func (s *State) resetPoints() {
	c := s.Table.Center()
	s.P1 = geom.Pt(s.Table.Left+s.Table.Width*0.25, c.Y)
	s.P2 = geom.Pt(s.Table.Right()-s.Table.Width*0.25, c.Y)
	s.Marker = c
}

// Pockets returns the current pocket centers.
func (s State) Pockets() [NumPockets]geom.Point {
	return PocketCenters(s.Table)
}

// Point returns the position of a control point.
func (s State) Point(id ControlPoint) geom.Point {
	if id == PointP1 {
		return s.P1
	}
	return s.P2
}

func (s *State) setPoint(id ControlPoint, p geom.Point) {
	switch id {
	case PointP1:
		s.P1 = p
	case PointP2:
		s.P2 = p
	}
}

// keepPointsInside clamps every control point into the table.
func (s *State) keepPointsInside() {
	s.P1 = s.Table.Clamp(s.P1)
	s.P2 = s.Table.Clamp(s.P2)
	s.Marker = s.Table.Clamp(s.Marker)
}

// setTable installs a new table rectangle and restores the point invariant.
func (s *State) setTable(r geom.Rect) {
	s.Table = FitTable(r)
	s.keepPointsInside()
}

// Handle applies one command and reports what the caller should do next.
func Handle(s State, cmd Command) (State, Effect) {
	switch c := cmd.(type) {
	case PointerMoved:
		return s.pointerMoved(c.At)
	case PointerPressed:
		return s.pointerPressed(c.At, c.Button)
	case PointerReleased:
		s.Drag = nil
		return s, EffectNone
	case KeyPressed:
		return s.keyPressed(c.Key)
	case CarryCancel:
		if !s.Carry.Carrying() {
			return s, EffectNone
		}
		s.Carry.Cancel()
		return s, EffectRedraw
	}
	return s, EffectNone
}

// Replay applies cmds in order and returns the final state and the effects
// produced along the way.
func Replay(s State, cmds ...Command) (State, []Effect) {
	effects := make([]Effect, 0, len(cmds))
	for _, c := range cmds {
		var e Effect
		s, e = Handle(s, c)
		effects = append(effects, e)
	}
	return s, effects
}

func (s State) pointerMoved(at geom.Point) (State, Effect) {
	if s.Carry.Carrying() {
		p := s.Carry.Follow(at, s.Table, s.SnapEnabled, s.Tuning.SnapThreshold)
		s.setPoint(s.Carry.Active, p)
		return s, EffectRedraw
	}

	switch d := s.Drag.(type) {
	case MarkerDrag:
		s.Marker = s.Table.Clamp(at)
	case GripDrag:
		s.setTable(Resize(s.Table, d.Grip, at, s.Surface))
	case TableDrag:
		delta := at.Minus(d.Offset).Minus(s.Table.TopLeft())
		moved, applied := Translate(s.Table, delta, s.Surface)
		s.Table = moved
		s.P1 = s.P1.Plus(applied)
		s.P2 = s.P2.Plus(applied)
		s.Marker = s.Marker.Plus(applied)
	default:
		return s, EffectNone
	}
	return s, EffectRedraw
}

func (s State) pointerPressed(at geom.Point, button Button) (State, Effect) {
	if s.Carry.Carrying() {
		s.Carry.Drop()
		s.Drag = nil
		return s, EffectRedraw
	}

	if button == ButtonLeft {
		for _, id := range [...]ControlPoint{PointP1, PointP2} {
			if s.Carry.PickUp(id, at, s.Point(id), s.Tuning.HandleRadius) {
				s.LastTarget = id
				s.Drag = nil
				return s, EffectRedraw
			}
		}
	}

	s.Drag = s.dragTargetAt(at)
	return s, EffectNone
}

// dragTargetAt resolves what a press-and-hold at p grabs. Grips and the
// table body are only grabbable while unlocked.
func (s State) dragTargetAt(p geom.Point) DragTarget {
	if geom.Dist(p, s.Marker) <= s.Tuning.PocketRadius {
		return MarkerDrag{}
	}
	if s.Locked {
		return nil
	}
	for i, g := range GripPositions(s.Table) {
		if geom.Dist(p, g) <= s.Tuning.GripSize {
			return GripDrag{Grip: Grip(i)}
		}
	}
	if s.Table.Contains(p) {
		return TableDrag{Offset: p.Minus(s.Table.TopLeft())}
	}
	return nil
}

func (s State) keyPressed(k Key) (State, Effect) {
	if i, ok := k.PocketIndex(); ok {
		s.setPoint(s.LastTarget, s.Pockets()[i])
		return s, EffectRedraw
	}

	switch k {
	case KeyToggleLock:
		s.Locked = !s.Locked
		if _, marker := s.Drag.(MarkerDrag); !marker {
			s.Drag = nil
		}
	case KeyCancel:
		if !s.Carry.Carrying() {
			return s, EffectClose
		}
		s.Carry.Cancel()
	case KeySave:
		return s, EffectSave
	case KeyLoad:
		return s, EffectLoad
	case KeyToggleSnap:
		s.SnapEnabled = !s.SnapEnabled
	case KeyTogglePocketLines:
		s.Visuals.ShowPocketLines = !s.Visuals.ShowPocketLines
	case KeyToggleAimLine:
		s.Visuals.ShowAimLine = !s.Visuals.ShowAimLine
	case KeyToggleBank:
		s.Visuals.ShowBank = !s.Visuals.ShowBank
	case KeyToggleDoubleBank:
		s.Visuals.ShowDoubleBank = !s.Visuals.ShowDoubleBank
	default:
		return s, EffectNone
	}
	return s, EffectRedraw
}
