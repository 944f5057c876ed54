package aim

import (
	"testing"

	"github.com/playpool/aimline/internal/geom"
)

func scenarioState() State {
	s := NewState(DefaultSurface(), DefaultTuning())
	s.Table = table1000
	s.P1 = geom.Pt(100, 250)
	s.P2 = geom.Pt(900, 250)
	s.Marker = geom.Pt(500, 250)
	s.LastTarget = PointP2
	return s
}

func TestNewStateDefaults(t *testing.T) {
	s := NewState(DefaultSurface(), DefaultTuning())
	if s.Table != DefaultTable() {
		t.Errorf("table = %+v, want %+v", s.Table, DefaultTable())
	}
	if s.Locked {
		t.Error("new session starts locked")
	}
	if s.LastTarget != PointP2 {
		t.Errorf("last target = %v, want p2", s.LastTarget)
	}
	for _, p := range []geom.Point{s.P1, s.P2, s.Marker} {
		if !s.Table.Contains(p) {
			t.Errorf("point %v outside table %+v", p, s.Table)
		}
	}

	small := NewState(Surface{Width: 300, Height: 200}, DefaultTuning())
	if small.Table.Right() > 300 || small.Table.Bottom() > 200 {
		t.Errorf("table %+v does not fit the small surface", small.Table)
	}
}

func TestPocketHotkeyMovesLastTarget(t *testing.T) {
	s := scenarioState()
	s, e := Handle(s, KeyPressed{Key: KeyPocket3})
	if e != EffectRedraw {
		t.Errorf("effect = %v, want redraw", e)
	}
	if s.P2 != geom.Pt(1000, 0) {
		t.Errorf("p2 = %v, want (1000,0)", s.P2)
	}
	if s.P1 != geom.Pt(100, 250) {
		t.Errorf("p1 moved to %v", s.P1)
	}

	s.LastTarget = PointP1
	for i := 0; i < NumPockets; i++ {
		s, _ = Handle(s, KeyPressed{Key: PocketKey(i)})
		if s.P1 != s.Pockets()[i] {
			t.Errorf("key %d: p1 = %v, want %v", i+1, s.P1, s.Pockets()[i])
		}
	}
}

func TestToggleLockHidesGripsAndBlocksTableEdits(t *testing.T) {
	s := scenarioState()
	s, _ = Handle(s, KeyPressed{Key: KeyToggleLock})
	if !s.Locked {
		t.Fatal("toggle did not lock")
	}

	s, _ = Handle(s, PointerPressed{At: geom.Pt(1000, 500), Button: ButtonLeft})
	if s.Drag != nil {
		t.Errorf("grip grabbed while locked: %v", s.Drag)
	}
	s, _ = Handle(s, PointerPressed{At: geom.Pt(300, 400), Button: ButtonLeft})
	if s.Drag != nil {
		t.Errorf("table body grabbed while locked: %v", s.Drag)
	}

	// The marker stays draggable.
	s, _ = Handle(s, PointerPressed{At: geom.Pt(505, 250), Button: ButtonLeft})
	if _, ok := s.Drag.(MarkerDrag); !ok {
		t.Errorf("drag = %v, want marker", s.Drag)
	}

	_, m := Frame(s)
	if m.Grips != nil {
		t.Errorf("locked frame has %d grips", len(m.Grips))
	}

	s, _ = Handle(s, KeyPressed{Key: KeyToggleLock})
	_, m = Frame(s)
	if len(m.Grips) != int(NumGrips) {
		t.Errorf("unlocked frame has %d grips, want %d", len(m.Grips), NumGrips)
	}
}

func TestGripDragResizesAndClampsPoints(t *testing.T) {
	s := scenarioState()
	s, _ = Replay(s,
		PointerPressed{At: geom.Pt(1000, 250), Button: ButtonLeft},
		PointerMoved{At: geom.Pt(50, 250)},
	)
	if g, ok := s.Drag.(GripDrag); !ok || g.Grip != GripMidRight {
		t.Fatalf("drag = %v, want right grip", s.Drag)
	}
	if s.Table.Width != MinTableWidth {
		t.Errorf("width = %.2f, want floor %.2f", s.Table.Width, MinTableWidth)
	}
	for _, p := range []geom.Point{s.P1, s.P2, s.Marker} {
		if !s.Table.Contains(p) {
			t.Errorf("point %v left the table %+v", p, s.Table)
		}
	}
}

func TestMarkerDragClampsToTable(t *testing.T) {
	s := scenarioState()
	s, _ = Replay(s,
		PointerPressed{At: geom.Pt(500, 250), Button: ButtonLeft},
		PointerMoved{At: geom.Pt(2000, 900)},
		PointerReleased{At: geom.Pt(2000, 900)},
		PointerMoved{At: geom.Pt(10, 10)},
	)
	if s.Marker != geom.Pt(1000, 500) {
		t.Errorf("marker = %v, want clamped to (1000,500)", s.Marker)
	}
}

func TestEscapeClosesWhenIdle(t *testing.T) {
	s := scenarioState()
	if _, e := Handle(s, KeyPressed{Key: KeyCancel}); e != EffectClose {
		t.Errorf("effect = %v, want close", e)
	}
}

func TestSaveLoadKeysReportEffects(t *testing.T) {
	s := scenarioState()
	_, effects := Replay(s, KeyPressed{Key: KeySave}, KeyPressed{Key: KeyLoad}, KeyPressed{Key: Key("bogus")})
	want := []Effect{EffectSave, EffectLoad, EffectNone}
	for i := range want {
		if effects[i] != want[i] {
			t.Errorf("effect %d = %v, want %v", i, effects[i], want[i])
		}
	}
}

func TestVisualToggles(t *testing.T) {
	s := scenarioState()
	s, _ = Replay(s,
		KeyPressed{Key: KeyTogglePocketLines},
		KeyPressed{Key: KeyToggleAimLine},
		KeyPressed{Key: KeyToggleBank},
		KeyPressed{Key: KeyToggleDoubleBank},
		KeyPressed{Key: KeyToggleSnap},
	)
	v := s.Visuals
	if v.ShowPocketLines || v.ShowAimLine || v.ShowBank || v.ShowDoubleBank || s.SnapEnabled {
		t.Errorf("toggles not flipped: %+v snap=%v", v, s.SnapEnabled)
	}
}

func TestReplayIsDeterministic(t *testing.T) {
	cmds := []Command{
		PointerPressed{At: geom.Pt(900, 250), Button: ButtonLeft},
		PointerMoved{At: geom.Pt(700, 120)},
		PointerMoved{At: geom.Pt(990, 10)},
		PointerPressed{At: geom.Pt(990, 10), Button: ButtonLeft},
		KeyPressed{Key: KeyPocket5},
		PointerPressed{At: geom.Pt(400, 400), Button: ButtonLeft},
		PointerMoved{At: geom.Pt(420, 380)},
		PointerReleased{At: geom.Pt(420, 380)},
	}
	a, ea := Replay(scenarioState(), cmds...)
	b, eb := Replay(scenarioState(), cmds...)
	if a != b {
		t.Errorf("replays diverged:\n%+v\n%+v", a, b)
	}
	for i := range ea {
		if ea[i] != eb[i] {
			t.Errorf("effect %d diverged: %v vs %v", i, ea[i], eb[i])
		}
	}
}

func TestParseKey(t *testing.T) {
	if k, err := ParseKey("pocket_6"); err != nil || k != KeyPocket6 {
		t.Errorf("ParseKey(pocket_6) = %q, %v", k, err)
	}
	if _, err := ParseKey("pocket_7"); err == nil {
		t.Error("ParseKey(pocket_7) succeeded")
	}
}
