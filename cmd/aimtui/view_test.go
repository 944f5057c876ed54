package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/playpool/aimline/internal/aim"
	"github.com/playpool/aimline/internal/geom"
)

func TestViewMapping(t *testing.T) {
	v := newView(aim.Surface{Width: 1200, Height: 800}, 120, 41)

	if p := v.toSurface(0, 0); p != geom.Pt(5, 10) {
		t.Errorf("toSurface(0,0) = %v, want (5,10)", p)
	}
	if col, row := v.toCell(geom.Pt(605, 410)); col != 60 || row != 20 {
		t.Errorf("toCell(605,410) = (%d,%d), want (60,20)", col, row)
	}
	if col, row := v.toCell(geom.Pt(5000, -30)); col != 119 || row != 0 {
		t.Errorf("toCell clamps to (%d,%d), want (119,0)", col, row)
	}
	// The status row maps onto the last canvas row.
	if p := v.toSurface(0, 40); p.Y != 790 {
		t.Errorf("status row maps to y=%g, want 790", p.Y)
	}
}

func TestPointerCommands(t *testing.T) {
	v := newView(aim.Surface{Width: 1200, Height: 800}, 120, 41)
	var p pointer

	cmds := p.commands(v, tcell.NewEventMouse(10, 5, tcell.ButtonNone, tcell.ModNone))
	if len(cmds) != 1 {
		t.Fatalf("first event gave %d commands, want a move", len(cmds))
	}
	if _, ok := cmds[0].(aim.PointerMoved); !ok {
		t.Errorf("first command = %T, want PointerMoved", cmds[0])
	}

	cmds = p.commands(v, tcell.NewEventMouse(10, 5, tcell.Button1, tcell.ModNone))
	if len(cmds) != 1 {
		t.Fatalf("press gave %d commands, want 1", len(cmds))
	}
	press, ok := cmds[0].(aim.PointerPressed)
	if !ok || press.Button != aim.ButtonLeft || press.At != v.toSurface(10, 5) {
		t.Errorf("press = %#v", cmds[0])
	}

	cmds = p.commands(v, tcell.NewEventMouse(12, 5, tcell.Button1, tcell.ModNone))
	if len(cmds) != 1 {
		t.Errorf("drag gave %d commands, want a single move", len(cmds))
	}

	cmds = p.commands(v, tcell.NewEventMouse(12, 5, tcell.ButtonNone, tcell.ModNone))
	if len(cmds) != 1 {
		t.Fatalf("release gave %d commands, want 1", len(cmds))
	}
	if _, ok := cmds[0].(aim.PointerReleased); !ok {
		t.Errorf("release = %T, want PointerReleased", cmds[0])
	}

	p.commands(v, tcell.NewEventMouse(12, 5, tcell.Button2, tcell.ModNone))
	if b := buttonFor(tcell.Button2); b != aim.ButtonRight {
		t.Errorf("Button2 maps to %v, want right", b)
	}
}

func TestKeyCommand(t *testing.T) {
	cases := []struct {
		ev   *tcell.EventKey
		want aim.Command
	}{
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), aim.KeyPressed{Key: aim.KeyToggleLock}},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), aim.KeyPressed{Key: aim.KeyCancel}},
		{tcell.NewEventKey(tcell.KeyRune, '1', tcell.ModNone), aim.KeyPressed{Key: aim.KeyPocket1}},
		{tcell.NewEventKey(tcell.KeyRune, '6', tcell.ModNone), aim.KeyPressed{Key: aim.KeyPocket6}},
		{tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone), aim.KeyPressed{Key: aim.KeySave}},
		{tcell.NewEventKey(tcell.KeyCtrlL, 0, tcell.ModCtrl), aim.KeyPressed{Key: aim.KeyLoad}},
		{tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModNone), aim.KeyPressed{Key: aim.KeyToggleSnap}},
		{tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone), aim.CarryCancel{}},
	}
	for _, tc := range cases {
		got, ok := keyCommand(tc.ev)
		if !ok || got != tc.want {
			t.Errorf("keyCommand(%s) = %#v, want %#v", tc.ev.Name(), got, tc.want)
		}
	}

	for _, r := range []rune{'7', 'z', '0'} {
		if _, ok := keyCommand(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)); ok {
			t.Errorf("key %q mapped to a command", r)
		}
	}
}

func TestSlopeRune(t *testing.T) {
	cases := []struct {
		dc, dr int
		want   rune
	}{
		{10, 0, '─'},
		{0, -7, '│'},
		{5, 5, '╲'},
		{-5, -4, '╲'},
		{5, -5, '╱'},
	}
	for _, tc := range cases {
		if got := slopeRune(tc.dc, tc.dr); got != tc.want {
			t.Errorf("slopeRune(%d,%d) = %q, want %q", tc.dc, tc.dr, got, tc.want)
		}
	}
}
