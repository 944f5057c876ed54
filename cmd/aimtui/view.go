package main

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/playpool/aimline/internal/aim"
	"github.com/playpool/aimline/internal/geom"
)

// view maps terminal cells onto the overlay surface. The last screen row is
// the status bar and is not part of the canvas.
type view struct {
	surface    aim.Surface
	cols, rows int
}

func newView(surface aim.Surface, w, h int) view {
	rows := h - 1
	if rows < 1 {
		rows = 1
	}
	if w < 1 {
		w = 1
	}
	return view{surface: surface, cols: w, rows: rows}
}

func (v view) cellSize() (float64, float64) {
	return v.surface.Width / float64(v.cols), v.surface.Height / float64(v.rows)
}

// toSurface returns the surface point at the center of a cell.
func (v view) toSurface(col, row int) geom.Point {
	col = clampInt(col, 0, v.cols-1)
	row = clampInt(row, 0, v.rows-1)
	sx, sy := v.cellSize()
	return geom.Pt((float64(col)+0.5)*sx, (float64(row)+0.5)*sy)
}

// toCell returns the cell containing p, clamped to the canvas.
func (v view) toCell(p geom.Point) (int, int) {
	sx, sy := v.cellSize()
	col := clampInt(int(math.Floor(p.X/sx)), 0, v.cols-1)
	row := clampInt(int(math.Floor(p.Y/sy)), 0, v.rows-1)
	return col, row
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

const mouseButtons = tcell.Button1 | tcell.Button2 | tcell.Button3

// pointer turns tcell mouse events, which report the full button state on
// every event, into move/press/release commands.
type pointer struct {
	buttons  tcell.ButtonMask
	col, row int
	seen     bool
}

func buttonFor(mask tcell.ButtonMask) aim.Button {
	switch {
	case mask&tcell.Button1 != 0:
		return aim.ButtonLeft
	case mask&tcell.Button2 != 0:
		return aim.ButtonRight
	}
	return aim.ButtonMiddle
}

func (p *pointer) commands(v view, ev *tcell.EventMouse) []aim.Command {
	col, row := ev.Position()
	buttons := ev.Buttons() & mouseButtons
	at := v.toSurface(col, row)

	var cmds []aim.Command
	if !p.seen || col != p.col || row != p.row {
		cmds = append(cmds, aim.PointerMoved{At: at})
	}
	if pressed := buttons &^ p.buttons; pressed != 0 {
		cmds = append(cmds, aim.PointerPressed{At: at, Button: buttonFor(pressed)})
	}
	if released := p.buttons &^ buttons; released != 0 && buttons == 0 {
		cmds = append(cmds, aim.PointerReleased{At: at})
	}

	p.buttons, p.col, p.row, p.seen = buttons, col, row, true
	return cmds
}

var runeKeys = map[rune]aim.Key{
	's': aim.KeySave,
	'l': aim.KeyLoad,
	'p': aim.KeyTogglePocketLines,
	'a': aim.KeyToggleAimLine,
	'b': aim.KeyToggleBank,
	'd': aim.KeyToggleDoubleBank,
	'n': aim.KeyToggleSnap,
}

// keyCommand maps a key event to an overlay command.
func keyCommand(ev *tcell.EventKey) (aim.Command, bool) {
	switch ev.Key() {
	case tcell.KeyEnter:
		return aim.KeyPressed{Key: aim.KeyToggleLock}, true
	case tcell.KeyEscape:
		return aim.KeyPressed{Key: aim.KeyCancel}, true
	case tcell.KeyCtrlS:
		return aim.KeyPressed{Key: aim.KeySave}, true
	case tcell.KeyCtrlL:
		return aim.KeyPressed{Key: aim.KeyLoad}, true
	case tcell.KeyRune:
		r := ev.Rune()
		if r >= '1' && r < '1'+aim.NumPockets {
			return aim.KeyPressed{Key: aim.PocketKey(int(r - '1'))}, true
		}
		if r == 'c' {
			return aim.CarryCancel{}, true
		}
		if k, ok := runeKeys[r]; ok {
			return aim.KeyPressed{Key: k}, true
		}
	}
	return nil, false
}
