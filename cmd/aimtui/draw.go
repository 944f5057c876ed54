package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/playpool/aimline/internal/aim"
	"github.com/playpool/aimline/internal/geom"
)

var (
	styleTable   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	stylePocket  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleGrip    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMessage = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
)

// inkColor is the overlay color faded toward black by the overlay opacity.
func inkColor(c aim.RGBA, opacity float64) tcell.Color {
	ink := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	faded := colorful.Color{}.BlendRgb(ink, opacity*float64(c.A)/255)
	r, g, b := faded.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func lineStyle(kind aim.LineKind, ink tcell.Color) tcell.Style {
	st := tcell.StyleDefault.Foreground(ink)
	switch kind {
	case aim.LinePocket:
		return st.Dim(true)
	case aim.LineBank, aim.LineBankLead:
		return st.Italic(true)
	}
	return st.Bold(true)
}

// slopeRune picks a box-drawing character for a run of dc columns and dr rows.
func slopeRune(dc, dr int) rune {
	adc, adr := math.Abs(float64(dc)), math.Abs(float64(dr))
	switch {
	case adc > 2*adr:
		return '─'
	case adr > 2*adc:
		return '│'
	case (dc > 0) == (dr > 0):
		return '╲'
	}
	return '╱'
}

func (a *app) set(col, row int, r rune, st tcell.Style) {
	a.screen.SetContent(col, row, r, nil, st)
}

func (a *app) drawSegment(v view, s geom.Segment, st tcell.Style) {
	c0, r0 := v.toCell(s.Start)
	c1, r1 := v.toCell(s.End)
	dc, dr := c1-c0, r1-r0
	ch := slopeRune(dc, dr)
	n := int(math.Max(math.Abs(float64(dc)), math.Abs(float64(dr))))
	if n == 0 {
		a.set(c0, r0, '·', st)
		return
	}
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		a.set(c0+int(math.Round(t*float64(dc))), r0+int(math.Round(t*float64(dr))), ch, st)
	}
}

func (a *app) drawTable(v view, r geom.Rect) {
	c0, r0 := v.toCell(geom.Pt(r.Left, r.Top))
	c1, r1 := v.toCell(geom.Pt(r.Right(), r.Bottom()))
	for c := c0 + 1; c < c1; c++ {
		a.set(c, r0, '─', styleTable)
		a.set(c, r1, '─', styleTable)
	}
	for row := r0 + 1; row < r1; row++ {
		a.set(c0, row, '│', styleTable)
		a.set(c1, row, '│', styleTable)
	}
	a.set(c0, r0, '╭', styleTable)
	a.set(c1, r0, '╮', styleTable)
	a.set(c0, r1, '╰', styleTable)
	a.set(c1, r1, '╯', styleTable)
}

func (a *app) drawMark(v view, p geom.Point, r rune, st tcell.Style) {
	col, row := v.toCell(p)
	a.set(col, row, r, st)
}

func (a *app) drawString(col, row int, s string, st tcell.Style) {
	for i, r := range []rune(s) {
		a.set(col+i, row, r, st)
	}
}

func (a *app) draw() {
	a.screen.Clear()
	w, h := a.screen.Size()
	v := newView(a.surface, w, h)
	m := a.frame
	ink := inkColor(m.Color, m.Opacity)

	a.drawTable(v, m.Table)
	for _, l := range m.Lines {
		a.drawSegment(v, l.Segment, lineStyle(l.Kind, ink))
	}
	for i, pc := range m.Pockets {
		a.drawMark(v, pc, rune('1'+i), stylePocket)
	}
	for _, g := range m.Grips {
		a.drawMark(v, g, '▪', styleGrip)
	}
	inkStyle := tcell.StyleDefault.Foreground(ink).Bold(true)
	if m.Marker != nil {
		a.drawMark(v, m.Marker.Center, '✕', inkStyle)
	}
	if m.Highlight != nil {
		a.drawMark(v, m.Highlight.Center, '◎', stylePocket)
	}
	a.drawMark(v, m.Handles[0].Center, '●', inkStyle)
	a.drawMark(v, m.Handles[1].Center, '○', inkStyle)

	a.drawStatus(w, h)
}

func (a *app) drawStatus(w, h int) {
	row := h - 1
	for c := 0; c < w; c++ {
		a.set(c, row, ' ', styleStatus)
	}
	m := a.frame
	mode := "EDIT"
	if m.Locked {
		mode = "LOCKED"
	}
	status := fmt.Sprintf(" %s  target:%s", mode, m.LastTarget)
	if m.Carrying != "" {
		status += "  carrying:" + m.Carrying
	}
	if m.Dragging != "" {
		status += "  dragging:" + m.Dragging
	}
	a.drawString(0, row, status, styleStatus)

	msg := a.message
	if msg == "" {
		msg = "Enter lock  Esc quit  1-6 pocket  s/l save/load  p a b d n toggles  c cancel carry "
	}
	if col := w - len([]rune(msg)); col > len([]rune(status))+1 {
		a.drawString(col, row, msg, styleMessage)
	}
}
