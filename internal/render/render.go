// Package render rasterizes an aim.RenderModel into a PNG preview.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strconv"

	"github.com/playpool/aimline/internal/aim"
	"github.com/playpool/aimline/internal/geom"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const (
	supersample   = 2
	outlineWidth  = 2.0
	circleSteps   = 48
	arcSteps      = 8
	handleDot     = 3.0
	labelFontSize = 12.0
	maxDimension  = 4096
)

var ErrEmptyImage = errors.New("render: empty image")

// Options configures a preview.
type Options struct {
	// Scale multiplies the surface size; 0 means 1.
	Scale float64
	// Background fills the image before drawing; nil leaves it transparent.
	Background color.Color
	// Labels draws the pocket hotkey numbers.
	Labels bool
}

// painter accumulates every overlay shape into one rasterizer so that
// overlapping shapes blend once with the overlay opacity.
type painter struct {
	z    *vector.Rasterizer
	k    float64
	w, h float64
}

// pt scales q into image space, clamped to the image bounds.
func (p *painter) pt(q geom.Point) (float32, float32) {
	x := math.Max(0, math.Min(p.w, q.X*p.k))
	y := math.Max(0, math.Min(p.h, q.Y*p.k))
	return float32(x), float32(y)
}

// polygon adds a closed polygon with positive orientation, or negative when
// hole is set.
func (p *painter) polygon(pts []geom.Point, hole bool) {
	if len(pts) < 3 {
		return
	}
	area := 0.0
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		area += a.X*b.Y - b.X*a.Y
	}
	if (area < 0) != hole {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	p.z.MoveTo(p.pt(pts[0]))
	for _, q := range pts[1:] {
		p.z.LineTo(p.pt(q))
	}
	p.z.ClosePath()
}

func (p *painter) stroke(a, b geom.Point, width float64) {
	d := b.Minus(a)
	if d.IsZero() {
		p.disk(a, width/2)
		return
	}
	n := geom.Pt(-d.Y, d.X).Normalize().Times(width / 2)
	p.polygon([]geom.Point{a.Plus(n), b.Plus(n), b.Minus(n), a.Minus(n)}, false)
}

func circle(c geom.Point, r float64) []geom.Point {
	pts := make([]geom.Point, circleSteps)
	for i := range pts {
		t := 2 * math.Pi * float64(i) / circleSteps
		pts[i] = geom.Pt(c.X+r*math.Cos(t), c.Y+r*math.Sin(t))
	}
	return pts
}

func (p *painter) disk(c geom.Point, r float64) {
	p.polygon(circle(c, r), false)
}

func (p *painter) ring(c geom.Point, r, width float64) {
	p.polygon(circle(c, r+width/2), false)
	if inner := r - width/2; inner > 0 {
		p.polygon(circle(c, inner), true)
	}
}

// roundedRect returns the outline of r with quarter-circle corners.
func roundedRect(r geom.Rect, radius float64) []geom.Point {
	radius = math.Min(radius, math.Min(r.Width, r.Height)/2)
	corners := []struct {
		c     geom.Point
		start float64
	}{
		{geom.Pt(r.Right()-radius, r.Top+radius), -math.Pi / 2},
		{geom.Pt(r.Right()-radius, r.Bottom()-radius), 0},
		{geom.Pt(r.Left+radius, r.Bottom()-radius), math.Pi / 2},
		{geom.Pt(r.Left+radius, r.Top+radius), math.Pi},
	}
	pts := make([]geom.Point, 0, 4*(arcSteps+1))
	for _, k := range corners {
		for i := 0; i <= arcSteps; i++ {
			t := k.start + (math.Pi/2)*float64(i)/arcSteps
			pts = append(pts, geom.Pt(k.c.X+radius*math.Cos(t), k.c.Y+radius*math.Sin(t)))
		}
	}
	return pts
}

func (p *painter) polyline(pts []geom.Point, width float64) {
	for i := range pts {
		p.stroke(pts[i], pts[(i+1)%len(pts)], width)
		p.disk(pts[i], width/2)
	}
}

// Render draws m on an image the size of surface times the option scale.
func Render(m aim.RenderModel, surface aim.Surface, opts Options) (*image.RGBA, error) {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	if !(surface.Width > 0 && surface.Height > 0) {
		return nil, ErrEmptyImage
	}
	w := int(math.Ceil(surface.Width * scale))
	h := int(math.Ceil(surface.Height * scale))
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyImage
	}
	if w > maxDimension || h > maxDimension {
		return nil, fmt.Errorf("render: %dx%d exceeds %d pixels per side", w, h, maxDimension)
	}

	k := scale * supersample
	big := image.NewRGBA(image.Rect(0, 0, w*supersample, h*supersample))
	bw, bh := big.Bounds().Dx(), big.Bounds().Dy()
	p := &painter{z: vector.NewRasterizer(bw, bh), k: k, w: float64(bw), h: float64(bh)}

	p.polyline(roundedRect(m.Table, m.CornerRadius), outlineWidth)
	for _, c := range m.Pockets {
		p.ring(c, m.PocketRadius, outlineWidth)
	}
	for _, l := range m.Lines {
		p.stroke(l.Segment.Start, l.Segment.End, l.Thickness)
	}
	if m.Marker != nil {
		p.ring(m.Marker.Center, m.Marker.Radius, outlineWidth)
	}
	if m.Highlight != nil {
		p.ring(m.Highlight.Center, m.Highlight.Radius, outlineWidth)
	}
	for _, hnd := range m.Handles {
		p.ring(hnd.Center, hnd.Radius, outlineWidth)
		p.disk(hnd.Center, handleDot)
	}
	half := m.GripSize / 2
	for _, g := range m.Grips {
		p.polygon([]geom.Point{
			geom.Pt(g.X-half, g.Y-half), geom.Pt(g.X+half, g.Y-half),
			geom.Pt(g.X+half, g.Y+half), geom.Pt(g.X-half, g.Y+half),
		}, false)
	}

	ink := color.NRGBA{R: m.Color.R, G: m.Color.G, B: m.Color.B, A: uint8(math.Round(float64(m.Color.A) * m.Opacity))}
	p.z.DrawOp = draw.Over
	p.z.Draw(big, big.Bounds(), image.NewUniform(ink), image.Point{})

	if opts.Labels {
		if err := drawPocketLabels(big, m, k, ink); err != nil {
			return nil, err
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	if opts.Background != nil {
		draw.Draw(out, out.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}
	draw.CatmullRom.Scale(out, out.Bounds(), big, big.Bounds(), draw.Over, nil)
	return out, nil
}

// drawPocketLabels writes the hotkey number of each pocket just outside the
// table, away from its center.
func drawPocketLabels(img *image.RGBA, m aim.RenderModel, k float64, c color.Color) error {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("render: parse font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    labelFontSize * k,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return fmt.Errorf("render: font face: %w", err)
	}
	defer face.Close()

	center := m.Table.Center()
	ascent := face.Metrics().Ascent.Ceil()
	for i, pc := range m.Pockets {
		dir := pc.Minus(center).Normalize()
		at := pc.Plus(dir.Times(m.PocketRadius + labelFontSize))
		text := strconv.Itoa(i + 1)
		width := font.MeasureString(face, text).Ceil()
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(c),
			Face: face,
			Dot: fixed.Point26_6{
				X: fixed.I(int(at.X*k) - width/2),
				Y: fixed.I(int(at.Y*k) + ascent/2),
			},
		}
		d.DrawString(text)
	}
	return nil
}

// Encode renders m and writes it as PNG.
func Encode(w io.Writer, m aim.RenderModel, surface aim.Surface, opts Options) error {
	img, err := Render(m, surface, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
