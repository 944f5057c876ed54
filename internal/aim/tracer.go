package aim

import (
	"math"

	"github.com/playpool/aimline/internal/geom"
)

// Rail names the table edge a traced ray struck.
type Rail int

const (
	RailNone Rail = iota
	RailLeft
	RailRight
	RailTop
	RailBottom
)

func (r Rail) vertical() bool {
	return r == RailLeft || r == RailRight
}

type railHit struct {
	t    float64
	rail Rail
}

// Trace follows a ray from origin along dir inside r, reflecting off the
// rails, and returns one segment per leg up to maxBounces legs. Tracing stops
// early when no rail lies ahead, so the result may be shorter than
// maxBounces; a zero direction yields no segments.
func Trace(origin, dir geom.Point, r geom.Rect, maxBounces int) []geom.Segment {
	segments := make([]geom.Segment, 0, maxBounces)
	pos := origin
	vx, vy := dir.X, dir.Y

	for len(segments) < maxBounces {
		hit, ok := nextRail(pos, vx, vy, r)
		if !ok {
			break
		}
		end := geom.Pt(pos.X+vx*hit.t, pos.Y+vy*hit.t)
		segments = append(segments, geom.Seg(pos, end))
		if hit.rail.vertical() {
			vx = -vx
		} else {
			vy = -vy
		}
		pos = end
	}
	return segments
}

// nextRail picks the closest rail ahead of pos. Candidates at or below
// TraceEpsilon are the rail the ray is leaving and are skipped.
func nextRail(pos geom.Point, vx, vy float64, r geom.Rect) (railHit, bool) {
	var candidates [2]railHit
	n := 0
	switch {
	case vx > 0:
		candidates[n] = railHit{(r.Right() - pos.X) / vx, RailRight}
		n++
	case vx < 0:
		candidates[n] = railHit{(r.Left - pos.X) / vx, RailLeft}
		n++
	}
	switch {
	case vy > 0:
		candidates[n] = railHit{(r.Bottom() - pos.Y) / vy, RailBottom}
		n++
	case vy < 0:
		candidates[n] = railHit{(r.Top - pos.Y) / vy, RailTop}
		n++
	}

	best := railHit{t: math.Inf(1)}
	for _, c := range candidates[:n] {
		if c.t > TraceEpsilon && c.t < best.t {
			best = c
		}
	}
	return best, best.rail != RailNone
}
