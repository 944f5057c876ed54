package aim

import "github.com/playpool/aimline/internal/geom"

// SnapState is the hysteresis memory behind the bank endpoint lock. Pocket is
// the literal coordinate captured when the lock engaged; it is not re-derived
// if the table moves afterwards.
type SnapState struct {
	Locked bool       `json:"locked"`
	Pocket geom.Point `json:"pocket"`
}

// Update filters one frame's raw endpoint. While locked the held pocket is
// reported until raw drifts beyond unlockRadius; while unlocked the nearest
// pocket captures raw once it comes within lockRadius. highlighted is true
// when the returned highlight should be drawn.
func (s *SnapState) Update(raw geom.Point, pockets [NumPockets]geom.Point, lockRadius, unlockRadius float64) (display, highlight geom.Point, highlighted bool) {
	if s.Locked {
		if geom.Dist(raw, s.Pocket) <= unlockRadius {
			return s.Pocket, s.Pocket, true
		}
		*s = SnapState{}
	}

	i, d := geom.Nearest(raw, pockets[:])
	if i >= 0 && d <= lockRadius {
		s.Locked = true
		s.Pocket = pockets[i]
		return s.Pocket, s.Pocket, true
	}
	return raw, geom.Point{}, false
}

// Reset drops any held lock.
func (s *SnapState) Reset() {
	*s = SnapState{}
}
