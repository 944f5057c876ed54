package aim

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/playpool/aimline/internal/geom"
)

// Snapshot is the flat persisted form of an overlay's layout and styling.
type Snapshot struct {
	TableRect  [4]float64      `json:"table_rect"`
	P1         [2]float64      `json:"p1"`
	P2         [2]float64      `json:"p2"`
	Marker     [2]float64      `json:"marker"`
	LastTarget string          `json:"last_target"`
	Toggles    SnapshotToggles `json:"toggles"`
	Visuals    SnapshotVisuals `json:"visuals"`
	Color      [4]uint8        `json:"color"`
}

type SnapshotToggles struct {
	Lines      bool `json:"lines"`
	Single     bool `json:"single"`
	Bank       bool `json:"bank"`
	DoubleBank bool `json:"double_bank"`
}

type SnapshotVisuals struct {
	Thickness int     `json:"thickness"`
	Opacity   float64 `json:"opacity"`
}

// ErrMalformedSnapshot is returned when persisted data is not a JSON object.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// Capture records the persistent part of s.
func Capture(s State) Snapshot {
	v := s.Visuals
	return Snapshot{
		TableRect:  [4]float64{s.Table.Left, s.Table.Top, s.Table.Width, s.Table.Height},
		P1:         [2]float64{s.P1.X, s.P1.Y},
		P2:         [2]float64{s.P2.X, s.P2.Y},
		Marker:     [2]float64{s.Marker.X, s.Marker.Y},
		LastTarget: s.LastTarget.String(),
		Toggles: SnapshotToggles{
			Lines:      v.ShowPocketLines,
			Single:     v.ShowAimLine,
			Bank:       v.ShowBank,
			DoubleBank: v.ShowDoubleBank,
		},
		Visuals: SnapshotVisuals{Thickness: v.LineThickness, Opacity: v.Opacity},
		Color:   [4]uint8{v.Color.R, v.Color.G, v.Color.B, v.Color.A},
	}
}

// Encode renders the snapshot as indented JSON.
func (sn Snapshot) Encode() ([]byte, error) {
	return json.MarshalIndent(sn, "", "  ")
}

// Restore applies persisted data on top of s. Data that is not a JSON object
// leaves s untouched and returns ErrMalformedSnapshot. Otherwise every field
// is validated on its own; a missing or invalid field keeps the current value
// and its name is returned in skipped.
func Restore(s State, data []byte) (State, []string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		if err == nil {
			err = errors.New("not an object")
		}
		return s, nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	var skipped []string
	apply := func(name string, fn func(json.RawMessage) bool) {
		msg, ok := raw[name]
		if !ok {
			return
		}
		if !fn(msg) {
			skipped = append(skipped, name)
		}
	}

	apply("table_rect", func(m json.RawMessage) bool {
		v, ok := decodeFloats(m, 4)
		if !ok {
			return false
		}
		s.Table = FitTable(geom.Rect{Left: v[0], Top: v[1], Width: v[2], Height: v[3]})
		return true
	})
	for name, dst := range map[string]*geom.Point{"p1": &s.P1, "p2": &s.P2, "marker": &s.Marker} {
		apply(name, func(m json.RawMessage) bool {
			v, ok := decodeFloats(m, 2)
			if ok {
				*dst = geom.Pt(v[0], v[1])
			}
			return ok
		})
	}
	apply("last_target", func(m json.RawMessage) bool {
		var name string
		if json.Unmarshal(m, &name) != nil {
			return false
		}
		id, ok := ParseControlPoint(name)
		if ok {
			s.LastTarget = id
		}
		return ok
	})
	apply("toggles", func(m json.RawMessage) bool {
		var t map[string]json.RawMessage
		if json.Unmarshal(m, &t) != nil {
			return false
		}
		good := true
		for key, dst := range map[string]*bool{
			"lines":       &s.Visuals.ShowPocketLines,
			"single":      &s.Visuals.ShowAimLine,
			"bank":        &s.Visuals.ShowBank,
			"double_bank": &s.Visuals.ShowDoubleBank,
		} {
			if b, ok := t[key]; ok && json.Unmarshal(b, dst) != nil {
				good = false
			}
		}
		return good
	})
	apply("visuals", func(m json.RawMessage) bool {
		var vis map[string]json.RawMessage
		if json.Unmarshal(m, &vis) != nil {
			return false
		}
		good := true
		if b, ok := vis["thickness"]; ok {
			var n float64
			if json.Unmarshal(b, &n) != nil || !finite(n) {
				good = false
			} else {
				s.Visuals.LineThickness = clampThickness(int(math.Round(n)))
			}
		}
		if b, ok := vis["opacity"]; ok {
			var o float64
			if json.Unmarshal(b, &o) != nil || !finite(o) {
				good = false
			} else {
				s.Visuals.Opacity = clampOpacity(o)
			}
		}
		return good
	})
	apply("color", func(m json.RawMessage) bool {
		c, ok := decodeColor(m)
		if ok {
			s.Visuals.Color = c
		}
		return ok
	})

	s.keepPointsInside()
	sort.Strings(skipped)
	return s, skipped, nil
}

func decodeFloats(m json.RawMessage, n int) ([]float64, bool) {
	var v []float64
	if json.Unmarshal(m, &v) != nil || len(v) != n {
		return nil, false
	}
	for _, f := range v {
		if !finite(f) {
			return nil, false
		}
	}
	return v, true
}

// decodeColor accepts [r,g,b], [r,g,b,a] or a hex string.
func decodeColor(m json.RawMessage) (RGBA, bool) {
	var hex string
	if json.Unmarshal(m, &hex) == nil {
		c, err := ParseHexColor(hex)
		return c, err == nil
	}
	var v []float64
	if json.Unmarshal(m, &v) != nil || (len(v) != 3 && len(v) != 4) {
		return RGBA{}, false
	}
	if len(v) == 3 {
		v = append(v, 255)
	}
	var out [4]uint8
	for i, f := range v {
		if !finite(f) || f < 0 || f > 255 {
			return RGBA{}, false
		}
		out[i] = uint8(math.Round(f))
	}
	return RGBA{out[0], out[1], out[2], out[3]}, true
}
