package geom

// Segment is one straight leg of a drawn path.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

func Seg(a, b Point) Segment {
	return Segment{Start: a, End: b}
}

func (s Segment) Length() float64 {
	return Dist(s.Start, s.End)
}

// Direction returns the unit vector from Start to End.
func (s Segment) Direction() Point {
	return s.End.Minus(s.Start).Normalize()
}
