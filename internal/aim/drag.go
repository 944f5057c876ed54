package aim

import "github.com/playpool/aimline/internal/geom"

// DragTarget is what a press-and-hold drag is moving. A nil DragTarget means
// no drag is in progress.
type DragTarget interface {
	isDragTarget()
}

// GripDrag resizes the table from one grip.
type GripDrag struct {
	Grip Grip
}

// TableDrag moves the whole table; Offset is the press position relative to
// the table's top-left corner.
type TableDrag struct {
	Offset geom.Point
}

// MarkerDrag moves the pocket-line marker.
type MarkerDrag struct{}

func (GripDrag) isDragTarget()   {}
func (TableDrag) isDragTarget()  {}
func (MarkerDrag) isDragTarget() {}

// dragName is used in logs and the render model.
func dragName(d DragTarget) string {
	switch t := d.(type) {
	case GripDrag:
		return "grip:" + t.Grip.String()
	case TableDrag:
		return "table"
	case MarkerDrag:
		return "marker"
	}
	return ""
}
