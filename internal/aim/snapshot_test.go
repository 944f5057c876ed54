package aim

import (
	"errors"
	"reflect"
	"testing"

	"github.com/playpool/aimline/internal/geom"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s := scenarioState()
	s.P1 = geom.Pt(120.5, 80.25)
	s.LastTarget = PointP1
	s.Visuals.ShowBank = false
	s.Visuals.LineThickness = 7
	s.Visuals.Opacity = 0.5
	s.Visuals.Color = RGBA{10, 200, 30, 128}

	data, err := Capture(s).Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, skipped, err := Restore(NewState(DefaultSurface(), DefaultTuning()), data)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if len(skipped) != 0 {
		t.Errorf("skipped = %v, want none", skipped)
	}
	if got.Table != s.Table || got.P1 != s.P1 || got.P2 != s.P2 || got.Marker != s.Marker {
		t.Errorf("geometry = %+v %v %v %v, want %+v %v %v %v",
			got.Table, got.P1, got.P2, got.Marker, s.Table, s.P1, s.P2, s.Marker)
	}
	if got.LastTarget != PointP1 {
		t.Errorf("last target = %v, want p1", got.LastTarget)
	}
	if got.Visuals != s.Visuals {
		t.Errorf("visuals = %+v, want %+v", got.Visuals, s.Visuals)
	}
}

func TestRestoreMalformedIsNoOp(t *testing.T) {
	s := scenarioState()
	for _, data := range []string{"", "not json", "[1,2,3]", "null", `"text"`} {
		got, skipped, err := Restore(s, []byte(data))
		if !errors.Is(err, ErrMalformedSnapshot) {
			t.Errorf("Restore(%q) err = %v, want ErrMalformedSnapshot", data, err)
		}
		if got != s || skipped != nil {
			t.Errorf("Restore(%q) changed state", data)
		}
	}
}

func TestRestorePartialFallsBackPerField(t *testing.T) {
	s := scenarioState()
	data := `{
		"p1": [1, "x"],
		"marker": [200, 200],
		"last_target": "p3",
		"visuals": {"thickness": 99, "opacity": 0.1},
		"toggles": {"lines": false}
	}`
	got, skipped, err := Restore(s, []byte(data))
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if want := []string{"last_target", "p1"}; !reflect.DeepEqual(skipped, want) {
		t.Errorf("skipped = %v, want %v", skipped, want)
	}
	if got.P1 != s.P1 || got.LastTarget != s.LastTarget {
		t.Errorf("invalid fields were applied: p1=%v last=%v", got.P1, got.LastTarget)
	}
	if got.Marker != geom.Pt(200, 200) {
		t.Errorf("marker = %v, want (200,200)", got.Marker)
	}
	if got.Visuals.LineThickness != MaxLineThickness || got.Visuals.Opacity != MinOpacity {
		t.Errorf("visuals = %+v, want clamped thickness and opacity", got.Visuals)
	}
	if got.Visuals.ShowPocketLines || !got.Visuals.ShowAimLine {
		t.Errorf("toggles = %+v, want only pocket lines off", got.Visuals)
	}
}

func TestRestoreColorForms(t *testing.T) {
	cases := []struct {
		in   string
		want RGBA
	}{
		{`"#ff000080"`, RGBA{255, 0, 0, 128}},
		{`"#00ff00"`, RGBA{0, 255, 0, 255}},
		{`[1, 2, 3]`, RGBA{1, 2, 3, 255}},
		{`[1, 2, 3, 4]`, RGBA{1, 2, 3, 4}},
	}
	for _, tc := range cases {
		got, skipped, err := Restore(scenarioState(), []byte(`{"color": `+tc.in+`}`))
		if err != nil || len(skipped) != 0 {
			t.Errorf("color %s: err=%v skipped=%v", tc.in, err, skipped)
			continue
		}
		if got.Visuals.Color != tc.want {
			t.Errorf("color %s = %+v, want %+v", tc.in, got.Visuals.Color, tc.want)
		}
	}

	_, skipped, _ := Restore(scenarioState(), []byte(`{"color": [300, 0, 0]}`))
	if len(skipped) != 1 {
		t.Errorf("out of range color not skipped: %v", skipped)
	}
}

func TestRestoreTinyTableIsFitted(t *testing.T) {
	got, _, err := Restore(scenarioState(), []byte(`{"table_rect": [10, 10, 5, 5]}`))
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got.Table.Width != MinTableWidth || got.Table.Height != MinTableHeight {
		t.Errorf("table = %+v, want minimum size", got.Table)
	}
	for _, p := range []geom.Point{got.P1, got.P2, got.Marker} {
		if !got.Table.Contains(p) {
			t.Errorf("point %v left restored table %+v", p, got.Table)
		}
	}
}
