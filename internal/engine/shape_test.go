package engine

import (
	"testing"

	"github.com/samui/samui/backend-go/internal/geom"
)

func TestRectangleHitBoundary(t *testing.T) {
	cx, cy, w, h := 100.0, 50.0, 40.0, 20.0
	r := Rectangle(cx, cy, w, h)

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"top-left corner", cx - w/2, cy - h/2, true},
		{"top-right corner", cx + w/2, cy - h/2, false},
		{"bottom-left corner", cx - w/2, cy + h/2, false},
		{"centre", cx, cy, true},
		{"just inside right", cx + w/2 - 1e-9, cy, true},
		{"left of box", cx - w/2 - 1e-9, cy, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HitTest(r, tt.x, tt.y); got != tt.want {
				t.Errorf("HitTest(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestCircleHitIncludesBoundary(t *testing.T) {
	c := Circle(0, 0, 10)
	if !HitTest(c, 10, 0) {
		t.Error("point on circumference should hit")
	}
	if !HitTest(c, 6, 8) {
		t.Error("(6,8) lies on r=10 and should hit")
	}
	if HitTest(c, 8, 8) {
		t.Error("(8,8) lies outside r=10")
	}
}

func TestTriangleAndPolylineHit(t *testing.T) {
	tri := Triangle(geom.Pt(25, 0), geom.Pt(50, 50), geom.Pt(0, 50))
	if !HitTest(tri, 25, 30) {
		t.Error("interior point should hit")
	}
	if HitTest(tri, 2, 2) {
		t.Error("corner outside triangle should not hit")
	}

	line := Polyline(geom.Pt(0, 0), geom.Pt(100, 0))
	if HitTest(line, 50, 0) {
		t.Error("polylines never hit")
	}
}

func TestVerticesOrder(t *testing.T) {
	got := Vertices(Circle(10, 10, 5))
	want := [4]geom.Point{{X: 5, Y: 5}, {X: 15, Y: 5}, {X: 5, Y: 15}, {X: 15, Y: 15}}
	if got != want {
		t.Errorf("Vertices = %v, want %v", got, want)
	}
}

func TestShapeMoveTo(t *testing.T) {
	tri := Triangle(geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(0, 10))
	tri.MoveTo(geom.Pt(105, 105))
	if b := Bounds(tri); b != (geom.Box{X: 100, Y: 100, W: 10, H: 10}) {
		t.Errorf("Bounds after MoveTo = %+v", b)
	}

	r := Rectangle(0, 0, 4, 4)
	r.MoveTo(geom.Pt(7, 8))
	if r.X != 7 || r.Y != 8 {
		t.Errorf("rectangle centre = (%v, %v)", r.X, r.Y)
	}
}

func TestDrawFillThenStroke(t *testing.T) {
	rec := NewRecorder()
	s := Rectangle(10, 10, 4, 4).
		WithFill(geom.RGB(0, 0, 0)).
		WithStroke(geom.RGB(128, 128, 128), 0)
	Draw(rec, s)

	cmds := rec.Commands()
	if len(cmds) != 2 {
		t.Fatalf("commands = %d, want 2", len(cmds))
	}
	if cmds[0].Op != "fill" || cmds[1].Op != "stroke" {
		t.Errorf("ops = %s, %s", cmds[0].Op, cmds[1].Op)
	}
	if cmds[1].StrokeWidth != DefaultStrokeWidth {
		t.Errorf("stroke width = %v, want default", cmds[1].StrokeWidth)
	}
	if cmds[1].Dash != nil {
		t.Errorf("undashed stroke carried dash %v", cmds[1].Dash)
	}

	// A nil surface is a no-op.
	Draw(nil, s)
}

func TestShapeKindText(t *testing.T) {
	for _, k := range []ShapeKind{ShapeCircle, ShapeRectangle, ShapeTriangle, ShapePolyline} {
		text, _ := k.MarshalText()
		var back ShapeKind
		if err := back.UnmarshalText(text); err != nil || back != k {
			t.Errorf("%v round trip = %v, %v", k, back, err)
		}
	}
	var k ShapeKind
	if err := k.UnmarshalText([]byte("hexagon")); err == nil {
		t.Error("expected error for unknown kind")
	}
}
