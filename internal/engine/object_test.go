package engine

import (
	"testing"

	"github.com/samui/samui/backend-go/internal/geom"
)

func TestContainmentAsymmetry(t *testing.T) {
	a := NewObject(Rectangle(100, 100, 200, 200), false)
	b := NewObject(Rectangle(100, 100, 50, 50), false)

	if !a.ContainsObject(b) {
		t.Error("A should contain B")
	}
	if b.ContainsObject(a) {
		t.Error("B should not contain A")
	}

	// B larger than A, overlapping it.
	small := NewObject(Rectangle(100, 100, 20, 20), false)
	big := NewObject(Rectangle(110, 110, 300, 300), false)
	if big.ContainsObject(small) != true {
		t.Error("big should contain small")
	}
	if small.ContainsObject(big) {
		t.Error("small must not contain big")
	}
	if small.IntersectsObject(big) {
		t.Error("no corner of big lies inside small")
	}
	if !big.IntersectsObject(small) {
		t.Error("corners of small lie inside big")
	}
}

func TestObjectDragStateMachine(t *testing.T) {
	obj := NewObject(Circle(50, 50, 10), true)

	obj.OnPointerEvent(EventMove, EventData{X: 90, Y: 90})
	if obj.Position() != geom.Pt(50, 50) {
		t.Fatal("idle object moved")
	}

	obj.OnPointerEvent(EventDownInside, EventData{X: 55, Y: 52})
	if obj.State() != StateDragging {
		t.Fatal("expected dragging")
	}

	obj.OnPointerEvent(EventMove, EventData{X: 105, Y: 152})
	if got := obj.Position(); got != geom.Pt(100, 150) {
		t.Errorf("position = %+v, want (100, 150)", got)
	}

	obj.OnPointerEvent(EventUpOutside, EventData{})
	if obj.State() != StateIdle {
		t.Error("up should return to idle")
	}
}

func TestNonDraggableIgnoresDown(t *testing.T) {
	obj := NewObject(Rectangle(0, 0, 10, 10), false)
	obj.OnPointerEvent(EventDownInside, EventData{})
	if obj.State() != StateIdle {
		t.Error("non-draggable object started dragging")
	}
}

func TestDistanceTo(t *testing.T) {
	a := NewObject(Circle(0, 0, 1), false)
	b := NewObject(Circle(30, 40, 1), false)
	if d := a.DistanceTo(b); d != 50 {
		t.Errorf("DistanceTo = %v, want 50", d)
	}
}
