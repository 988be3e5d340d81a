package engine

import (
	"github.com/samui/samui/backend-go/internal/geom"
	"github.com/samui/samui/backend-go/internal/typeid"
)

// ObjectState is the drag state of an Object.
type ObjectState int

const (
	StateIdle ObjectState = iota
	StateDragging
)

func (s ObjectState) String() string {
	if s == StateDragging {
		return "dragging"
	}
	return "idle"
}

// EventKind is the routed form of a pointer event, relative to one object.
type EventKind int

const (
	EventDownInside EventKind = iota
	EventDownOutside
	EventMove
	EventUpInside
	EventUpOutside
)

// EventData is the pointer position attached to an event.
type EventData struct {
	X float64
	Y float64
}

// Object is a drawable, optionally draggable entity living in at most one
// Room. Its position is the centre of its Shape.
type Object struct {
	ID        string
	Shape     Shape
	Draggable bool

	// OnJoin and OnLeave run with the owning room locked; they must not call
	// back into Room methods.
	OnJoin  func(*Object)
	OnLeave func(*Object)

	state      ObjectState
	dragOffset geom.Point
	room       *Room
}

// NewObject wraps shape. Only circles and rectangles are meaningful objects.
func NewObject(shape Shape, draggable bool) *Object {
	return &Object{
		ID:        typeid.NewObjectID(),
		Shape:     shape,
		Draggable: draggable,
	}
}

// Position returns the object's centre.
func (o *Object) Position() geom.Point { return geom.Pt(o.Shape.X, o.Shape.Y) }

// SetPosition moves the object's centre to p.
func (o *Object) SetPosition(p geom.Point) { o.Shape.X, o.Shape.Y = p.X, p.Y }

func (o *Object) State() ObjectState { return o.state }

// Room returns the owning room, or nil when detached.
func (o *Object) Room() *Room { return o.room }

func (o *Object) HitTest(x, y float64) bool { return HitTest(o.Shape, x, y) }

func (o *Object) Vertices() [4]geom.Point { return Vertices(o.Shape) }

// ContainsObject reports whether every vertex of other hits o.
func (o *Object) ContainsObject(other *Object) bool {
	for _, v := range other.Vertices() {
		if !o.HitTest(v.X, v.Y) {
			return false
		}
	}
	return true
}

// IntersectsObject reports whether any vertex of other hits o. It is not
// symmetric: a large object can cover a small one with none of its own
// corners inside it.
func (o *Object) IntersectsObject(other *Object) bool {
	for _, v := range other.Vertices() {
		if o.HitTest(v.X, v.Y) {
			return true
		}
	}
	return false
}

// DistanceTo returns the centre-to-centre distance.
func (o *Object) DistanceTo(other *Object) float64 {
	return geom.Distance(o.Position(), other.Position())
}

// OnPointerEvent advances the drag state machine. When routed by a Room the
// room lock is held.
func (o *Object) OnPointerEvent(kind EventKind, data EventData) {
	switch kind {
	case EventDownInside:
		if !o.Draggable || o.state == StateDragging {
			return
		}
		o.state = StateDragging
		o.dragOffset = geom.Pt(data.X-o.Shape.X, data.Y-o.Shape.Y)
		if o.room != nil {
			o.room.focusLocked(o)
		}
	case EventMove:
		if o.state == StateDragging {
			o.SetPosition(geom.Pt(data.X, data.Y).Sub(o.dragOffset))
		}
	case EventUpInside, EventUpOutside:
		o.state = StateIdle
	}
}

// Draw renders the object's shape.
func (o *Object) Draw(surface Surface) {
	Draw(surface, o.Shape)
}
