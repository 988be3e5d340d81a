package engine

import (
	"fmt"

	"github.com/samui/samui/backend-go/internal/document"
	"github.com/samui/samui/backend-go/internal/geom"
)

// Snapshot captures the room's objects in draw order.
func (r *Room) Snapshot() *document.SceneDoc {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := &document.SceneDoc{
		Width:   r.bounds.W,
		Height:  r.bounds.H,
		Objects: make([]document.ObjectNode, 0, len(r.objects)),
	}
	for _, obj := range r.objects {
		doc.Objects = append(doc.Objects, NodeFromObject(obj))
	}
	return doc
}

// NodeFromObject converts a live object to its document form.
func NodeFromObject(obj *Object) document.ObjectNode {
	s := obj.Shape
	node := document.ObjectNode{
		ID:        obj.ID,
		X:         s.X,
		Y:         s.Y,
		Draggable: obj.Draggable,
	}
	switch s.Kind {
	case ShapeCircle:
		node.Type = document.ObjectTypeCircle
		node.Radius = s.Radius
	default:
		node.Type = document.ObjectTypeRectangle
		node.Width, node.Height = s.Width, s.Height
	}
	if s.Fill != nil {
		node.Style.Fill = s.Fill.String()
	}
	if s.Stroke != nil {
		node.Style.Stroke = s.Stroke.Color.String()
		node.Style.StrokeWidth = s.Stroke.Width
		node.Style.Dash = append([]float64(nil), s.Stroke.Dash...)
	}
	return node
}

// ObjectFromNode builds a detached object from its document form.
func ObjectFromNode(node document.ObjectNode) (*Object, error) {
	var shape Shape
	switch node.Type {
	case document.ObjectTypeCircle:
		shape = Circle(node.X, node.Y, node.Radius)
	case document.ObjectTypeRectangle:
		shape = Rectangle(node.X, node.Y, node.Width, node.Height)
	default:
		return nil, fmt.Errorf("object %s: unknown type %q", node.ID, node.Type)
	}

	if node.Style.Fill != "" {
		c, err := geom.ParseColor(node.Style.Fill)
		if err != nil {
			return nil, fmt.Errorf("object %s fill: %w", node.ID, err)
		}
		shape = shape.WithFill(c)
	}
	if node.Style.Stroke != "" {
		c, err := geom.ParseColor(node.Style.Stroke)
		if err != nil {
			return nil, fmt.Errorf("object %s stroke: %w", node.ID, err)
		}
		shape = shape.WithStroke(c, node.Style.StrokeWidth, node.Style.Dash...)
	}

	obj := NewObject(shape, node.Draggable)
	if node.ID != "" {
		obj.ID = node.ID
	}
	return obj, nil
}

// Restore builds a room from doc, drawing onto surface and listening on src.
func Restore(doc *document.SceneDoc, surface Surface, src PointerSource) (*Room, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	objects := make([]*Object, 0, len(doc.Objects))
	for _, node := range doc.Objects {
		obj, err := ObjectFromNode(node)
		if err != nil {
			return nil, fmt.Errorf("restore scene: %w", err)
		}
		objects = append(objects, obj)
	}

	room := NewRoom(surface, geom.Box{W: doc.Width, H: doc.Height}, src)
	for _, obj := range objects {
		room.AddObject(obj)
	}
	return room, nil
}
