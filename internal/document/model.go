package document

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SceneDoc is the serialisable form of a room: its surface size and its
// objects in draw order.
type SceneDoc struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Width   float64      `json:"width"`
	Height  float64      `json:"height"`
	Objects []ObjectNode `json:"objects"`
}

type ObjectType string

const (
	ObjectTypeCircle    ObjectType = "Circle"
	ObjectTypeRectangle ObjectType = "Rectangle"
)

type Style struct {
	Fill        string    `json:"fill,omitempty"`
	Stroke      string    `json:"stroke,omitempty"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
	Dash        []float64 `json:"dash,omitempty"`
}

// ObjectNode is one scene object. X and Y are the centre.
type ObjectNode struct {
	ID        string     `json:"id"`
	Type      ObjectType `json:"type"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	Radius    float64    `json:"radius,omitempty"`
	Width     float64    `json:"width,omitempty"`
	Height    float64    `json:"height,omitempty"`
	Style     Style      `json:"style"`
	Draggable bool       `json:"draggable"`
}

var ErrInvalidScene = errors.New("invalid scene document")

// Parse decodes and validates a scene document.
func Parse(data []byte) (*SceneDoc, error) {
	var doc SceneDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks that every object has positive geometry.
func (d *SceneDoc) Validate() error {
	if d.Width < 0 || d.Height < 0 {
		return fmt.Errorf("%w: negative surface size %vx%v", ErrInvalidScene, d.Width, d.Height)
	}
	for i, obj := range d.Objects {
		switch obj.Type {
		case ObjectTypeCircle:
			if obj.Radius <= 0 {
				return fmt.Errorf("%w: object %d (%s): radius must be positive", ErrInvalidScene, i, obj.ID)
			}
		case ObjectTypeRectangle:
			if obj.Width <= 0 || obj.Height <= 0 {
				return fmt.Errorf("%w: object %d (%s): width and height must be positive", ErrInvalidScene, i, obj.ID)
			}
		default:
			return fmt.Errorf("%w: object %d (%s): unknown type %q", ErrInvalidScene, i, obj.ID, obj.Type)
		}
		if obj.Style.StrokeWidth < 0 {
			return fmt.Errorf("%w: object %d (%s): negative stroke width", ErrInvalidScene, i, obj.ID)
		}
	}
	return nil
}

// JSON encodes the document.
func (d *SceneDoc) JSON() ([]byte, error) {
	return json.Marshal(d)
}
