package engine

import (
	"fmt"
	"math"

	"github.com/samui/samui/backend-go/internal/geom"
)

// ShapeKind tags the Shape variant.
type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeRectangle
	ShapeTriangle // drawing only
	ShapePolyline // drawing only, stroke only
)

var shapeKindNames = [...]string{"circle", "rectangle", "triangle", "polyline"}

func (k ShapeKind) String() string {
	if int(k) < len(shapeKindNames) {
		return shapeKindNames[k]
	}
	return fmt.Sprintf("ShapeKind(%d)", int(k))
}

func (k ShapeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *ShapeKind) UnmarshalText(text []byte) error {
	for i, name := range shapeKindNames {
		if name == string(text) {
			*k = ShapeKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown shape kind %q", text)
}

// Default stroke settings applied when a stroke omits them.
const (
	DefaultStrokeWidth = 2
)

// DefaultDash is used for strokes marked dashed without an explicit pattern.
var DefaultDash = []float64{10}

// Stroke describes an outline. A nil Dash draws a solid line.
type Stroke struct {
	Color geom.Color
	Width float64
	Dash  []float64
}

// Shape is a tagged variant. X and Y are the centre for circles and
// rectangles; triangles and polylines carry absolute Points.
type Shape struct {
	Kind   ShapeKind
	X      float64
	Y      float64
	Radius float64
	Width  float64
	Height float64
	Points []geom.Point

	Fill   *geom.Color
	Stroke *Stroke
}

// Circle returns an unfilled circle centred at (x, y).
func Circle(x, y, radius float64) Shape {
	return Shape{Kind: ShapeCircle, X: x, Y: y, Radius: radius}
}

// Rectangle returns an unfilled rectangle centred at (x, y).
func Rectangle(x, y, w, h float64) Shape {
	return Shape{Kind: ShapeRectangle, X: x, Y: y, Width: w, Height: h}
}

// RectangleFromBox returns the rectangle covering b.
func RectangleFromBox(b geom.Box) Shape {
	c := b.Center()
	return Rectangle(c.X, c.Y, b.W, b.H)
}

// Triangle returns a triangle through a, b and c.
func Triangle(a, b, c geom.Point) Shape {
	return Shape{Kind: ShapeTriangle, Points: []geom.Point{a, b, c}}
}

// Polyline returns an open path through points.
func Polyline(points ...geom.Point) Shape {
	return Shape{Kind: ShapePolyline, Points: points}
}

// WithFill returns a copy of s filled with c.
func (s Shape) WithFill(c geom.Color) Shape {
	s.Fill = &c
	return s
}

// WithStroke returns a copy of s outlined with c. A zero width falls back to
// DefaultStrokeWidth.
func (s Shape) WithStroke(c geom.Color, width float64, dash ...float64) Shape {
	if width <= 0 {
		width = DefaultStrokeWidth
	}
	st := &Stroke{Color: c, Width: width}
	if len(dash) > 0 {
		st.Dash = append([]float64(nil), dash...)
	}
	s.Stroke = st
	return s
}

// Center returns the shape's reference point.
func (s Shape) Center() geom.Point {
	switch s.Kind {
	case ShapeCircle, ShapeRectangle:
		return geom.Pt(s.X, s.Y)
	default:
		return Bounds(s).Center()
	}
}

// MoveTo repositions the shape so its centre is at p.
func (s *Shape) MoveTo(p geom.Point) {
	switch s.Kind {
	case ShapeCircle, ShapeRectangle:
		s.X, s.Y = p.X, p.Y
	default:
		d := p.Sub(s.Center())
		for i := range s.Points {
			s.Points[i] = s.Points[i].Add(d)
		}
	}
}

// HitTest reports whether (x, y) lies within s. Circles include their
// boundary. Rectangles use [low, high) on both axes, so the left and top edges
// hit and the right and bottom edges do not. Polylines never hit.
func HitTest(s Shape, x, y float64) bool {
	switch s.Kind {
	case ShapeCircle:
		return geom.Distance(geom.Pt(s.X, s.Y), geom.Pt(x, y)) <= s.Radius
	case ShapeRectangle:
		return x >= s.X-s.Width/2 && x < s.X+s.Width/2 &&
			y >= s.Y-s.Height/2 && y < s.Y+s.Height/2
	case ShapeTriangle:
		if len(s.Points) != 3 {
			return false
		}
		return inTriangle(geom.Pt(x, y), s.Points[0], s.Points[1], s.Points[2])
	default:
		return false
	}
}

func inTriangle(p, a, b, c geom.Point) bool {
	cross := func(o, u, v geom.Point) float64 {
		return (u.X-o.X)*(v.Y-o.Y) - (u.Y-o.Y)*(v.X-o.X)
	}
	d1 := cross(p, a, b)
	d2 := cross(p, b, c)
	d3 := cross(p, c, a)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// Bounds returns the axis-aligned box enclosing s.
func Bounds(s Shape) geom.Box {
	switch s.Kind {
	case ShapeCircle:
		return geom.Box{X: s.X - s.Radius, Y: s.Y - s.Radius, W: s.Radius * 2, H: s.Radius * 2}
	case ShapeRectangle:
		return geom.Box{X: s.X - s.Width/2, Y: s.Y - s.Height/2, W: s.Width, H: s.Height}
	default:
		if len(s.Points) == 0 {
			return geom.Box{}
		}
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, p := range s.Points {
			minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
			maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
		}
		return geom.Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
	}
}

// Vertices returns the corners of the box enclosing s in the order top-left,
// top-right, bottom-left, bottom-right. A circle's vertices are its bounding
// square's corners.
func Vertices(s Shape) [4]geom.Point {
	b := Bounds(s)
	return [4]geom.Point{
		{X: b.X, Y: b.Y},
		{X: b.X + b.W, Y: b.Y},
		{X: b.X, Y: b.Y + b.H},
		{X: b.X + b.W, Y: b.Y + b.H},
	}
}

// Draw renders s onto surface: fill first, then stroke. The stroke is solid
// unless the shape carries a dash pattern.
func Draw(surface Surface, s Shape) {
	if surface == nil {
		return
	}
	if s.Fill != nil && s.Kind != ShapePolyline {
		surface.FillShape(s, *s.Fill)
	}
	if s.Stroke != nil {
		width := s.Stroke.Width
		if width <= 0 {
			width = DefaultStrokeWidth
		}
		surface.StrokeShape(s, s.Stroke.Color, width, s.Stroke.Dash)
	}
}
