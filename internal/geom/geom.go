// Package geom provides the 2D primitives shared by the scene engine, the
// collision resolver and the scoring algorithms:
// - points, boxes and square extents
// - bounding boxes and box intersection
// - scalar and colour interpolation
// - the window-to-surface coordinate conversion
package geom

import "math"

// Point is a 2D coordinate.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Box is an axis-aligned rectangle anchored at its top-left corner.
type Box struct {
	X float64
	Y float64
	W float64
	H float64
}

// Area returns W*H.
func (b Box) Area() float64 { return b.W * b.H }

// IsEmpty reports whether the box has zero or negative area.
func (b Box) IsEmpty() bool { return b.W <= 0 || b.H <= 0 }

// Contains reports whether (x, y) lies inside the box, edges included.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.W && y >= b.Y && y <= b.Y+b.H
}

// Center returns the centre point of the box.
func (b Box) Center() Point { return Point{b.X + b.W/2, b.Y + b.H/2} }

// Square is a square extent anchored at its top-left corner. The proximity
// game treats both its squares and its circles as squares of their size.
type Square struct {
	X    float64
	Y    float64
	Size float64
}

// Center returns the centre of the square.
func (s Square) Center() Point { return Point{s.X + s.Size/2, s.Y + s.Size/2} }

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// BoundingBox returns the box enclosing every square, grown by padding on all
// four sides. An empty input yields the zero box at the origin; callers must
// not read that as a finished layout.
func BoundingBox(items []Square, padding float64) Box {
	if len(items) == 0 {
		return Box{}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range items {
		minX = math.Min(minX, s.X)
		minY = math.Min(minY, s.Y)
		maxX = math.Max(maxX, s.X+s.Size)
		maxY = math.Max(maxY, s.Y+s.Size)
	}

	return Box{
		X: minX - padding,
		Y: minY - padding,
		W: maxX - minX + padding*2,
		H: maxY - minY + padding*2,
	}
}

// Intersect returns the overlap of a and b. Boxes that only share an edge do
// not intersect.
func Intersect(a, b Box) (Box, bool) {
	x1 := math.Max(a.X, b.X)
	y1 := math.Max(a.Y, b.Y)
	x2 := math.Min(a.X+a.W, b.X+b.W)
	y2 := math.Min(a.Y+a.H, b.Y+b.H)
	if x1 < x2 && y1 < y2 {
		return Box{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}, true
	}
	return Box{}, false
}

// Lerp interpolates linearly between a and b. t is not clamped; callers clamp
// with Clamp01 first.
func Lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// Clamp limits v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 { return Clamp(v, 0, 1) }
