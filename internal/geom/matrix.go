package geom

// Matrix2D is a 2D affine transformation.
// Layout: [a, b, c, d, e, f] representing:
// | a  c  e |
// | b  d  f |
// | 0  0  1 |
type Matrix2D [6]float64

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix2D {
	return Matrix2D{1, 0, 0, 1, tx, ty}
}

// Scale returns a scale matrix.
func Scale(sx, sy float64) Matrix2D {
	return Matrix2D{sx, 0, 0, sy, 0, 0}
}

// Multiply returns m * other: other is applied first, then m.
func (m Matrix2D) Multiply(other Matrix2D) Matrix2D {
	return Matrix2D{
		m[0]*other[0] + m[2]*other[1],
		m[1]*other[0] + m[3]*other[1],
		m[0]*other[2] + m[2]*other[3],
		m[1]*other[2] + m[3]*other[3],
		m[0]*other[4] + m[2]*other[5] + m[4],
		m[1]*other[4] + m[3]*other[5] + m[5],
	}
}

// Apply transforms p.
func (m Matrix2D) Apply(p Point) Point {
	return Point{m[0]*p.X + m[2]*p.Y + m[4], m[1]*p.X + m[3]*p.Y + m[5]}
}

// SurfaceTransform maps window coordinates onto a drawing surface whose
// on-screen element occupies element (CSS pixels) and whose backing buffer is
// backingW x backingH.
func SurfaceTransform(element Box, backingW, backingH float64) Matrix2D {
	sx, sy := 1.0, 1.0
	if element.W > 0 {
		sx = backingW / element.W
	}
	if element.H > 0 {
		sy = backingH / element.H
	}
	return Scale(sx, sy).Multiply(Translate(-element.X, -element.Y))
}

// WindowToSurface converts a window/client point into surface coordinates.
// A collapsed element keeps a 1:1 scale on that axis.
func WindowToSurface(element Box, backingW, backingH float64, p Point) Point {
	return SurfaceTransform(element, backingW, backingH).Apply(p)
}
