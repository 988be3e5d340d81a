// Package terminal draws games in a terminal with tcell and plays them with
// the mouse.
package terminal

import (
	"math"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/samui/samui/backend-go/internal/engine"
	"github.com/samui/samui/backend-go/internal/geom"
)

// upperHalf renders two pixels per cell: foreground on top, background below.
const upperHalf = '▀'

type textCell struct {
	r rune
	c geom.Color
}

// Surface rasterises onto a grid of half-block cells. Each cell holds two
// pixels stacked vertically. Dash patterns are drawn solid.
type Surface struct {
	Background geom.Color

	cols, rows    int
	width, height float64
	pixels        []geom.Color
	text          map[int]textCell
	clips         []geom.Box
}

var _ engine.Surface = (*Surface)(nil)

// NewSurface maps a width x height game surface onto cols x rows cells.
func NewSurface(cols, rows int, width, height float64) *Surface {
	s := &Surface{Background: geom.RGB(255, 255, 255)}
	s.Resize(cols, rows, width, height)
	return s
}

// Resize changes the grid or the mapped surface size and clears everything.
func (s *Surface) Resize(cols, rows int, width, height float64) {
	s.cols, s.rows = max(cols, 1), max(rows, 1)
	s.width, s.height = width, height
	s.pixels = make([]geom.Color, s.cols*s.rows*2)
	for i := range s.pixels {
		s.pixels[i] = s.Background
	}
	s.text = make(map[int]textCell)
	s.clips = s.clips[:0]
}

func (s *Surface) Cells() (cols, rows int) { return s.cols, s.rows }

// pixelSize is the surface extent of one half-cell pixel.
func (s *Surface) pixelSize() (float64, float64) {
	return s.width / float64(s.cols), s.height / float64(s.rows*2)
}

func (s *Surface) pixelCenter(px, py int) geom.Point {
	pw, ph := s.pixelSize()
	return geom.Pt((float64(px)+0.5)*pw, (float64(py)+0.5)*ph)
}

// ToSurface maps the centre of cell (col, row) to surface coordinates.
func (s *Surface) ToSurface(col, row int) geom.Point {
	cells := geom.Box{W: float64(s.cols), H: float64(s.rows)}
	return geom.WindowToSurface(cells, s.width, s.height, geom.Pt(float64(col)+0.5, float64(row)+0.5))
}

// Pixel returns the colour of pixel (px, py); py counts half-cells.
func (s *Surface) Pixel(px, py int) geom.Color {
	if px < 0 || py < 0 || px >= s.cols || py >= s.rows*2 {
		return geom.Color{}
	}
	return s.pixels[py*s.cols+px]
}

func (s *Surface) visible(p geom.Point) bool {
	for _, c := range s.clips {
		if !c.Contains(p.X, p.Y) {
			return false
		}
	}
	return true
}

// span returns the pixel range covering box b.
func (s *Surface) span(b geom.Box) (x0, y0, x1, y1 int) {
	pw, ph := s.pixelSize()
	x0 = max(int(math.Floor(b.X/pw)), 0)
	y0 = max(int(math.Floor(b.Y/ph)), 0)
	x1 = min(int(math.Ceil((b.X+b.W)/pw)), s.cols-1)
	y1 = min(int(math.Ceil((b.Y+b.H)/ph)), s.rows*2-1)
	return
}

func (s *Surface) paint(b geom.Box, c geom.Color, inside func(geom.Point) bool) {
	x0, y0, x1, y1 := s.span(b)
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			p := s.pixelCenter(px, py)
			if inside(p) && s.visible(p) {
				s.blend(py*s.cols+px, c)
			}
		}
	}
}

func (s *Surface) blend(i int, c geom.Color) {
	if c.A == 255 {
		s.pixels[i] = c
		return
	}
	mixed := s.pixels[i].Colorful().BlendRgb(c.Colorful(), float64(c.A)/255)
	r, g, b := mixed.Clamped().RGB255()
	s.pixels[i] = geom.RGB(r, g, b)
}

func (s *Surface) Clear(region geom.Box) {
	bg := s.Background
	bg.A = 255
	s.paint(region, bg, func(p geom.Point) bool { return region.Contains(p.X, p.Y) })

	cw, ch := s.width/float64(s.cols), s.height/float64(s.rows)
	for i := range s.text {
		col, row := i%s.cols, i/s.cols
		if region.Contains((float64(col)+0.5)*cw, (float64(row)+0.5)*ch) {
			delete(s.text, i)
		}
	}
}

func (s *Surface) FillShape(shape engine.Shape, c geom.Color) {
	if shape.Kind == engine.ShapePolyline {
		return
	}
	s.paint(engine.Bounds(shape), c, func(p geom.Point) bool {
		return engine.HitTest(shape, p.X, p.Y)
	})
}

func (s *Surface) StrokeShape(shape engine.Shape, c geom.Color, width float64, _ []float64) {
	pw, ph := s.pixelSize()
	half := math.Max(width/2, math.Max(pw, ph)/2)
	b := engine.Bounds(shape)
	b = geom.Box{X: b.X - half, Y: b.Y - half, W: b.W + 2*half, H: b.H + 2*half}
	s.paint(b, c, func(p geom.Point) bool {
		return onOutline(shape, p, half)
	})
}

// onOutline reports whether p lies within half of the shape's outline.
func onOutline(shape engine.Shape, p geom.Point, half float64) bool {
	switch shape.Kind {
	case engine.ShapeCircle:
		return math.Abs(geom.Distance(p, geom.Pt(shape.X, shape.Y))-shape.Radius) <= half
	case engine.ShapeRectangle:
		dx := math.Abs(p.X - shape.X)
		dy := math.Abs(p.Y - shape.Y)
		hw, hh := shape.Width/2, shape.Height/2
		outer := dx <= hw+half && dy <= hh+half
		inner := dx < hw-half && dy < hh-half
		return outer && !inner
	default:
		pts := shape.Points
		n := len(pts)
		if shape.Kind == engine.ShapeTriangle && n > 0 {
			pts = append(pts[:n:n], pts[0])
		}
		for i := 1; i < len(pts); i++ {
			if segmentDistance(p, pts[i-1], pts[i]) <= half {
				return true
			}
		}
		return false
	}
}

func segmentDistance(p, a, b geom.Point) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return geom.Distance(p, a)
	}
	t := geom.Clamp01(((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2)
	return geom.Distance(p, geom.Pt(a.X+ab.X*t, a.Y+ab.Y*t))
}

// MeasureText counts one cell per rune.
func (s *Surface) MeasureText(text string, _ float64) float64 {
	return float64(utf8.RuneCountInString(text)) * s.width / float64(s.cols)
}

// DrawText places text in the cell row holding its baseline.
func (s *Surface) DrawText(text string, x, y, _ float64, c geom.Color) {
	cw, ch := s.width/float64(s.cols), s.height/float64(s.rows)
	row := int(math.Floor((y - ch/2) / ch))
	if row < 0 || row >= s.rows {
		return
	}
	col := int(math.Floor(x / cw))
	for _, r := range text {
		if col >= 0 && col < s.cols {
			p := geom.Pt((float64(col)+0.5)*cw, (float64(row)+0.5)*ch)
			if s.visible(p) {
				s.text[row*s.cols+col] = textCell{r: r, c: c}
			}
		}
		col++
	}
}

func (s *Surface) PushClip(region geom.Box) {
	s.clips = append(s.clips, region)
}

func (s *Surface) PopClip() {
	if len(s.clips) > 0 {
		s.clips = s.clips[:len(s.clips)-1]
	}
}

func tcellColor(c geom.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Show copies the grid to screen, anchored at the top-left cell.
func (s *Surface) Show(screen tcell.Screen) {
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			top := s.pixels[(row*2)*s.cols+col]
			bottom := s.pixels[(row*2+1)*s.cols+col]
			if tc, ok := s.text[row*s.cols+col]; ok {
				style := tcell.StyleDefault.Foreground(tcellColor(tc.c)).Background(tcellColor(bottom))
				screen.SetContent(col, row, tc.r, nil, style)
				continue
			}
			style := tcell.StyleDefault.Foreground(tcellColor(top)).Background(tcellColor(bottom))
			screen.SetContent(col, row, upperHalf, nil, style)
		}
	}
	screen.Show()
}
