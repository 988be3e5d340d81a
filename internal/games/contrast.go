package games

import (
	"github.com/samui/samui/backend-go/internal/engine"
	"github.com/samui/samui/backend-go/internal/geom"
	"github.com/samui/samui/backend-go/internal/scoring"
)

const (
	ContrastID     = "contrast"
	ContrastHeight = 400

	contrastSquares     = 5
	contrastBaseSize    = 60
	contrastMaxSize     = contrastBaseSize * 2.5
	contrastGap         = 40
	contrastSensitivity = 300
	contrastSnap        = 0.05
	contrastHint        = "<------->"
	contrastHintSize    = 24
)

// Contrast asks the player to drag one square until it grows to full size and
// turns green. The percentage follows the square dragged last.
type Contrast struct {
	width    float64
	height   float64
	progress []float64
	active   int
	session  Session
	hover    int
}

func NewContrast(width float64) *Contrast {
	g := &Contrast{}
	g.Resize(width, ContrastHeight)
	return g
}

func (g *Contrast) ID() string { return ContrastID }

func (g *Contrast) Size() (float64, float64) { return g.width, g.height }

func (g *Contrast) Resize(width, height float64) {
	g.width, g.height = width, height
	g.progress = make([]float64, contrastSquares)
	g.active = -1
	g.hover = -1
	g.session.End()
}

// squareSize grows linearly over the first half of progress, then holds.
func squareSize(progress float64) float64 {
	if progress <= 0.5 {
		return geom.Lerp(contrastBaseSize, contrastMaxSize, geom.Clamp01(progress*2))
	}
	return contrastMaxSize
}

// squareColor holds the base colour over the first half of progress, then
// blends toward green.
func squareColor(progress float64) geom.Color {
	if progress <= 0.5 {
		return colorLightGray
	}
	return geom.LerpColor(colorLightGray, colorGreen, geom.Clamp01((progress-0.5)*2))
}

func (g *Contrast) bottom() float64 { return g.height/2 + contrastMaxSize/2 }

// layout returns each square's drawn box. Squares sit on a common baseline,
// centred as a row.
func (g *Contrast) layout() []geom.Box {
	total := float64(contrastSquares-1) * contrastGap
	for _, p := range g.progress {
		total += squareSize(p)
	}
	x := (g.width - total) / 2
	boxes := make([]geom.Box, len(g.progress))
	for i, p := range g.progress {
		size := squareSize(p)
		boxes[i] = geom.Box{X: x, Y: g.bottom() - size, W: size, H: size}
		x += size + contrastGap
	}
	return boxes
}

func (g *Contrast) squareAt(p geom.Point) int {
	for i, b := range g.layout() {
		if b.Contains(p.X, p.Y) {
			return i
		}
	}
	return -1
}

// Progress returns a copy of every square's progress.
func (g *Contrast) Progress() []float64 {
	return append([]float64(nil), g.progress...)
}

func (g *Contrast) PointerDown(p geom.Point) {
	if i := g.squareAt(p); i >= 0 {
		g.active = i
		g.session.Begin(i, p, geom.Pt(g.progress[i], 0))
	}
}

func (g *Contrast) PointerMove(p geom.Point) {
	if !g.session.Active() {
		g.hover = g.squareAt(p)
		return
	}
	delta := g.session.Delta(p).X / contrastSensitivity
	next := Snap(g.session.StartValue().X+delta, contrastSnap)
	g.progress[g.session.Index()] = geom.Clamp01(next)
}

func (g *Contrast) PointerUp(geom.Point) { g.session.End() }

func (g *Contrast) Step() {}

func (g *Contrast) Percentage() int {
	if g.active < 0 {
		return 0
	}
	return scoring.Growth(g.progress[g.active])
}

func (g *Contrast) Draw(s engine.Surface) {
	if s == nil {
		return
	}
	s.Clear(geom.Box{W: g.width, H: g.height})

	for i, b := range g.layout() {
		// Squares keep their grown size, but only the active one is tinted.
		fill := colorLightGray
		if i == g.active {
			fill = squareColor(g.progress[i])
		}
		engine.Draw(s, engine.RectangleFromBox(b).WithFill(fill))

		if i == g.hover && !g.session.Active() {
			outline := geom.Box{
				X: b.X - (contrastMaxSize-b.W)/2,
				Y: g.bottom() - contrastMaxSize,
				W: contrastMaxSize,
				H: contrastMaxSize,
			}
			engine.Draw(s, engine.RectangleFromBox(outline).WithStroke(colorGray, hoverWidth, hoverDash...))
		}
	}

	if g.session.Active() {
		engine.DrawTextCentered(s, contrastHint, g.width/2, g.height-30, contrastHintSize, colorHint)
	}
}

func (g *Contrast) Snapshot() State {
	return &ContrastState{Progress: g.Progress(), Active: g.active}
}
