package games

import (
	"math/rand/v2"

	"github.com/samui/samui/backend-go/internal/collide"
	"github.com/samui/samui/backend-go/internal/engine"
	"github.com/samui/samui/backend-go/internal/geom"
	"github.com/samui/samui/backend-go/internal/scoring"
)

const (
	ProximityID           = "proximity"
	ProximityHeight       = 500
	ProximityDefaultWidth = 1320

	proximityUnit     = 10
	proximityPerKind  = 4
	proximityMinMult  = 3
	proximityMaxMult  = 6
	proximityGridCols = 4
	proximityGridRows = 2

	// proximityCell fits the largest shape with group padding on each side.
	proximityCell = proximityMaxMult*proximityUnit + scoring.GroupPadding*2
)

// Shape kinds in the proximity game.
const (
	KindSquare = "square"
	KindCircle = "circle"
)

// ProximityShape is one draggable shape. X and Y are its top-left corner;
// circles are treated as squares of their diameter.
type ProximityShape struct {
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
}

func (s ProximityShape) square() geom.Square {
	return geom.Square{X: s.X, Y: s.Y, Size: s.Size}
}

func (s ProximityShape) box() geom.Box {
	return geom.Box{X: s.X, Y: s.Y, W: s.Size, H: s.Size}
}

// Proximity asks the player to gather squares and circles into two tight,
// separate groups.
type Proximity struct {
	rng    *rand.Rand
	width  float64
	height float64
	shapes []ProximityShape

	minSquares  float64
	minCircles  float64
	initialArea float64

	session Session
}

func NewProximity(width float64, rng *rand.Rand) *Proximity {
	if width <= 0 {
		width = ProximityDefaultWidth
	}
	if rng == nil {
		rng = newRand()
	}
	g := &Proximity{rng: rng}
	g.Resize(width, ProximityHeight)
	return g
}

func (g *Proximity) ID() string { return ProximityID }

func (g *Proximity) Size() (float64, float64) { return g.width, g.height }

// Resize scatters the shapes over a shuffled 4x2 grid, settles them and
// records the areas the score is measured against.
func (g *Proximity) Resize(width, height float64) {
	g.width, g.height = width, height
	g.session.End()

	cell := float64(proximityCell)
	startX := (width - proximityGridCols*cell) / 2
	startY := (height - proximityGridRows*cell) / 2

	cells := make([]geom.Point, 0, proximityGridCols*proximityGridRows)
	for r := 0; r < proximityGridRows; r++ {
		for c := 0; c < proximityGridCols; c++ {
			cells = append(cells, geom.Pt(startX+float64(c)*cell, startY+float64(r)*cell))
		}
	}
	g.rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })

	g.shapes = make([]ProximityShape, proximityPerKind*2)
	for i := range g.shapes {
		size := float64(randInt(g.rng, proximityMinMult, proximityMaxMult) * proximityUnit)
		kind := KindSquare
		if i >= proximityPerKind {
			kind = KindCircle
		}
		g.shapes[i] = ProximityShape{
			Kind: kind,
			X:    cells[i].X + (cell-size)/2,
			Y:    cells[i].Y + (cell-size)/2,
			Size: size,
		}
	}
	g.settle()

	squares, circles := g.groups()
	g.minSquares = scoring.MinimumArea(squares)
	g.minCircles = scoring.MinimumArea(circles)
	sq, ci, _, _ := scoring.GroupBoxes(squares, circles)
	g.initialArea = sq.Area() + ci.Area()
}

func (g *Proximity) settle() {
	bodies := make([]geom.Square, len(g.shapes))
	for i, s := range g.shapes {
		bodies[i] = s.square()
	}
	collide.Resolve(bodies, collide.DefaultOptions(g.width, g.height))
	for i := range g.shapes {
		g.shapes[i].X, g.shapes[i].Y = bodies[i].X, bodies[i].Y
	}
}

func (g *Proximity) groups() (squares, circles []geom.Square) {
	for _, s := range g.shapes {
		if s.Kind == KindSquare {
			squares = append(squares, s.square())
		} else {
			circles = append(circles, s.square())
		}
	}
	return squares, circles
}

// Shapes returns a copy of the current shapes in draw order.
func (g *Proximity) Shapes() []ProximityShape {
	return append([]ProximityShape(nil), g.shapes...)
}

func (g *Proximity) PointerDown(p geom.Point) {
	for i := len(g.shapes) - 1; i >= 0; i-- {
		s := g.shapes[i]
		if s.box().Contains(p.X, p.Y) {
			g.session.Begin(i, p, geom.Pt(s.X, s.Y))
			return
		}
	}
}

func (g *Proximity) PointerMove(p geom.Point) {
	if !g.session.Active() {
		return
	}
	next := g.session.StartValue().Add(g.session.Delta(p))
	s := &g.shapes[g.session.Index()]
	s.X = Snap(next.X, proximityUnit)
	s.Y = Snap(next.Y, proximityUnit)
}

// PointerUp settles the layout after a drag.
func (g *Proximity) PointerUp(geom.Point) {
	if !g.session.Active() {
		return
	}
	g.settle()
	g.session.End()
}

func (g *Proximity) Step() {}

func (g *Proximity) score() scoring.ProximityScore {
	squares, circles := g.groups()
	return scoring.Proximity(scoring.ProximityInput{
		Squares:     squares,
		Circles:     circles,
		MinArea:     g.minSquares + g.minCircles,
		InitialArea: g.initialArea,
	})
}

func (g *Proximity) Percentage() int { return g.score().Percentage }

func (g *Proximity) Draw(s engine.Surface) {
	if s == nil {
		return
	}
	s.Clear(geom.Box{W: g.width, H: g.height})

	for _, sh := range g.shapes {
		c := sh.box().Center()
		if sh.Kind == KindSquare {
			engine.Draw(s, engine.Rectangle(c.X, c.Y, sh.Size, sh.Size).WithFill(colorGray))
		} else {
			engine.Draw(s, engine.Circle(c.X, c.Y, sh.Size/2).WithFill(colorGray))
		}
	}

	if !g.session.Active() {
		return
	}

	squares, circles := g.groups()
	sq, ci, overlap, ok := scoring.GroupBoxes(squares, circles)
	if ok {
		engine.Draw(s, engine.RectangleFromBox(overlap).WithFill(colorOverlap))
	}
	for i, box := range []geom.Box{sq, ci} {
		target := g.minSquares
		if i == 1 {
			target = g.minCircles
		}
		outline := engine.RectangleFromBox(box)
		if box.Area() <= target {
			outline = outline.WithStroke(colorGreen, 2)
		} else {
			outline = outline.WithStroke(colorGray, 2, hoverDash...)
		}
		engine.Draw(s, outline)
	}
}

func (g *Proximity) Snapshot() State {
	return &ProximityState{
		Width:       g.width,
		Height:      g.height,
		Shapes:      g.Shapes(),
		MinSquares:  g.minSquares,
		MinCircles:  g.minCircles,
		InitialArea: g.initialArea,
	}
}
