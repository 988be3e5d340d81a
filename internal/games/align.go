package games

import (
	"math/rand/v2"

	"github.com/samui/samui/backend-go/internal/engine"
	"github.com/samui/samui/backend-go/internal/geom"
	"github.com/samui/samui/backend-go/internal/scoring"
)

const (
	AlignID     = "align"
	AlignHeight = 400

	alignLineOffset = 15
	alignSnap       = 2
	alignBarHeight  = 40
)

var alignBarY = [...]float64{50, 120, 190, 260, 330}

// alignRange is the random layout range for one breakpoint.
type alignRange struct {
	maxWidth       float64
	minBar, maxBar int
	offset         int
}

var alignBreakpoints = []alignRange{
	{maxWidth: 480, minBar: 150, maxBar: 250, offset: 100},
	{maxWidth: 768, minBar: 200, maxBar: 350, offset: 120},
}

var alignDefaultRange = alignRange{minBar: 200, maxBar: 500, offset: 150}

func alignRangeFor(width float64) alignRange {
	for _, r := range alignBreakpoints {
		if width <= r.maxWidth {
			return r
		}
	}
	return alignDefaultRange
}

// Align asks the player to drag five bars until their left edges line up.
type Align struct {
	rng     *rand.Rand
	width   float64
	height  float64
	bars    []scoring.Bar
	session Session
	hover   int
}

// NewAlign lays out a new game for a container of the given width.
func NewAlign(width float64, rng *rand.Rand) *Align {
	if rng == nil {
		rng = newRand()
	}
	g := &Align{rng: rng, hover: -1}
	g.Resize(width, AlignHeight)
	return g
}

func (g *Align) ID() string { return AlignID }

func (g *Align) Size() (float64, float64) { return g.width, g.height }

func (g *Align) Resize(width, height float64) {
	g.width, g.height = width, height
	r := alignRangeFor(width)
	g.bars = make([]scoring.Bar, len(alignBarY))
	for i := range g.bars {
		g.bars[i] = scoring.Bar{
			Width:  float64(randInt(g.rng, r.minBar, r.maxBar)),
			Offset: float64(randInt(g.rng, -r.offset, r.offset)),
		}
	}
	g.session.End()
	g.hover = -1
}

// Bars returns a copy of the current bars.
func (g *Align) Bars() []scoring.Bar {
	return append([]scoring.Bar(nil), g.bars...)
}

func (g *Align) barBox(i int) geom.Box {
	b := g.bars[i]
	return geom.Box{X: b.Anchor(g.width), Y: alignBarY[i], W: b.Width, H: alignBarHeight}
}

func (g *Align) barAt(p geom.Point) int {
	for i := range g.bars {
		if g.barBox(i).Contains(p.X, p.Y) {
			return i
		}
	}
	return -1
}

func (g *Align) PointerDown(p geom.Point) {
	if i := g.barAt(p); i >= 0 {
		g.session.Begin(i, p, geom.Pt(g.bars[i].Offset, 0))
		g.hover = -1
	}
}

func (g *Align) PointerMove(p geom.Point) {
	if !g.session.Active() {
		g.hover = g.barAt(p)
		return
	}
	i := g.session.Index()
	offset := Snap(g.session.StartValue().X+g.session.Delta(p).X, alignSnap)
	limit := g.width/2 - g.bars[i].Width/2
	g.bars[i].Offset = geom.Clamp(offset, -limit, limit)
}

func (g *Align) PointerUp(geom.Point) { g.session.End() }

func (g *Align) Step() {}

func (g *Align) Percentage() int {
	return scoring.Alignment(g.bars, g.width)
}

func (g *Align) Draw(s engine.Surface) {
	if s == nil {
		return
	}
	s.Clear(geom.Box{W: g.width, H: g.height})

	for i := range g.bars {
		engine.Draw(s, engine.RectangleFromBox(g.barBox(i)).WithFill(colorBar))
	}

	done := g.Percentage() == 100
	points := make([]geom.Point, len(g.bars))
	for i, b := range g.bars {
		points[i] = geom.Pt(b.Anchor(g.width)-alignLineOffset, alignBarY[i]+alignBarHeight/2)
	}
	if done && len(points) > 0 {
		x := points[0].X
		for i := range points {
			points[i].X = x
		}
		engine.Draw(s, engine.Polyline(points...).WithStroke(colorGuideDone, 2))
	} else {
		engine.Draw(s, engine.Polyline(points...).WithStroke(colorGuide, 3, 10, 15))
	}

	if g.hover >= 0 && !g.session.Active() {
		engine.Draw(s, engine.RectangleFromBox(g.barBox(g.hover)).WithStroke(colorGray, hoverWidth, hoverDash...))
	}
}

func (g *Align) Snapshot() State {
	return &AlignState{Width: g.width, Bars: g.Bars()}
}

// randInt returns a uniform integer in [lo, hi].
func randInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return rng.IntN(hi-lo+1) + lo
}
