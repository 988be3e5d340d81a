package games

import (
	"fmt"

	"github.com/samui/samui/backend-go/internal/engine"
	"github.com/samui/samui/backend-go/internal/geom"
	"github.com/samui/samui/backend-go/internal/scoring"
)

const (
	RepetitionID     = "repetition"
	RepetitionHeight = 400

	repInView          = 3
	repShapeSize       = 50
	repShapeGap        = 30
	repRowHeight       = 80
	repViewportPadding = 20
	repSnap            = 15
	repTapes           = 4
	repHitSlack        = 15

	// RepetitionPatternWidth is one pattern's share of the tape.
	RepetitionPatternWidth = repInView * (repShapeSize + repShapeGap)
)

// Glyph kinds.
const (
	GlyphCircle   = "circle"
	GlyphSquare   = "square"
	GlyphTriangle = "triangle"
)

// Glyph is one repeated cell pattern.
type Glyph struct {
	Kind  string     `json:"kind"`
	Color geom.Color `json:"color"`
}

// RepetitionRow is either a fixed row repeating Pattern, or a draggable tape
// cycling through Patterns and scrolled by Offset.
type RepetitionRow struct {
	Y           float64 `json:"y"`
	Draggable   bool    `json:"draggable"`
	Pattern     Glyph   `json:"pattern,omitempty"`
	Patterns    []Glyph `json:"patterns,omitempty"`
	Offset      float64 `json:"offset"`
	TargetIndex int     `json:"targetIndex"`
}

func (r RepetitionRow) scoringRow() scoring.PatternRow {
	return scoring.PatternRow{
		Offset:      r.Offset,
		CellWidth:   RepetitionPatternWidth,
		Patterns:    len(r.Patterns),
		TargetIndex: r.TargetIndex,
	}
}

// patternRows collects the scoring view of every draggable row.
func patternRows(rows []RepetitionRow) []scoring.PatternRow {
	var out []scoring.PatternRow
	for _, r := range rows {
		if r.Draggable && len(r.Patterns) > 0 {
			out = append(out, r.scoringRow())
		}
	}
	return out
}

// Repetition asks the player to scroll two tapes until they continue the
// pattern set by the fixed rows above them.
type Repetition struct {
	width   float64
	height  float64
	rows    []RepetitionRow
	session Session
	hover   int
}

func NewRepetition(width float64) *Repetition {
	g := &Repetition{}
	g.Resize(width, RepetitionHeight)
	return g
}

func (g *Repetition) ID() string { return RepetitionID }

func (g *Repetition) Size() (float64, float64) { return g.width, g.height }

func (g *Repetition) Resize(width, height float64) {
	g.width, g.height = width, height
	g.session.End()
	g.hover = -1

	startY := (height - 4*repRowHeight) / 2
	g.rows = []RepetitionRow{
		{Y: startY, Pattern: Glyph{GlyphCircle, colorLightGray}},
		{Y: startY + repRowHeight, Pattern: Glyph{GlyphSquare, colorGreen}},
		{
			Y:           startY + repRowHeight*2,
			Draggable:   true,
			Patterns:    []Glyph{{GlyphTriangle, colorGreen}, {GlyphCircle, colorLightGray}},
			TargetIndex: 1,
		},
		{
			Y:           startY + repRowHeight*3,
			Draggable:   true,
			Patterns:    []Glyph{{GlyphSquare, colorLightGray}, {GlyphSquare, colorGreen}},
			TargetIndex: 1,
		},
	}
}

// Rows returns a copy of the rows.
func (g *Repetition) Rows() []RepetitionRow {
	out := make([]RepetitionRow, len(g.rows))
	for i, r := range g.rows {
		r.Patterns = append([]Glyph(nil), r.Patterns...)
		out[i] = r
	}
	return out
}

// SetOffset scrolls draggable row i directly.
func (g *Repetition) SetOffset(i int, offset float64) error {
	if i < 0 || i >= len(g.rows) || !g.rows[i].Draggable {
		return fmt.Errorf("row %d is not draggable", i)
	}
	g.rows[i].Offset = offset
	return nil
}

func (g *Repetition) rowAt(p geom.Point) int {
	for i, r := range g.rows {
		if r.Draggable && p.Y >= r.Y-repHitSlack && p.Y <= r.Y+repShapeSize+repHitSlack {
			return i
		}
	}
	return -1
}

func (g *Repetition) PointerDown(p geom.Point) {
	if i := g.rowAt(p); i >= 0 {
		g.session.Begin(i, p, geom.Pt(g.rows[i].Offset, 0))
	}
}

func (g *Repetition) PointerMove(p geom.Point) {
	g.hover = g.rowAt(p)
	if !g.session.Active() {
		return
	}
	offset := g.session.StartValue().X + g.session.Delta(p).X
	g.rows[g.session.Index()].Offset = Snap(offset, repSnap)
}

func (g *Repetition) PointerUp(geom.Point) { g.session.End() }

func (g *Repetition) Step() {}

func (g *Repetition) Percentage() int {
	return scoring.Pattern(patternRows(g.rows))
}

func (g *Repetition) viewport() (shapesX, visualX, visualW float64) {
	shapesW := float64(repInView*repShapeSize + (repInView-1)*repShapeGap)
	shapesX = (g.width - shapesW) / 2
	return shapesX, shapesX - repViewportPadding, shapesW + repViewportPadding*2
}

func (g *Repetition) Draw(s engine.Surface) {
	if s == nil {
		return
	}
	s.Clear(geom.Box{W: g.width, H: g.height})
	shapesX, visualX, visualW := g.viewport()
	step := float64(repShapeSize + repShapeGap)

	for i, row := range g.rows {
		if !row.Draggable {
			for k := 0; k < repInView; k++ {
				drawGlyph(s, row.Pattern, shapesX+float64(k)*step, row.Y)
			}
			continue
		}

		s.PushClip(geom.Box{X: visualX, Y: row.Y, W: visualW, H: repShapeSize})
		tape := row.scoringRow().TapeWidth()
		base := scoring.Wrap(row.Offset, tape)
		for t := -repTapes / 2; t < repTapes/2; t++ {
			for pi, pattern := range row.Patterns {
				for k := 0; k < repInView; k++ {
					x := shapesX + base + float64(t)*tape + float64(pi)*RepetitionPatternWidth + float64(k)*step
					drawGlyph(s, pattern, x, row.Y)
				}
			}
		}
		s.PopClip()

		if i == g.hover && !g.session.Active() {
			outline := geom.Box{X: visualX, Y: row.Y - (repRowHeight-repShapeSize)/2, W: visualW, H: repRowHeight}
			engine.Draw(s, engine.RectangleFromBox(outline).WithStroke(colorGray, hoverWidth, hoverDash...))
		}
	}
}

// drawGlyph draws one pattern cell with its top-left corner at (x, y).
func drawGlyph(s engine.Surface, g Glyph, x, y float64) {
	const half = repShapeSize / 2
	switch g.Kind {
	case GlyphCircle:
		engine.Draw(s, engine.Circle(x+half, y+half, half).WithFill(g.Color))
	case GlyphSquare:
		engine.Draw(s, engine.Rectangle(x+half, y+half, repShapeSize, repShapeSize).WithFill(g.Color))
	case GlyphTriangle:
		tri := engine.Triangle(geom.Pt(x+half, y), geom.Pt(x+repShapeSize, y+repShapeSize), geom.Pt(x, y+repShapeSize))
		engine.Draw(s, tri.WithFill(g.Color))
	}
}

func (g *Repetition) Snapshot() State {
	return &RepetitionState{Rows: g.Rows()}
}
