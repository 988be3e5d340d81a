package games

import (
	"testing"

	"github.com/samui/samui/backend-go/internal/engine"
	"github.com/samui/samui/backend-go/internal/geom"
)

func TestContrastDragGrowsActiveSquare(t *testing.T) {
	g := NewContrast(1000)
	boxes := g.layout()
	c := boxes[2].Center()

	g.PointerDown(c)
	g.PointerMove(c.Add(geom.Pt(16, 0)))
	if got := g.progress[2]; got != 0.05 {
		t.Errorf("progress = %v, want 0.05", got)
	}

	g.PointerMove(c.Add(geom.Pt(150, 40)))
	if g.Percentage() != 50 {
		t.Errorf("percentage = %d, want 50", g.Percentage())
	}
	if size := squareSize(g.progress[2]); size != contrastMaxSize {
		t.Errorf("size at 50%% = %v, want max", size)
	}

	g.PointerMove(c.Add(geom.Pt(1000, 0)))
	g.PointerUp(c)
	if g.progress[2] != 1 || g.Percentage() != 100 {
		t.Errorf("progress %v / %d%%, want clamp to 1 / 100", g.progress[2], g.Percentage())
	}
	if squareColor(1) != colorGreen {
		t.Error("full progress should be fully green")
	}
}

func TestContrastPercentageFollowsLastActive(t *testing.T) {
	g := NewContrast(1000)
	g.progress[0] = 1
	if g.Percentage() != 0 {
		t.Error("nothing dragged yet: percentage must be 0")
	}

	c := g.layout()[4].Center()
	g.PointerDown(c)
	g.PointerUp(c)
	if g.Percentage() != 0 {
		t.Errorf("percentage = %d, want last active square's 0", g.Percentage())
	}
}

func TestContrastDrawsHintWhileDragging(t *testing.T) {
	g := NewContrast(1000)
	rec := engine.NewRecorder()

	c := g.layout()[0].Center()
	g.PointerDown(c)
	g.Draw(rec)
	var hint bool
	for _, cmd := range rec.Commands() {
		if cmd.Op == "text" && cmd.Text == contrastHint {
			hint = true
			if cmd.Y != ContrastHeight-30 {
				t.Errorf("hint y = %v", cmd.Y)
			}
		}
	}
	if !hint {
		t.Error("hint not drawn during drag")
	}

	g.PointerUp(c)
	rec.Reset()
	g.Draw(rec)
	for _, cmd := range rec.Commands() {
		if cmd.Op == "text" {
			t.Error("hint drawn without a drag")
		}
	}
}

func TestContrastLayoutCentred(t *testing.T) {
	g := NewContrast(1000)
	boxes := g.layout()
	// 5*60 + 4*40 = 460 wide, so the row starts at 270.
	if boxes[0].X != 270 || boxes[4].X+boxes[4].W != 730 {
		t.Errorf("row spans %v..%v", boxes[0].X, boxes[4].X+boxes[4].W)
	}
	for _, b := range boxes {
		if b.Y+b.H != g.bottom() {
			t.Errorf("square %+v not on baseline", b)
		}
	}
}

func TestContrastTintsOnlyActiveSquare(t *testing.T) {
	g := NewContrast(1000)
	g.progress[0] = 1

	c := g.layout()[3].Center()
	g.PointerDown(c)
	g.PointerMove(c.Add(geom.Pt(300, 0)))
	g.PointerUp(c)

	rec := engine.NewRecorder()
	g.Draw(rec)

	var fills []engine.DrawCommand
	for _, cmd := range rec.Commands() {
		if cmd.Op == "fill" && cmd.Shape == "rectangle" {
			fills = append(fills, cmd)
		}
	}
	if len(fills) != contrastSquares {
		t.Fatalf("square fills = %d, want %d", len(fills), contrastSquares)
	}
	if got, want := fills[0].Color, colorLightGray.String(); got != want {
		t.Errorf("inactive grown square color = %s, want %s", got, want)
	}
	if fills[0].Width != contrastMaxSize {
		t.Errorf("inactive grown square width = %v, want %v", fills[0].Width, contrastMaxSize)
	}
	if got, want := fills[3].Color, colorGreen.String(); got != want {
		t.Errorf("active square color = %s, want %s", got, want)
	}
}
