package games

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/samui/samui/backend-go/internal/geom"
)

func TestSnapshotRederivesPercentage(t *testing.T) {
	for _, info := range Catalog() {
		t.Run(info.ID, func(t *testing.T) {
			g, err := NewSeeded(info.ID, 1000, 0, 42)
			if err != nil {
				t.Fatal(err)
			}
			if c, ok := g.(Closer); ok {
				defer c.Close()
			}

			// Drag something from the middle of the surface.
			w, h := g.Size()
			drag(g, geom.Pt(w/2, h/2), geom.Pt(w/2+37, h/2+11))
			g.Step()

			data, err := json.Marshal(g.Snapshot())
			if err != nil {
				t.Fatal(err)
			}
			st, err := DecodeState(info.ID, data)
			if err != nil {
				t.Fatalf("DecodeState: %v", err)
			}
			if st.GameID() != info.ID {
				t.Errorf("GameID = %q", st.GameID())
			}
			if st.Percentage() != g.Percentage() {
				t.Errorf("snapshot percentage %d != live %d", st.Percentage(), g.Percentage())
			}
		})
	}
}

func TestDecodeStateErrors(t *testing.T) {
	if _, err := DecodeState("tetris", []byte(`{}`)); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("unknown id: %v", err)
	}
	if _, err := DecodeState(AlignID, []byte(`{"bars":`)); !errors.Is(err, ErrInvalidState) {
		t.Errorf("malformed: %v", err)
	}
	bad := `{"scene":{"objects":[{"id":"x","type":"Circle","radius":-1,"style":{}}]}}`
	if _, err := DecodeState(ContainmentID, []byte(bad)); !errors.Is(err, ErrInvalidState) {
		t.Errorf("invalid scene: %v", err)
	}
}

func TestContrastStateOutOfRange(t *testing.T) {
	s := &ContrastState{Progress: []float64{1}, Active: 3}
	if s.Percentage() != 0 {
		t.Error("out-of-range active index must score 0")
	}
}

func TestRegistry(t *testing.T) {
	if _, err := New("tetris", 800, 0, nil); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("New unknown: %v", err)
	}
	if _, err := Lookup("tetris"); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("Lookup unknown: %v", err)
	}
	for _, info := range Catalog() {
		g, err := New(info.ID, 800, 0, nil)
		if err != nil {
			t.Fatalf("New(%s): %v", info.ID, err)
		}
		if g.ID() != info.ID {
			t.Errorf("ID = %q, want %q", g.ID(), info.ID)
		}
		if _, h := g.Size(); h != info.Height {
			t.Errorf("%s height = %v, want %v", info.ID, h, info.Height)
		}
		if c, ok := g.(Closer); ok {
			c.Close()
		}
	}

	g, _ := New(AlignID, 800, 600, nil)
	if _, h := g.Size(); h != 600 {
		t.Errorf("explicit height ignored: %v", h)
	}
}

func TestSeededLayoutsRepeat(t *testing.T) {
	a, _ := NewSeeded(ProximityID, 1200, 0, 7)
	b, _ := NewSeeded(ProximityID, 1200, 0, 7)
	sa, sb := a.(*Proximity).Shapes(), b.(*Proximity).Shapes()
	for i := range sa {
		if sa[i] != sb[i] {
			t.Fatalf("seeded layouts differ at %d", i)
		}
	}
}

func TestDecodeStateRejectsForeignLayouts(t *testing.T) {
	tests := []struct {
		name string
		id   string
		data string
	}{
		{"align without bars", AlignID, `{"width":1000,"bars":[]}`},
		{"align short", AlignID, `{"width":1000,"bars":[{"width":200,"offset":0}]}`},
		{"align zero width", AlignID, `{"width":0,"bars":[{"width":1,"offset":0},{"width":1,"offset":0},{"width":1,"offset":0},{"width":1,"offset":0},{"width":1,"offset":0}]}`},
		{"contrast short", ContrastID, `{"progress":[1],"active":0}`},
		{"contrast overgrown", ContrastID, `{"progress":[2,0,0,0,0],"active":0}`},
		{"repetition without rows", RepetitionID, `{"rows":[]}`},
		{"proximity without shapes", ProximityID, `{"width":1000,"height":500,"shapes":[],"minSquares":1,"minCircles":1,"initialArea":100}`},
		{"containment without scene", ContainmentID, `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeState(tt.id, []byte(tt.data)); !errors.Is(err, ErrInvalidState) {
				t.Errorf("DecodeState error = %v, want ErrInvalidState", err)
			}
		})
	}
}

func TestProximityStateDerivesMinimumAreas(t *testing.T) {
	g, err := NewSeeded(ProximityID, 1000, 0, 7)
	if err != nil {
		t.Fatal(err)
	}
	st := g.Snapshot().(*ProximityState)
	live := g.Percentage()

	// Inflated minimums would make the current layout look finished.
	st.MinSquares, st.MinCircles = 1e9, 1e9
	data, _ := json.Marshal(st)
	decoded, err := DecodeState(ProximityID, data)
	if err != nil {
		t.Fatalf("DecodeState: %v", err)
	}
	if decoded.Percentage() != live {
		t.Errorf("percentage = %d, want live %d", decoded.Percentage(), live)
	}

	for _, area := range []float64{0, proximityMaxInitialArea + 1} {
		st.InitialArea = area
		data, _ := json.Marshal(st)
		if _, err := DecodeState(ProximityID, data); !errors.Is(err, ErrInvalidState) {
			t.Errorf("initialArea %v: error = %v, want ErrInvalidState", area, err)
		}
	}

	st = g.Snapshot().(*ProximityState)
	st.Shapes = st.Shapes[:len(st.Shapes)-1]
	data, _ = json.Marshal(st)
	if _, err := DecodeState(ProximityID, data); !errors.Is(err, ErrInvalidState) {
		t.Errorf("missing shape: error = %v, want ErrInvalidState", err)
	}
}

func TestContainmentStateFixedFrame(t *testing.T) {
	g, err := NewContainment()
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	st := g.Snapshot().(*ContainmentState)
	for i := range st.Scene.Objects {
		if !st.Scene.Objects[i].Draggable {
			st.Scene.Objects[i].X += 900
		}
	}
	data, _ := json.Marshal(st)
	if _, err := DecodeState(ContainmentID, data); !errors.Is(err, ErrInvalidState) {
		t.Errorf("moved frame: error = %v, want ErrInvalidState", err)
	}
}
