package games

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/samui/samui/backend-go/internal/document"
	"github.com/samui/samui/backend-go/internal/engine"
	"github.com/samui/samui/backend-go/internal/geom"
	"github.com/samui/samui/backend-go/internal/scoring"
)

// State is a serialisable snapshot of a game. Percentage re-derives the score
// from the snapshot alone and matches the live game's value.
type State interface {
	GameID() string
	Percentage() int
}

var ErrInvalidState = errors.New("invalid game state")

// validator checks that a decoded snapshot has the shape its game produces.
// Positions stay client-reported; fixed structure and derived values do not.
type validator interface {
	validate() error
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type AlignState struct {
	Width float64       `json:"width"`
	Bars  []scoring.Bar `json:"bars"`
}

func (s *AlignState) GameID() string  { return AlignID }
func (s *AlignState) Percentage() int { return scoring.Alignment(s.Bars, s.Width) }

func (s *AlignState) validate() error {
	if !(s.Width > 0) || !finite(s.Width) {
		return errors.New("width must be positive")
	}
	if len(s.Bars) != len(alignBarY) {
		return fmt.Errorf("want %d bars, got %d", len(alignBarY), len(s.Bars))
	}
	for i, b := range s.Bars {
		if !(b.Width > 0) || !finite(b.Width, b.Offset) {
			return fmt.Errorf("bar %d: bad geometry", i)
		}
	}
	return nil
}

type ContrastState struct {
	Progress []float64 `json:"progress"`
	Active   int       `json:"active"`
}

func (s *ContrastState) GameID() string { return ContrastID }

func (s *ContrastState) Percentage() int {
	if s.Active < 0 || s.Active >= len(s.Progress) {
		return 0
	}
	return scoring.Growth(s.Progress[s.Active])
}

func (s *ContrastState) validate() error {
	if len(s.Progress) != contrastSquares {
		return fmt.Errorf("want %d squares, got %d", contrastSquares, len(s.Progress))
	}
	for i, p := range s.Progress {
		if !(p >= 0 && p <= 1) {
			return fmt.Errorf("square %d: progress %v out of [0, 1]", i, p)
		}
	}
	if s.Active < -1 || s.Active >= contrastSquares {
		return fmt.Errorf("active square %d out of range", s.Active)
	}
	return nil
}

type ProximityState struct {
	Width       float64          `json:"width"`
	Height      float64          `json:"height"`
	Shapes      []ProximityShape `json:"shapes"`
	MinSquares  float64          `json:"minSquares"`
	MinCircles  float64          `json:"minCircles"`
	InitialArea float64          `json:"initialArea"`
}

func (s *ProximityState) GameID() string { return ProximityID }

func (s *ProximityState) Percentage() int {
	in := scoring.ProximityInput{
		MinArea:     s.MinSquares + s.MinCircles,
		InitialArea: s.InitialArea,
	}
	for _, sh := range s.Shapes {
		if sh.Kind == KindSquare {
			in.Squares = append(in.Squares, sh.square())
		} else {
			in.Circles = append(in.Circles, sh.square())
		}
	}
	return scoring.Proximity(in).Percentage
}

// proximityMaxInitialArea bounds the initial area: each group's padded box
// starts inside the layout grid.
const proximityMaxInitialArea = 2 * (proximityGridCols * proximityCell) * (proximityGridRows * proximityCell)

// validate checks the shape set and replaces the minimum areas with values
// derived from the shapes. The initial area depends on the random layout, so
// it is only bounded.
func (s *ProximityState) validate() error {
	if !(s.Width > 0 && s.Height > 0) || !finite(s.Width, s.Height) {
		return errors.New("size must be positive")
	}

	var squares, circles []geom.Square
	for i, sh := range s.Shapes {
		if !finite(sh.X, sh.Y) {
			return fmt.Errorf("shape %d: bad position", i)
		}
		if sh.Size < proximityMinMult*proximityUnit || sh.Size > proximityMaxMult*proximityUnit ||
			math.Mod(sh.Size, proximityUnit) != 0 {
			return fmt.Errorf("shape %d: size %v not a layout size", i, sh.Size)
		}
		switch sh.Kind {
		case KindSquare:
			squares = append(squares, sh.square())
		case KindCircle:
			circles = append(circles, sh.square())
		default:
			return fmt.Errorf("shape %d: unknown kind %q", i, sh.Kind)
		}
	}
	if len(squares) != proximityPerKind || len(circles) != proximityPerKind {
		return fmt.Errorf("want %d squares and %d circles, got %d and %d",
			proximityPerKind, proximityPerKind, len(squares), len(circles))
	}

	s.MinSquares = scoring.MinimumArea(squares)
	s.MinCircles = scoring.MinimumArea(circles)
	if !(s.InitialArea > s.MinSquares+s.MinCircles) || s.InitialArea > proximityMaxInitialArea {
		return fmt.Errorf("initial area %v out of range", s.InitialArea)
	}
	return nil
}

type RepetitionState struct {
	Rows []RepetitionRow `json:"rows"`
}

func (s *RepetitionState) GameID() string  { return RepetitionID }
func (s *RepetitionState) Percentage() int { return scoring.Pattern(patternRows(s.Rows)) }

// validate checks the rows against a fresh layout; only offsets and row
// positions may differ.
func (s *RepetitionState) validate() error {
	want := NewRepetition(800).Rows()
	if len(s.Rows) != len(want) {
		return fmt.Errorf("want %d rows, got %d", len(want), len(s.Rows))
	}
	for i, r := range s.Rows {
		w := want[i]
		if r.Draggable != w.Draggable || r.Pattern != w.Pattern ||
			!slices.Equal(r.Patterns, w.Patterns) || r.TargetIndex != w.TargetIndex {
			return fmt.Errorf("row %d does not match the layout", i)
		}
		if !finite(r.Y, r.Offset) {
			return fmt.Errorf("row %d: bad offset", i)
		}
	}
	return nil
}

type ContainmentState struct {
	Scene *document.SceneDoc `json:"scene"`
}

func (s *ContainmentState) GameID() string { return ContainmentID }

func (s *ContainmentState) Percentage() int {
	if s.Scene == nil {
		return 0
	}
	objects := make([]*engine.Object, 0, len(s.Scene.Objects))
	for _, node := range s.Scene.Objects {
		obj, err := engine.ObjectFromNode(node)
		if err != nil {
			return 0
		}
		objects = append(objects, obj)
	}
	return containmentScore(objects)
}

// validate checks the scene against the sample layout; draggable pieces may
// be anywhere, everything else is fixed.
func (s *ContainmentState) validate() error {
	if s.Scene == nil {
		return errors.New("missing scene")
	}
	if err := s.Scene.Validate(); err != nil {
		return err
	}
	want := document.NewContainmentScene().Objects
	if len(s.Scene.Objects) != len(want) {
		return fmt.Errorf("want %d objects, got %d", len(want), len(s.Scene.Objects))
	}
	// Focus reorders objects, so match each against an unused layout object.
	used := make([]bool, len(want))
	for i, obj := range s.Scene.Objects {
		if !finite(obj.X, obj.Y) {
			return fmt.Errorf("object %d: bad position", i)
		}
		match := -1
		for j, w := range want {
			if used[j] || obj.Type != w.Type || obj.Radius != w.Radius || obj.Width != w.Width ||
				obj.Height != w.Height || obj.Draggable != w.Draggable {
				continue
			}
			if !obj.Draggable && (obj.X != w.X || obj.Y != w.Y) {
				continue
			}
			match = j
			break
		}
		if match < 0 {
			return fmt.Errorf("object %d does not match the layout", i)
		}
		used[match] = true
	}
	return nil
}

// DecodeState parses a JSON snapshot of game id.
func DecodeState(id string, data []byte) (State, error) {
	var st State
	switch id {
	case AlignID:
		st = &AlignState{}
	case ContrastID:
		st = &ContrastState{}
	case ProximityID:
		st = &ProximityState{}
	case RepetitionID:
		st = &RepetitionState{}
	case ContainmentID:
		st = &ContainmentState{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, id)
	}

	if err := json.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if v, ok := st.(validator); ok {
		if err := v.validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidState, id, err)
		}
	}
	return st, nil
}
