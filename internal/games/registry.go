package games

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/samui/samui/backend-go/internal/document"
)

var ErrUnknownGame = errors.New("unknown game")

// Info describes a game for catalogues.
type Info struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Instruction string  `json:"instruction"`
	Height      float64 `json:"height"`
}

var catalog = []Info{
	{ID: AlignID, Title: "Align", Instruction: "Drag the bars so the dashed line runs straight.", Height: AlignHeight},
	{ID: ContrastID, Title: "Contrast", Instruction: "Drag a square sideways until it stands out.", Height: ContrastHeight},
	{ID: ProximityID, Title: "Proximity", Instruction: "Group the squares and the circles, and keep the groups apart.", Height: ProximityHeight},
	{ID: RepetitionID, Title: "Repetition", Instruction: "Slide the rows to continue the repeating pattern.", Height: RepetitionHeight},
	{ID: ContainmentID, Title: "Containment", Instruction: "Drag both shapes into the dashed frame.", Height: document.ContainmentHeight},
}

// Catalog lists every game in presentation order.
func Catalog() []Info {
	return append([]Info(nil), catalog...)
}

// Lookup returns the catalogue entry for id.
func Lookup(id string) (Info, error) {
	for _, info := range catalog {
		if info.ID == id {
			return info, nil
		}
	}
	return Info{}, fmt.Errorf("%w: %q", ErrUnknownGame, id)
}

// New creates game id laid out for a container of the given size. A zero
// height uses the game's own height. rng drives random layouts; nil seeds a
// fresh source.
func New(id string, width, height float64, rng *rand.Rand) (Game, error) {
	var g Game
	switch id {
	case AlignID:
		g = NewAlign(width, rng)
	case ContrastID:
		g = NewContrast(width)
	case ProximityID:
		g = NewProximity(width, rng)
	case RepetitionID:
		g = NewRepetition(width)
	case ContainmentID:
		c, err := NewContainment()
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, id)
	}

	if height > 0 {
		if _, h := g.Size(); h != height {
			g.Resize(width, height)
		}
	}
	return g, nil
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSeeded creates game id with a deterministic layout.
func NewSeeded(id string, width, height float64, seed uint64) (Game, error) {
	return New(id, width, height, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}
