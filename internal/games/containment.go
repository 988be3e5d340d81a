package games

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/samui/samui/backend-go/internal/document"
	"github.com/samui/samui/backend-go/internal/engine"
	"github.com/samui/samui/backend-go/internal/geom"
)

const (
	ContainmentID = "containment"

	containmentNearby  = 200
	containmentFalloff = 1000
)

// Containment is the scripted room scene: drag a circle and a square into a
// fixed dashed frame. It runs on a Room; pointer input flows through the
// room's routing rules.
type Containment struct {
	port       *engine.Port
	room       *engine.Room
	width      float64
	height     float64
	percentage int
}

func NewContainment() (*Containment, error) {
	g := &Containment{}
	if err := g.load(document.NewContainmentScene()); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Containment) load(doc *document.SceneDoc) error {
	port := engine.NewPort()
	room, err := engine.Restore(doc, nil, port)
	if err != nil {
		return fmt.Errorf("load containment scene: %w", err)
	}
	if g.room != nil {
		g.room.Destroy()
	}
	g.port, g.room = port, room
	g.width, g.height = doc.Width, doc.Height

	objects := room.Objects()
	g.percentage = containmentScore(objects)
	room.OnUpdate(func() {
		g.percentage = containmentScore(objects)
	})
	return nil
}

func (g *Containment) ID() string { return ContainmentID }

// Size is the fixed backing size of the scene.
func (g *Containment) Size() (float64, float64) { return g.width, g.height }

// Resize resets the scene. The scene is laid out in fixed surface units, so
// the size itself is unchanged.
func (g *Containment) Resize(float64, float64) {
	if err := g.load(document.NewContainmentScene()); err != nil {
		slog.Error("reset containment scene", "error", err)
	}
}

func (g *Containment) PointerDown(p geom.Point) {
	g.port.Dispatch(engine.PointerEvent{Action: engine.PointerDown, X: p.X, Y: p.Y})
}

func (g *Containment) PointerMove(p geom.Point) {
	g.port.Dispatch(engine.PointerEvent{Action: engine.PointerMove, X: p.X, Y: p.Y})
}

func (g *Containment) PointerUp(p geom.Point) {
	g.port.Dispatch(engine.PointerEvent{Action: engine.PointerUp, X: p.X, Y: p.Y})
}

// Step runs one room update, which recomputes the percentage.
func (g *Containment) Step() { g.room.Update() }

func (g *Containment) Percentage() int { return g.percentage }

func (g *Containment) Draw(s engine.Surface) {
	g.room.Render(s)
}

// Room exposes the underlying room.
func (g *Containment) Room() *engine.Room { return g.room }

// Close destroys the room.
func (g *Containment) Close() { g.room.Destroy() }

func (g *Containment) Snapshot() State {
	return &ContainmentState{Scene: g.room.Snapshot()}
}

// containmentScore finds the fixed frame and scores the draggable objects
// against it: 100 when the frame contains them all, otherwise each object
// earns up to an equal share by proximity. Objects within 200 of the frame's
// centre earn their full share.
func containmentScore(objects []*engine.Object) int {
	var frame *engine.Object
	var pieces []*engine.Object
	for _, o := range objects {
		if o.Draggable {
			pieces = append(pieces, o)
		} else if frame == nil {
			frame = o
		}
	}
	if frame == nil || len(pieces) == 0 {
		return 100
	}

	inside := true
	for _, p := range pieces {
		if !frame.ContainsObject(p) {
			inside = false
			break
		}
	}
	if inside {
		return 100
	}

	share := 100 / float64(len(pieces))
	total := 0.0
	for _, p := range pieces {
		d := frame.DistanceTo(p)
		if d <= containmentNearby {
			d = 0
		}
		total += math.Round((containmentFalloff - d) / containmentFalloff * share)
	}
	return int(geom.Clamp(total, 0, 100))
}
