// Package games implements the drag-to-complete mini-games on top of the
// engine, collision and scoring packages.
//
// A Game is not safe for concurrent use; Player serialises access for front
// ends that drive a game from several goroutines.
package games

import (
	"math"
	"sync"

	"github.com/samui/samui/backend-go/internal/engine"
	"github.com/samui/samui/backend-go/internal/geom"
)

// Game is one mini-game instance. Pointer positions are surface coordinates.
type Game interface {
	ID() string
	Size() (width, height float64)
	// Resize rebuilds any random layout from scratch for the new size.
	Resize(width, height float64)

	PointerDown(p geom.Point)
	PointerMove(p geom.Point)
	// PointerUp ends the active drag. Without one it is a no-op.
	PointerUp(p geom.Point)

	// Step advances the simulation one tick without drawing.
	Step()
	Percentage() int
	Draw(s engine.Surface)
	Snapshot() State
}

// Closer is implemented by games that hold resources beyond their own state.
type Closer interface {
	Close()
}

// Session is the transient state of one drag gesture. A game has at most one
// active session.
type Session struct {
	active     bool
	index      int
	start      geom.Point
	startValue geom.Point
}

// Begin starts a drag of target index from pointer, remembering the target's
// current value.
func (s *Session) Begin(index int, pointer, startValue geom.Point) {
	s.active = true
	s.index = index
	s.start = pointer
	s.startValue = startValue
}

func (s *Session) Active() bool { return s.active }

// Index returns the dragged target, or -1 with no active session.
func (s *Session) Index() int {
	if !s.active {
		return -1
	}
	return s.index
}

func (s *Session) StartValue() geom.Point { return s.startValue }

// Delta returns the pointer travel since Begin.
func (s *Session) Delta(pointer geom.Point) geom.Point {
	return pointer.Sub(s.start)
}

// End closes the session. Ending an inactive session does nothing.
func (s *Session) End() {
	s.active = false
	s.index = -1
}

// Snap rounds v to the nearest multiple of step.
func Snap(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}

// Mount attaches g to src and returns the matching teardown. Teardown
// detaches the listener and then forces a pointer-up at the last known
// position, so a drag in progress ends exactly as a real release would.
// Teardown may be called any number of times.
func Mount(g Game, src engine.PointerSource) (teardown func()) {
	var (
		mu   sync.Mutex
		last geom.Point
	)
	unsubscribe := src.Subscribe(func(ev engine.PointerEvent) {
		p := geom.Pt(ev.X, ev.Y)
		mu.Lock()
		last = p
		mu.Unlock()

		switch ev.Action {
		case engine.PointerDown:
			g.PointerDown(p)
		case engine.PointerMove:
			g.PointerMove(p)
		case engine.PointerUp:
			g.PointerUp(p)
		}
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			mu.Lock()
			p := last
			mu.Unlock()
			g.PointerUp(p)
		})
	}
}
