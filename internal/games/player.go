package games

import (
	"sync"

	"github.com/samui/samui/backend-go/internal/engine"
	"github.com/samui/samui/backend-go/internal/geom"
	"github.com/samui/samui/backend-go/internal/scoring"
)

// Frame is what a front end needs to present one tick.
type Frame struct {
	GameID     string               `json:"gameId"`
	Width      float64              `json:"width"`
	Height     float64              `json:"height"`
	Percentage int                  `json:"percentage"`
	Color      string               `json:"color"`
	Commands   []engine.DrawCommand `json:"commands,omitempty"`
}

// Player owns a mounted game and serialises every call into it. Front ends
// forward pointer events with Dispatch and pull frames with Tick.
type Player struct {
	mu       sync.Mutex
	game     Game
	port     *engine.Port
	teardown func()
	recorder *engine.Recorder

	completed  bool
	onComplete func(gameID string)
	closed     bool
}

// NewPlayer mounts g on a private input port.
func NewPlayer(g Game) *Player {
	p := &Player{
		game:     g,
		port:     engine.NewPort(),
		recorder: engine.NewRecorder(),
	}
	p.teardown = Mount(g, p.port)
	return p
}

// OnComplete registers fn to run once, the first time the game reaches 100%.
// fn runs with the player locked and must not call back into it.
func (p *Player) OnComplete(fn func(gameID string)) {
	p.mu.Lock()
	p.onComplete = fn
	p.mu.Unlock()
}

// --- Commands ---

// Dispatch forwards a pointer event to the game.
func (p *Player) Dispatch(ev engine.PointerEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.port.Dispatch(ev)
	p.checkCompleteLocked()
}

// Resize rebuilds the game's layout for a new container size.
func (p *Player) Resize(width, height float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.game.Resize(width, height)
}

// Tick advances the game one step and returns the drawn frame.
func (p *Player) Tick() Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stepLocked()
	return p.frameLocked(true)
}

// Step advances the game one step and returns the frame without draw
// commands. Front ends with their own surface follow it with Draw.
func (p *Player) Step() Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stepLocked()
	return p.frameLocked(false)
}

// Draw renders the current state onto s.
func (p *Player) Draw(s engine.Surface) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.game.Draw(s)
	}
}

func (p *Player) stepLocked() {
	if p.closed {
		return
	}
	p.game.Step()
	p.checkCompleteLocked()
}

// Close tears the game down, ending any drag in progress. It is idempotent.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.teardown()
	if c, ok := p.game.(Closer); ok {
		c.Close()
	}
}

// --- Queries ---

// Status returns the current frame without draw commands.
func (p *Player) Status() Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frameLocked(false)
}

func (p *Player) Percentage() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.game.Percentage()
}

func (p *Player) Color() geom.Color {
	return scoring.Color(p.Percentage())
}

// Completed reports whether the game has reached 100% at least once.
func (p *Player) Completed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed
}

func (p *Player) GameID() string { return p.game.ID() }

// Snapshot captures the game state.
func (p *Player) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.game.Snapshot()
}

// Listeners reports how many input listeners are attached, for tests and
// diagnostics.
func (p *Player) Listeners() int { return p.port.Listeners() }

func (p *Player) checkCompleteLocked() {
	if p.completed || p.game.Percentage() < 100 {
		return
	}
	p.completed = true
	if p.onComplete != nil {
		p.onComplete(p.game.ID())
	}
}

func (p *Player) frameLocked(draw bool) Frame {
	w, h := p.game.Size()
	pct := p.game.Percentage()
	f := Frame{
		GameID:     p.game.ID(),
		Width:      w,
		Height:     h,
		Percentage: pct,
		Color:      scoring.Color(pct).String(),
	}
	if draw && !p.closed {
		p.game.Draw(p.recorder)
		f.Commands = p.recorder.Take()
	}
	return f
}
