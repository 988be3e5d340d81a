package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/samui/samui/backend-go/internal/engine"
	"github.com/samui/samui/backend-go/internal/games"
	"github.com/samui/samui/backend-go/internal/progress"
	"github.com/samui/samui/backend-go/internal/scoring"
)

type Options struct {
	FPS       int
	LearnerID string
	// Store records completion. Nil keeps nothing.
	Store progress.Store
}

// Result is how a play session ended.
type Result struct {
	GameID     string
	Percentage int
	Completed  bool
	Skipped    bool
}

// Play runs g on screen until the player continues after completing it,
// skips it, quits or ctx ends. The bottom row shows the status line. The
// caller owns the screen.
func Play(ctx context.Context, screen tcell.Screen, g games.Game, opts Options) (Result, error) {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	store := opts.Store
	if store == nil {
		store = progress.NewMemory()
	}

	player := games.NewPlayer(g)
	defer player.Close()

	completedBefore, err := store.Completed(ctx, opts.LearnerID, g.ID())
	if err != nil {
		return Result{}, fmt.Errorf("query progress: %w", err)
	}
	policy := games.NewSkipPolicy(time.Now(), completedBefore)

	screen.EnableMouse()
	screen.Clear()

	surface := newSurfaceFor(screen, g)

	events, stop := pumpEvents(screen)
	defer stop()

	ticker := time.NewTicker(time.Second / time.Duration(opts.FPS))
	defer ticker.Stop()

	finished := false
	pressed := false
	result := func() Result {
		return Result{GameID: g.ID(), Percentage: player.Percentage(), Completed: finished}
	}
	checkComplete := func() {
		if finished || !player.Completed() {
			return
		}
		finished = true
		if err := store.MarkCompleted(ctx, opts.LearnerID, g.ID()); err != nil {
			slog.Error("mark completed", "error", err, "game", g.ID())
		}
	}

	for {
		select {
		case <-ctx.Done():
			return result(), ctx.Err()

		case <-ticker.C:
			frame := player.Step()
			checkComplete()
			player.Draw(surface)
			surface.Show(screen)
			drawStatus(screen, frame, finished, policy)

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				cols, rows := screen.Size()
				w, h := g.Size()
				surface.Resize(cols, max(rows-1, 1), w, h)

			case *tcell.EventMouse:
				col, row := ev.Position()
				p := surface.ToSurface(col, row)
				down := ev.Buttons()&tcell.Button1 != 0
				action := engine.PointerMove
				switch {
				case down && !pressed:
					action = engine.PointerDown
				case !down && pressed:
					action = engine.PointerUp
				}
				pressed = down
				player.Dispatch(engine.PointerEvent{Action: action, X: p.X, Y: p.Y})
				checkComplete()

			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q':
					return result(), nil
				case ev.Key() == tcell.KeyEnter && finished:
					return result(), nil
				case ev.Rune() == 's' && policy.CanSkip(time.Now()):
					r := result()
					r.Skipped = true
					return r, nil
				}
			}
		}
	}
}

// pumpEvents forwards screen events until stop is called. stop returns once
// the pump has exited, so a later Play on the same screen sees every event
// posted after it.
func pumpEvents(screen tcell.Screen) (<-chan tcell.Event, func()) {
	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	exited := make(chan struct{})
	marker := new(int)

	go func() {
		defer close(exited)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			if in, ok := ev.(*tcell.EventInterrupt); ok && in.Data() == marker {
				return
			}
			select {
			case events <- ev:
			case <-done:
			}
		}
	}()

	stop := func() {
		close(done)
		screen.PostEventWait(tcell.NewEventInterrupt(marker))
		<-exited
	}
	return events, stop
}

func newSurfaceFor(screen tcell.Screen, g games.Game) *Surface {
	cols, rows := screen.Size()
	w, h := g.Size()
	return NewSurface(cols, max(rows-1, 1), w, h)
}

func drawStatus(screen tcell.Screen, frame games.Frame, finished bool, policy games.SkipPolicy) {
	cols, rows := screen.Size()
	if rows < 2 {
		return
	}

	status := fmt.Sprintf(" %s  %3d%%  [q] quit", frame.GameID, frame.Percentage)
	switch {
	case finished:
		status += "  complete, [enter] continue"
	case policy.CanSkip(time.Now()):
		status += "  [s] skip"
	default:
		status += fmt.Sprintf("  skip in %ds", int(policy.Remaining(time.Now()).Seconds()+0.5))
	}

	bar := tcellColor(scoring.Color(frame.Percentage))
	style := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(bar)
	row := rows - 1
	col := 0
	for _, r := range status {
		if col >= cols {
			break
		}
		screen.SetContent(col, row, r, nil, style)
		col++
	}
	for ; col < cols; col++ {
		screen.SetContent(col, row, ' ', nil, style)
	}
	screen.Show()
}
