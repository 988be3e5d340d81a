//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"syscall/js"
	"time"

	"github.com/samui/samui/backend-go/internal/engine"
	"github.com/samui/samui/backend-go/internal/games"
	"github.com/samui/samui/backend-go/internal/geom"
)

var (
	player  *games.Player
	policy  games.SkipPolicy
	store   *localStore
	learner string
)

func main() {
	store = newLocalStore(js.Global().Get("localStorage"))
	learner = store.learnerID()

	// Create the engine API object
	samuiEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	samuiEngine.Set("mount", js.FuncOf(mount))
	samuiEngine.Set("resize", js.FuncOf(resize))
	samuiEngine.Set("pointerDown", js.FuncOf(pointer(engine.PointerDown)))
	samuiEngine.Set("pointerMove", js.FuncOf(pointer(engine.PointerMove)))
	samuiEngine.Set("pointerUp", js.FuncOf(pointer(engine.PointerUp)))
	samuiEngine.Set("unmount", js.FuncOf(unmount))

	// --- Queries (frontend ← backend) ---
	samuiEngine.Set("tick", js.FuncOf(tick))
	samuiEngine.Set("percentage", js.FuncOf(percentage))
	samuiEngine.Set("color", js.FuncOf(color))
	samuiEngine.Set("isCompleted", js.FuncOf(isCompleted))
	samuiEngine.Set("skipInMs", js.FuncOf(skipInMs))
	samuiEngine.Set("snapshot", js.FuncOf(snapshot))
	samuiEngine.Set("catalog", js.FuncOf(catalog))
	samuiEngine.Set("learnerId", js.FuncOf(learnerID))

	// Register on global scope
	js.Global().Set("samuiEngine", samuiEngine)

	// Signal that WASM is ready
	js.Global().Set("samuiWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(msg string) js.Value {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

func okResult() js.Value {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Command Handlers ---

// mount(gameId, width, height?) replaces any mounted game.
func mount(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("missing gameId or width")
	}

	var height float64
	if len(args) > 2 && args[2].Type() == js.TypeNumber {
		height = args[2].Float()
	}

	g, err := games.New(args[0].String(), args[1].Float(), height, nil)
	if err != nil {
		return errorResult(err.Error())
	}

	if player != nil {
		player.Close()
	}

	ctx := context.Background()
	before, err := store.Completed(ctx, learner, g.ID())
	if err != nil {
		return errorResult(err.Error())
	}
	policy = games.NewSkipPolicy(time.Now(), before)

	player = games.NewPlayer(g)
	player.OnComplete(func(gameID string) {
		store.MarkCompleted(ctx, learner, gameID)
	})

	w, h := g.Size()
	return js.ValueOf(map[string]interface{}{
		"ok":              true,
		"width":           w,
		"height":          h,
		"completedBefore": before,
	})
}

func resize(this js.Value, args []js.Value) interface{} {
	if player == nil {
		return errorResult("no game mounted")
	}
	if len(args) < 1 {
		return errorResult("missing width")
	}

	var height float64
	if len(args) > 1 && args[1].Type() == js.TypeNumber {
		height = args[1].Float()
	}
	player.Resize(args[0].Float(), height)
	return okResult()
}

// pointer builds a handler taking (x, y, rect?). With a DOMRect-like rect the
// position is in window coordinates and is mapped onto the surface.
func pointer(action engine.PointerAction) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if player == nil {
			return errorResult("no game mounted")
		}
		if len(args) < 2 {
			return errorResult("missing x or y")
		}

		p := geom.Pt(args[0].Float(), args[1].Float())
		if len(args) > 2 && args[2].Type() == js.TypeObject {
			rect := args[2]
			element := geom.Box{
				X: rect.Get("left").Float(),
				Y: rect.Get("top").Float(),
				W: rect.Get("width").Float(),
				H: rect.Get("height").Float(),
			}
			st := player.Status()
			p = geom.WindowToSurface(element, st.Width, st.Height, p)
		}

		player.Dispatch(engine.PointerEvent{Action: action, X: p.X, Y: p.Y})
		return okResult()
	}
}

func unmount(this js.Value, args []js.Value) interface{} {
	if player != nil {
		player.Close()
		player = nil
	}
	return okResult()
}

// --- Query Handlers ---

// tick advances the mounted game and returns the frame as JSON.
func tick(this js.Value, args []js.Value) interface{} {
	if player == nil {
		return js.Null()
	}

	data, err := json.Marshal(player.Tick())
	if err != nil {
		return errorResult(err.Error())
	}
	return js.ValueOf(string(data))
}

func percentage(this js.Value, args []js.Value) interface{} {
	if player == nil {
		return js.ValueOf(0)
	}
	return js.ValueOf(player.Percentage())
}

func color(this js.Value, args []js.Value) interface{} {
	if player == nil {
		return js.Null()
	}
	return js.ValueOf(player.Color().String())
}

func isCompleted(this js.Value, args []js.Value) interface{} {
	if player == nil {
		return js.ValueOf(false)
	}
	return js.ValueOf(player.Completed())
}

func skipInMs(this js.Value, args []js.Value) interface{} {
	if player == nil {
		return js.ValueOf(0)
	}
	return js.ValueOf(policy.Remaining(time.Now()).Milliseconds())
}

func snapshot(this js.Value, args []js.Value) interface{} {
	if player == nil {
		return js.Null()
	}

	data, err := json.Marshal(player.Snapshot())
	if err != nil {
		return errorResult(err.Error())
	}
	return js.ValueOf(string(data))
}

func catalog(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(games.Catalog())
	if err != nil {
		return errorResult(err.Error())
	}
	return js.ValueOf(string(data))
}

func learnerID(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(learner)
}
