package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/samui/samui/backend-go/internal/geom"
)

// DefaultFPS is the tick rate used when Play is given a non-positive rate.
const DefaultFPS = 120

// Room owns an ordered set of objects and the tick loop that updates and
// redraws them. Order is draw order; the last object is on top and is hit
// first.
//
// The tick goroutine and pointer delivery are serialised by the room mutex.
type Room struct {
	mu       sync.Mutex
	surface  Surface
	bounds   geom.Box
	objects  []*Object
	onUpdate func()

	loop *tickLoop

	unsubscribe func()
	destroyed   bool
}

// NewRoom creates a room drawing onto surface (which may be nil) within
// bounds, and attaches to src for pointer input. Destroy detaches it.
func NewRoom(surface Surface, bounds geom.Box, src PointerSource) *Room {
	r := &Room{surface: surface, bounds: bounds}
	if src != nil {
		r.unsubscribe = src.Subscribe(r.HandlePointer)
	}
	return r
}

// OnUpdate sets the per-tick callback. It runs with the room locked and must
// not call back into Room methods; it may read and mutate objects.
func (r *Room) OnUpdate(fn func()) {
	r.mu.Lock()
	r.onUpdate = fn
	r.mu.Unlock()
}

// AddObject appends obj at its current position. An object in another room
// is removed from it first, cancelling any drag. Moving one object between
// rooms must not race with another move of the same object.
func (r *Room) AddObject(obj *Object) {
	r.leavePrevious(obj)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addLocked(obj)
}

// AddObjectAt positions obj at (x, y) and appends it. A zero coordinate keeps
// the object's existing value on that axis.
func (r *Room) AddObjectAt(obj *Object, x, y float64) {
	r.leavePrevious(obj)
	r.mu.Lock()
	defer r.mu.Unlock()
	p := obj.Position()
	if x != 0 {
		p.X = x
	}
	if y != 0 {
		p.Y = y
	}
	obj.SetPosition(p)
	r.addLocked(obj)
}

// RemoveObject detaches obj, ending any drag as a pointer-up would. Removing
// an object that is not in the room is a no-op.
func (r *Room) RemoveObject(obj *Object) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detachLocked(obj)
}

// Focus moves obj to the top of the order, keeping its position.
func (r *Room) Focus(obj *Object) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.focusLocked(obj)
}

// Objects returns a copy of the current order.
func (r *Room) Objects() []*Object {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Object(nil), r.objects...)
}

// leavePrevious removes obj from the room it is in, if that is not r. The
// previous room's lock is released before r's is taken.
func (r *Room) leavePrevious(obj *Object) {
	if prev := obj.room; prev != nil && prev != r {
		prev.RemoveObject(obj)
	}
}

func (r *Room) addLocked(obj *Object) {
	if obj.room == r {
		r.removeLocked(obj)
	}
	r.objects = append(r.objects, obj)
	obj.room = r
	if obj.OnJoin != nil {
		obj.OnJoin(obj)
	}
}

// detachLocked removes obj with a forced pointer-up, so a drag in progress
// does not survive into another room.
func (r *Room) detachLocked(obj *Object) {
	if obj.room != r {
		return
	}
	obj.OnPointerEvent(EventUpOutside, EventData{X: obj.Shape.X, Y: obj.Shape.Y})
	r.removeLocked(obj)
}

func (r *Room) removeLocked(obj *Object) {
	idx := -1
	for i, o := range r.objects {
		if o == obj {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	if obj.OnLeave != nil {
		obj.OnLeave(obj)
	}
	obj.room = nil
	r.objects = append(r.objects[:idx], r.objects[idx+1:]...)
}

func (r *Room) focusLocked(obj *Object) {
	if obj.room != r {
		return
	}
	r.removeLocked(obj)
	r.addLocked(obj)
}

// HandlePointer routes a pointer event to the objects.
//
// Down: the topmost hit object gets DownInside, every other object
// DownOutside. Move: every object gets Move. Up: each object gets UpInside or
// UpOutside from a fresh hit test at the release point.
func (r *Room) HandlePointer(ev PointerEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return
	}

	// Routing may refocus objects, so iterate a snapshot of the order.
	objects := append([]*Object(nil), r.objects...)
	data := EventData{X: ev.X, Y: ev.Y}

	switch ev.Action {
	case PointerDown:
		claimed := false
		for i := len(objects) - 1; i >= 0; i-- {
			obj := objects[i]
			if !claimed && obj.HitTest(ev.X, ev.Y) {
				claimed = true
				obj.OnPointerEvent(EventDownInside, data)
			} else {
				obj.OnPointerEvent(EventDownOutside, data)
			}
		}
	case PointerMove:
		for _, obj := range objects {
			obj.OnPointerEvent(EventMove, data)
		}
	case PointerUp:
		for _, obj := range objects {
			if obj.HitTest(ev.X, ev.Y) {
				obj.OnPointerEvent(EventUpInside, data)
			} else {
				obj.OnPointerEvent(EventUpOutside, data)
			}
		}
	}
}

// Update runs the update callback once.
func (r *Room) Update() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateLocked()
}

// Draw clears the room bounds and redraws every object in order onto the
// room's surface. A room without a surface skips drawing.
func (r *Room) Draw() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderLocked(r.surface)
}

// Render draws the room onto surface instead of the room's own.
func (r *Room) Render(surface Surface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderLocked(surface)
}

// Step runs one tick: update, then draw.
func (r *Room) Step() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateLocked()
	r.renderLocked(r.surface)
}

func (r *Room) updateLocked() {
	if r.onUpdate != nil {
		r.onUpdate()
	}
}

func (r *Room) renderLocked(surface Surface) {
	if surface == nil {
		return
	}
	surface.Clear(r.bounds)
	for _, obj := range r.objects {
		obj.Draw(surface)
	}
}

// tickLoop is one run of the play loop.
type tickLoop struct {
	ticker *time.Ticker
	done   chan struct{}
	exited chan struct{}
}

func (l *tickLoop) stop() {
	if l == nil {
		return
	}
	l.ticker.Stop()
	close(l.done)
	<-l.exited
}

// Play starts the tick loop at fps ticks per second. Calling Play while
// already playing restarts the loop at the new rate.
func (r *Room) Play(fps int) {
	if fps <= 0 {
		fps = DefaultFPS
	}

	r.mu.Lock()
	if r.destroyed {
		r.mu.Unlock()
		return
	}
	loop := &tickLoop{
		ticker: time.NewTicker(time.Second / time.Duration(fps)),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	prev := r.loop
	r.loop = loop
	slog.Debug("room playing", "fps", fps, "objects", len(r.objects))
	r.mu.Unlock()

	// The replaced loop may be waiting on the room lock inside Step.
	prev.stop()

	go func() {
		defer close(loop.exited)
		for {
			select {
			case <-loop.done:
				return
			case <-loop.ticker.C:
				r.Step()
			}
		}
	}()
}

// Stop halts the tick loop and waits for an in-flight tick to finish. It is
// safe to call when not playing.
func (r *Room) Stop() {
	r.mu.Lock()
	loop := r.loop
	r.loop = nil
	r.mu.Unlock()

	loop.stop()
}

// Playing reports whether the tick loop is running.
func (r *Room) Playing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loop != nil
}

// Destroy removes every object, draws one final (empty) frame, stops the
// loop and detaches input. Further calls are no-ops.
func (r *Room) Destroy() {
	r.mu.Lock()
	if r.destroyed {
		r.mu.Unlock()
		return
	}
	r.destroyed = true
	for len(r.objects) > 0 {
		r.detachLocked(r.objects[0])
	}
	r.renderLocked(r.surface)
	unsubscribe := r.unsubscribe
	r.unsubscribe = nil
	r.mu.Unlock()

	r.Stop()
	if unsubscribe != nil {
		unsubscribe()
	}
}
