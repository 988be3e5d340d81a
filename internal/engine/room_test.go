package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samui/samui/backend-go/internal/geom"
)

var testBounds = geom.Box{W: 400, H: 300}

func TestRoomDownRoutesToTopmostOnly(t *testing.T) {
	port := NewPort()
	room := NewRoom(nil, testBounds, port)
	defer room.Destroy()

	bottom := NewObject(Rectangle(100, 100, 100, 100), true)
	top := NewObject(Rectangle(110, 110, 100, 100), true)
	room.AddObject(bottom)
	room.AddObject(top)

	port.Dispatch(PointerEvent{Action: PointerDown, X: 105, Y: 105})
	if top.State() != StateDragging {
		t.Error("topmost object should start dragging")
	}
	if bottom.State() != StateIdle {
		t.Error("covered object must receive DownOutside")
	}

	port.Dispatch(PointerEvent{Action: PointerMove, X: 205, Y: 105})
	if got := top.Position(); got != geom.Pt(210, 110) {
		t.Errorf("dragged position = %+v", got)
	}
	if got := bottom.Position(); got != geom.Pt(100, 100) {
		t.Errorf("idle object moved to %+v", got)
	}

	// Released far from its own bounds: UpOutside still clears the drag.
	port.Dispatch(PointerEvent{Action: PointerUp, X: 0, Y: 0})
	if top.State() != StateIdle {
		t.Error("release should clear drag")
	}
}

func TestRoomFocusOnDrag(t *testing.T) {
	room := NewRoom(nil, testBounds, nil)
	a := NewObject(Rectangle(50, 50, 100, 100), true)
	b := NewObject(Rectangle(200, 200, 20, 20), false)
	room.AddObject(a)
	room.AddObject(b)

	room.HandlePointer(PointerEvent{Action: PointerDown, X: 50, Y: 50})
	objs := room.Objects()
	if objs[len(objs)-1] != a {
		t.Error("dragged object should be focused to the top")
	}
	if a.Position() != geom.Pt(50, 50) {
		t.Error("focus must keep position")
	}
}

func TestRoomJoinLeaveHooks(t *testing.T) {
	room := NewRoom(nil, testBounds, nil)
	var joins, leaves int
	obj := NewObject(Circle(0, 0, 5), false)
	obj.OnJoin = func(*Object) { joins++ }
	obj.OnLeave = func(*Object) { leaves++ }

	room.AddObjectAt(obj, 30, 40)
	if obj.Position() != geom.Pt(30, 40) || obj.Room() != room {
		t.Fatalf("AddObjectAt: pos %+v room %p", obj.Position(), obj.Room())
	}
	room.Focus(obj)
	room.RemoveObject(obj)
	room.RemoveObject(obj)

	if joins != 2 || leaves != 2 {
		t.Errorf("joins=%d leaves=%d, want 2 and 2", joins, leaves)
	}
	if obj.Room() != nil {
		t.Error("removed object kept its room")
	}
}

func TestAddObjectAtKeepsZeroAxis(t *testing.T) {
	room := NewRoom(nil, testBounds, nil)
	obj := NewObject(Circle(12, 34, 5), false)
	room.AddObjectAt(obj, 0, 99)
	if obj.Position() != geom.Pt(12, 99) {
		t.Errorf("position = %+v, want (12, 99)", obj.Position())
	}
}

func TestRoomDestroyIdempotent(t *testing.T) {
	port := NewPort()
	rec := NewRecorder()
	room := NewRoom(rec, testBounds, port)
	room.AddObject(NewObject(Circle(10, 10, 5).WithFill(geom.RGB(0, 0, 0)), true))
	if port.Listeners() != 1 {
		t.Fatalf("listeners = %d, want 1", port.Listeners())
	}

	room.Play(1000)
	room.Destroy()
	room.Destroy()

	if port.Listeners() != 0 {
		t.Errorf("listeners after destroy = %d, want 0", port.Listeners())
	}
	if room.Playing() {
		t.Error("room still playing after destroy")
	}
	if len(room.Objects()) != 0 {
		t.Error("objects left after destroy")
	}

	// Final frame is a bare clear.
	cmds := rec.Commands()
	if last := cmds[len(cmds)-1]; last.Op != "clear" {
		t.Errorf("last command = %q, want clear", last.Op)
	}

	// Events after destroy are ignored.
	room.HandlePointer(PointerEvent{Action: PointerDown, X: 10, Y: 10})
}

func TestRoomStepWithoutSurface(t *testing.T) {
	room := NewRoom(nil, testBounds, nil)
	var ticks int
	room.OnUpdate(func() { ticks++ })
	room.Step()
	room.Step()
	if ticks != 2 {
		t.Errorf("ticks = %d, want 2", ticks)
	}
}

func TestRoomStepDrawsInOrder(t *testing.T) {
	rec := NewRecorder()
	room := NewRoom(rec, testBounds, nil)
	room.AddObject(NewObject(Circle(10, 10, 5).WithFill(geom.RGB(1, 1, 1)), false))
	room.AddObject(NewObject(Rectangle(20, 20, 5, 5).WithFill(geom.RGB(2, 2, 2)), false))
	room.Step()

	cmds := rec.Commands()
	if len(cmds) != 3 {
		t.Fatalf("commands = %d, want 3", len(cmds))
	}
	if cmds[0].Op != "clear" || cmds[1].Shape != "circle" || cmds[2].Shape != "rectangle" {
		t.Errorf("unexpected order: %+v", cmds)
	}
}

func TestRoomPlayTicks(t *testing.T) {
	room := NewRoom(nil, testBounds, nil)
	var ticks atomic.Int32
	room.OnUpdate(func() { ticks.Add(1) })

	room.Play(200)
	deadline := time.Now().Add(2 * time.Second)
	for ticks.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	room.Stop()
	room.Stop()

	if ticks.Load() < 3 {
		t.Fatalf("ticks = %d, want at least 3", ticks.Load())
	}
	after := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	if ticks.Load() != after {
		t.Error("ticks continued after Stop")
	}
}

func TestPortUnsubscribeOnce(t *testing.T) {
	port := NewPort()
	var calls int
	unsub := port.Subscribe(func(PointerEvent) { calls++ })
	other := port.Subscribe(func(PointerEvent) {})

	port.Dispatch(PointerEvent{Action: PointerMove})
	unsub()
	unsub()
	port.Dispatch(PointerEvent{Action: PointerMove})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if port.Listeners() != 1 {
		t.Errorf("listeners = %d, want 1", port.Listeners())
	}
	other()
	if port.Listeners() != 0 {
		t.Errorf("listeners = %d, want 0", port.Listeners())
	}
}

func TestRoomTeardownCancelsDrag(t *testing.T) {
	tests := []struct {
		name     string
		teardown func(room *Room, obj *Object)
	}{
		{"remove", func(room *Room, obj *Object) { room.RemoveObject(obj) }},
		{"destroy", func(room *Room, obj *Object) { room.Destroy() }},
		{"move to another room", func(_ *Room, obj *Object) { NewRoom(nil, testBounds, nil).AddObject(obj) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room := NewRoom(nil, testBounds, nil)
			obj := NewObject(Rectangle(100, 100, 50, 50), true)
			room.AddObject(obj)

			room.HandlePointer(PointerEvent{Action: PointerDown, X: 100, Y: 100})
			if obj.State() != StateDragging {
				t.Fatal("object should be dragging")
			}

			tt.teardown(room, obj)
			if obj.State() != StateIdle {
				t.Fatalf("state after teardown = %v, want idle", obj.State())
			}

			// A bare move in a new room must not drag it.
			next := NewRoom(nil, testBounds, nil)
			next.AddObject(obj)
			next.HandlePointer(PointerEvent{Action: PointerMove, X: 300, Y: 250})
			if got := obj.Position(); got != geom.Pt(100, 100) {
				t.Errorf("position = %+v, want (100, 100)", got)
			}
		})
	}
}

func TestRoomFocusKeepsDrag(t *testing.T) {
	room := NewRoom(nil, testBounds, nil)
	obj := NewObject(Rectangle(100, 100, 50, 50), true)
	room.AddObject(obj)
	room.AddObject(NewObject(Rectangle(300, 200, 20, 20), false))

	room.HandlePointer(PointerEvent{Action: PointerDown, X: 100, Y: 100})
	room.Focus(obj)
	if obj.State() != StateDragging {
		t.Error("focus must not end a drag")
	}
}

func TestObjectsSwapRoomsConcurrently(t *testing.T) {
	a := NewRoom(nil, testBounds, nil)
	b := NewRoom(nil, testBounds, nil)
	x := NewObject(Circle(10, 10, 5), true)
	y := NewObject(Circle(20, 20, 5), true)
	a.AddObject(x)
	b.AddObject(y)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			b.AddObject(x)
			a.AddObject(x)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			a.AddObject(y)
			b.AddObject(y)
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("moving objects between rooms deadlocked")
	}

	if x.Room() != a || y.Room() != b {
		t.Errorf("rooms = %p, %p; want %p, %p", x.Room(), y.Room(), a, b)
	}
	if len(a.Objects()) != 1 || len(b.Objects()) != 1 {
		t.Errorf("objects = %d and %d, want 1 and 1", len(a.Objects()), len(b.Objects()))
	}
}

func TestRoomConcurrentPlayLeavesOneLoop(t *testing.T) {
	room := NewRoom(nil, testBounds, nil)
	var ticks atomic.Int32
	room.OnUpdate(func() { ticks.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			room.Play(500)
		}()
	}
	wg.Wait()
	if !room.Playing() {
		t.Fatal("room should be playing")
	}

	room.Stop()
	if room.Playing() {
		t.Fatal("room still playing after Stop")
	}
	after := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	if ticks.Load() != after {
		t.Error("a replaced loop kept ticking after Stop")
	}
}
