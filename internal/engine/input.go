package engine

import "sync"

// PointerAction is the phase of a pointer gesture.
type PointerAction int

const (
	PointerDown PointerAction = iota
	PointerMove
	PointerUp
)

func (a PointerAction) String() string {
	switch a {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	default:
		return "unknown"
	}
}

// PointerEvent carries a pointer position in surface coordinates.
type PointerEvent struct {
	Action PointerAction
	X      float64
	Y      float64
}

// PointerHandler receives pointer events.
type PointerHandler func(PointerEvent)

// PointerSource is where scenes and games attach for input. Subscribe
// returns the matching detach; calling it more than once is harmless.
type PointerSource interface {
	Subscribe(h PointerHandler) (unsubscribe func())
}

// Port is an in-process PointerSource. Front ends forward raw events into it
// with Dispatch.
type Port struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]PointerHandler
	order    []int
}

// NewPort creates a port with no listeners.
func NewPort() *Port {
	return &Port{handlers: make(map[int]PointerHandler)}
}

// Subscribe registers h and returns its detach function.
func (p *Port) Subscribe(h PointerHandler) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.handlers[id] = h
	p.order = append(p.order, id)
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.handlers, id)
			for i, v := range p.order {
				if v == id {
					p.order = append(p.order[:i], p.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Dispatch delivers ev to every listener in subscription order. Handlers run
// outside the port lock so they may unsubscribe themselves.
func (p *Port) Dispatch(ev PointerEvent) {
	p.mu.Lock()
	handlers := make([]PointerHandler, 0, len(p.order))
	for _, id := range p.order {
		handlers = append(handlers, p.handlers[id])
	}
	p.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

// Listeners returns the number of attached handlers.
func (p *Port) Listeners() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.handlers)
}
