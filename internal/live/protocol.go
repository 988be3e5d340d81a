package live

import (
	"encoding/json"

	"github.com/samui/samui/backend-go/internal/engine"
	"github.com/samui/samui/backend-go/internal/geom"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client to server
	TypePointerDown     = "pointer.down"
	TypePointerMove     = "pointer.move"
	TypePointerUp       = "pointer.up"
	TypeResize          = "resize"
	TypeSnapshotRequest = "snapshot.request"

	// Server to client
	TypeWelcome   = "welcome"
	TypeFrame     = "frame"
	TypeCompleted = "completed"
	TypeSnapshot  = "snapshot"
	TypeError     = "error"
)

var pointerActions = map[string]engine.PointerAction{
	TypePointerDown: engine.PointerDown,
	TypePointerMove: engine.PointerMove,
	TypePointerUp:   engine.PointerUp,
}

// ElementRect is the on-page box of the canvas element, as returned by
// getBoundingClientRect.
type ElementRect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r ElementRect) Box() geom.Box {
	return geom.Box{X: r.Left, Y: r.Top, W: r.Width, H: r.Height}
}

// PointerPayload carries a pointer position. Without Element, X and Y are
// surface coordinates; with it they are window coordinates and get mapped
// onto the surface.
type PointerPayload struct {
	X       float64      `json:"x"`
	Y       float64      `json:"y"`
	Element *ElementRect `json:"element,omitempty"`
}

type ResizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type WelcomePayload struct {
	GameID          string  `json:"gameId"`
	LearnerID       string  `json:"learnerId"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	CompletedBefore bool    `json:"completedBefore"`
	SkipInMs        int64   `json:"skipInMs"`
}

type CompletedPayload struct {
	GameID     string `json:"gameId"`
	Percentage int    `json:"percentage"`
}

type SnapshotPayload struct {
	GameID string `json:"gameId"`
	State  any    `json:"state"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func newMessage(typ string, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: typ, Payload: data}, nil
}
