package live

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"

	"github.com/samui/samui/backend-go/internal/engine"
	"github.com/samui/samui/backend-go/internal/games"
	"github.com/samui/samui/backend-go/internal/geom"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
)

// Client is one websocket connection playing one private game.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	player *games.Player
	send   chan []byte
	seq    atomic.Int64

	LearnerID string
	GameID    string
	SessionID string

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	// touched by TickPump only
	lastFrame []byte
}

func newClient(ctx context.Context, hub *Hub, conn *websocket.Conn, player *games.Player, learnerID, sessionID string) *Client {
	ctx, cancel := context.WithCancel(ctx)
	return &Client{
		hub:       hub,
		conn:      conn,
		player:    player,
		send:      make(chan []byte, 256),
		LearnerID: learnerID,
		GameID:    player.GameID(),
		SessionID: sessionID,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// close ends every pump. The read pump then unregisters the client.
func (c *Client) close() {
	c.closeOnce.Do(c.cancel)
}

func (c *Client) ReadPump() {
	defer func() {
		c.close()
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(c.ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "learner", c.LearnerID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "learner", c.LearnerID)
			continue
		}

		c.handleMessage(&msg)
	}
}

func (c *Client) handleMessage(msg *Message) {
	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp:
		var p PointerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			c.sendError("invalid pointer payload")
			return
		}
		pt := geom.Pt(p.X, p.Y)
		if p.Element != nil {
			st := c.player.Status()
			pt = geom.WindowToSurface(p.Element.Box(), st.Width, st.Height, pt)
		}
		c.player.Dispatch(engine.PointerEvent{Action: pointerActions[msg.Type], X: pt.X, Y: pt.Y})

	case TypeResize:
		var p ResizePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.Width <= 0 || p.Height < 0 {
			c.sendError("invalid resize payload")
			return
		}
		if p.Height == 0 {
			p.Height = c.player.Status().Height
		}
		c.player.Resize(p.Width, p.Height)

	case TypeSnapshotRequest:
		out, err := newMessage(TypeSnapshot, SnapshotPayload{GameID: c.GameID, State: c.player.Snapshot()})
		if err != nil {
			slog.Error("marshal snapshot", "error", err)
			return
		}
		c.Send(out)

	default:
		slog.Warn("unknown message type", "type", msg.Type, "learner", c.LearnerID)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message := <-c.send:
			writeCtx, cancel := context.WithTimeout(c.ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "learner", c.LearnerID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(c.ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// TickPump steps the game at fps and sends a frame whenever it changed.
func (c *Client) TickPump(fps int) {
	if fps <= 0 {
		fps = engine.DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.tick()
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) tick() {
	frame := c.player.Tick()
	data, err := json.Marshal(frame)
	if err != nil {
		slog.Error("marshal frame", "error", err)
		return
	}
	if bytes.Equal(data, c.lastFrame) {
		return
	}
	c.lastFrame = data
	c.Send(&Message{Type: TypeFrame, Payload: data})
}

func (c *Client) Send(msg *Message) {
	msg.SessionID = c.SessionID
	msg.Seq = c.seq.Add(1)
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case c.send <- data:
	case <-c.ctx.Done():
	default:
		slog.Warn("client send buffer full, dropping message", "learner", c.LearnerID, "type", msg.Type)
	}
}

func (c *Client) sendError(text string) {
	msg, _ := newMessage(TypeError, ErrorPayload{Message: text})
	c.Send(msg)
}
