package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/samui/samui/backend-go/internal/games"
	"github.com/samui/samui/backend-go/internal/progress"
)

var ErrHubStopped = errors.New("live hub stopped")

const storeTimeout = 5 * time.Second

// Hub tracks live play sessions. Each client owns a private game; the hub
// only keeps the registry, records completions and shuts sessions down.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*Client // sessionID -> client
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	stopped    chan struct{}
	stopOnce   sync.Once

	store   progress.Store
	fps     int
	pending sync.WaitGroup
}

func NewHub(store progress.Store, fps int) *Hub {
	if store == nil {
		store = progress.NewMemory()
	}
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		stopped:    make(chan struct{}),
		store:      store,
		fps:        fps,
	}
}

func (h *Hub) Run() {
	defer close(h.stopped)

	quit := h.quit
	stopping := false
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
			if stopping {
				client.close()
			}
		case client := <-h.unregister:
			h.removeClient(client)
			if stopping && h.Clients() == 0 {
				return
			}
		case <-quit:
			quit = nil
			stopping = true
			slog.Info("closing live sessions", "count", h.Clients())
			h.mu.RLock()
			for _, c := range h.clients {
				c.close()
			}
			h.mu.RUnlock()
			if h.Clients() == 0 {
				return
			}
		}
	}
}

// Stop closes every session and waits for them to leave and for pending
// completion writes, or for ctx to end.
func (h *Hub) Stop(ctx context.Context) error {
	h.stopOnce.Do(func() { close(h.quit) })
	select {
	case <-h.stopped:
	case <-ctx.Done():
		return ctx.Err()
	}

	done := make(chan struct{})
	go func() {
		h.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) Register(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.quit:
		return ErrHubStopped
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stopped:
	}
}

// Clients returns the number of live sessions.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.SessionID] = client
	h.mu.Unlock()

	slog.Info("client joined", "learner", client.LearnerID, "game", client.GameID, "session", client.SessionID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.SessionID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.SessionID)
	h.mu.Unlock()

	client.player.Close()

	slog.Info("client left", "learner", client.LearnerID, "game", client.GameID, "session", client.SessionID)
}

// Serve plays gameID over conn until the connection closes. width is the
// client's container width; a zero height keeps the game's own height.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn, learnerID, gameID string, width, height float64) error {
	g, err := games.New(gameID, width, height, nil)
	if err != nil {
		return err
	}
	player := games.NewPlayer(g)

	client := newClient(ctx, h, conn, player, learnerID, uuid.New().String())
	player.OnComplete(func(id string) {
		h.complete(client, id)
	})

	if err := h.Register(client); err != nil {
		player.Close()
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return err
	}

	if err := h.welcome(client); err != nil {
		slog.Warn("send welcome", "error", err, "learner", learnerID)
	}

	go client.WritePump()
	go client.TickPump(h.fps)
	client.ReadPump()
	return nil
}

func (h *Hub) welcome(c *Client) error {
	ctx, cancel := context.WithTimeout(c.ctx, storeTimeout)
	defer cancel()

	done, err := h.store.Completed(ctx, c.LearnerID, c.GameID)
	if err != nil {
		return fmt.Errorf("query progress: %w", err)
	}
	st := c.player.Status()
	policy := games.NewSkipPolicy(time.Now(), done)
	msg, err := newMessage(TypeWelcome, WelcomePayload{
		GameID:          c.GameID,
		LearnerID:       c.LearnerID,
		Width:           st.Width,
		Height:          st.Height,
		CompletedBefore: done,
		SkipInMs:        policy.Remaining(time.Now()).Milliseconds(),
	})
	if err != nil {
		return err
	}
	c.Send(msg)
	return nil
}

// complete runs under the player lock, so the store write happens off it.
func (h *Hub) complete(c *Client, gameID string) {
	msg, err := newMessage(TypeCompleted, CompletedPayload{GameID: gameID, Percentage: 100})
	if err == nil {
		c.Send(msg)
	}

	h.pending.Add(1)
	go func() {
		defer h.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := h.store.MarkCompleted(ctx, c.LearnerID, gameID); err != nil {
			slog.Error("mark completed", "error", err, "learner", c.LearnerID, "game", gameID)
			return
		}
		slog.Info("game completed", "learner", c.LearnerID, "game", gameID)
	}()
}
