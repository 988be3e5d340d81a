// Package progress stores the per-learner "completed before" flag of each
// game. The flag only ever goes from unset to set.
package progress

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

var ErrStoreClosed = errors.New("progress store closed")

// Store records which games a learner has completed.
type Store interface {
	Completed(ctx context.Context, learnerID, gameID string) (bool, error)
	// MarkCompleted sets the flag. Marking twice is not an error.
	MarkCompleted(ctx context.Context, learnerID, gameID string) error
	// List returns the completed game ids of a learner with their completion
	// times.
	List(ctx context.Context, learnerID string) ([]Completion, error)
	Close() error
}

type Completion struct {
	GameID      string    `json:"gameId"`
	CompletedAt time.Time `json:"completedAt"`
}

// Open returns the store for driver: "memory", "postgres" (dsn is a database
// URL) or "sqlite" (dsn is a file path).
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch strings.ToLower(driver) {
	case "", "memory":
		return NewMemory(), nil
	case "postgres", "postgresql":
		s, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite", "sqlite3":
		s, err := OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown progress store driver %q", driver)
	}
}

// Memory keeps flags for the life of the process.
type Memory struct {
	mu     sync.RWMutex
	done   map[string]map[string]time.Time
	closed bool
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		done: make(map[string]map[string]time.Time),
		now:  time.Now,
	}
}

func (m *Memory) Completed(_ context.Context, learnerID, gameID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return false, ErrStoreClosed
	}
	_, ok := m.done[learnerID][gameID]
	return ok, nil
}

func (m *Memory) MarkCompleted(_ context.Context, learnerID, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}
	games, ok := m.done[learnerID]
	if !ok {
		games = make(map[string]time.Time)
		m.done[learnerID] = games
	}
	if _, ok := games[gameID]; !ok {
		games[gameID] = m.now().UTC()
	}
	return nil
}

func (m *Memory) List(_ context.Context, learnerID string) ([]Completion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrStoreClosed
	}
	list := make([]Completion, 0, len(m.done[learnerID]))
	for id, at := range m.done[learnerID] {
		list = append(list, Completion{GameID: id, CompletedAt: at})
	}
	SortCompletions(list)
	return list, nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// SortCompletions orders list oldest first, by game id on ties.
func SortCompletions(list []Completion) {
	slices.SortFunc(list, func(a, b Completion) int {
		if c := a.CompletedAt.Compare(b.CompletedAt); c != 0 {
			return c
		}
		return strings.Compare(a.GameID, b.GameID)
	})
}
