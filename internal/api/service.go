package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samui/samui/backend-go/internal/games"
	"github.com/samui/samui/backend-go/internal/progress"
	"github.com/samui/samui/backend-go/internal/scoring"
)

var ErrNotComplete = errors.New("game not complete")

// Service answers catalogue, scoring and progress queries for one learner at a
// time.
type Service struct {
	store progress.Store
	now   func() time.Time
}

func NewService(store progress.Store) *Service {
	return &Service{store: store, now: time.Now}
}

type GameSummary struct {
	games.Info
	Completed bool `json:"completed"`
}

type Score struct {
	GameID     string `json:"gameId"`
	Percentage int    `json:"percentage"`
	Color      string `json:"color"`
	Complete   bool   `json:"complete"`
}

type Progress struct {
	GameID    string `json:"gameId"`
	Completed bool   `json:"completed"`
	CanSkip   bool   `json:"canSkip"`

	// SkipInMs is the time left until skipping unlocks.
	SkipInMs int64 `json:"skipInMs"`
}

// Games lists the catalogue with the learner's completion flags.
func (s *Service) Games(ctx context.Context, learnerID string) ([]GameSummary, error) {
	done, err := s.store.List(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	completed := make(map[string]bool, len(done))
	for _, c := range done {
		completed[c.GameID] = true
	}

	var out []GameSummary
	for _, info := range games.Catalog() {
		out = append(out, GameSummary{Info: info, Completed: completed[info.ID]})
	}
	return out, nil
}

// Score re-derives the percentage of a game snapshot. A complete snapshot
// sets the learner's completion flag.
func (s *Service) Score(ctx context.Context, learnerID, gameID string, snapshot []byte) (*Score, error) {
	st, err := games.DecodeState(gameID, snapshot)
	if err != nil {
		return nil, err
	}
	pct := st.Percentage()
	res := &Score{
		GameID:     gameID,
		Percentage: pct,
		Color:      scoring.Color(pct).String(),
		Complete:   pct >= 100,
	}
	if res.Complete {
		if err := s.store.MarkCompleted(ctx, learnerID, gameID); err != nil {
			return nil, fmt.Errorf("mark completed: %w", err)
		}
	}
	return res, nil
}

// Progress reports the completion flag and the skip policy for a session that
// started at started. A zero started means now.
func (s *Service) Progress(ctx context.Context, learnerID, gameID string, started time.Time) (*Progress, error) {
	if _, err := games.Lookup(gameID); err != nil {
		return nil, err
	}
	done, err := s.store.Completed(ctx, learnerID, gameID)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}

	now := s.now()
	if started.IsZero() {
		started = now
	}
	policy := games.NewSkipPolicy(started, done)
	return &Progress{
		GameID:    gameID,
		Completed: done,
		CanSkip:   policy.CanSkip(now),
		SkipInMs:  policy.Remaining(now).Milliseconds(),
	}, nil
}

// Complete sets the flag after checking that snapshot is a finished game.
func (s *Service) Complete(ctx context.Context, learnerID, gameID string, snapshot []byte) (*Progress, error) {
	res, err := s.Score(ctx, learnerID, gameID, snapshot)
	if err != nil {
		return nil, err
	}
	if !res.Complete {
		return nil, fmt.Errorf("%w: %d%%", ErrNotComplete, res.Percentage)
	}
	return &Progress{GameID: gameID, Completed: true, CanSkip: true}, nil
}

// Completions lists every game the learner has finished.
func (s *Service) Completions(ctx context.Context, learnerID string) ([]progress.Completion, error) {
	list, err := s.store.List(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return list, nil
}
