package progress

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samui/samui/backend-go/internal/db"
)

// querier is the part of pgxpool.Pool the store uses.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres stores flags in the game_completions table.
type Postgres struct {
	q     querier
	close func()
}

// OpenPostgres connects, migrates and returns a store that owns the pool.
func OpenPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := db.NewPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &Postgres{q: pool, close: pool.Close}, nil
}

// NewPostgres wraps an existing pool. Closing the store leaves the pool open.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{q: pool}
}

func (p *Postgres) Completed(ctx context.Context, learnerID, gameID string) (bool, error) {
	var done bool
	err := p.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM game_completions WHERE learner_id = $1 AND game_id = $2)`,
		learnerID, gameID,
	).Scan(&done)
	if err != nil {
		return false, fmt.Errorf("query completion: %w", err)
	}
	return done, nil
}

func (p *Postgres) MarkCompleted(ctx context.Context, learnerID, gameID string) error {
	_, err := p.q.Exec(ctx,
		`INSERT INTO game_completions (learner_id, game_id) VALUES ($1, $2)
		 ON CONFLICT (learner_id, game_id) DO NOTHING`,
		learnerID, gameID,
	)
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}

func (p *Postgres) List(ctx context.Context, learnerID string) ([]Completion, error) {
	rows, err := p.q.Query(ctx,
		`SELECT game_id, completed_at FROM game_completions
		 WHERE learner_id = $1 ORDER BY completed_at, game_id`,
		learnerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Completion, error) {
		var c Completion
		err := row.Scan(&c.GameID, &c.CompletedAt)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan completions: %w", err)
	}
	return list, nil
}

func (p *Postgres) Close() error {
	if p.close != nil {
		p.close()
	}
	return nil
}
