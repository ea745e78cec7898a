// apps/go-server/internal/store/postgres.go
//
// PostgreSQL implementation of leaderboard.Store (STORE=postgres).
// Same schema and ranking contract as sqlite.go; migrations run once per
// file inside a transaction.

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/emoji-memory/apps/go-server/assets"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/game"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/leaderboard"
)

// Postgres is a pgx pool backed Store.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to databaseURL, pings, and applies migrations.
func OpenPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required for the postgres store")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	p := &Postgres{pool: pool}
	if err := p.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// Close closes the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY)`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}
	migrations, err := assets.Migrations("postgres")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	for _, m := range migrations {
		var done int
		err := p.pool.QueryRow(ctx, `SELECT 1 FROM _migrations WHERE name=$1`, m.Name).Scan(&done)
		if err == nil {
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}
		err = pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
			for _, stmt := range splitStatements(m.SQL) {
				if _, err := tx.Exec(ctx, stmt); err != nil {
					return err
				}
			}
			_, err := tx.Exec(ctx, `INSERT INTO _migrations(name) VALUES ($1)`, m.Name)
			return err
		})
		if err != nil {
			return fmt.Errorf("apply %s: %w", m.Name, err)
		}
		log.Info().Str("migration", m.Name).Str("dialect", "postgres").Msg("applied")
	}
	return nil
}

// Insert appends one row.
func (p *Postgres) Insert(ctx context.Context, e leaderboard.Entry) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO game_stats (id, username, difficulty, difficulty_rank, flips, won, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.Username, string(e.Difficulty), e.Difficulty.Rank(), e.Flips, e.Won, e.RecordedAt,
	)
	return err
}

// Leaderboard fetches ranked winning rows.
func (p *Postgres) Leaderboard(ctx context.Context, q leaderboard.Query) ([]leaderboard.Entry, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, username, difficulty, flips, won, recorded_at
		FROM game_stats
		WHERE won AND ($1 = '' OR difficulty = $1)
		ORDER BY difficulty_rank ASC, flips ASC, recorded_at DESC
		LIMIT $2`, string(q.Difficulty), q.Limit,
	)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

// History fetches a user's most recent rows.
func (p *Postgres) History(ctx context.Context, username string, limit int) ([]leaderboard.Entry, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, username, difficulty, flips, won, recorded_at
		FROM game_stats
		WHERE username = $1
		ORDER BY recorded_at DESC
		LIMIT $2`, username, limit,
	)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

// Count reports all rows, or winning rows only.
func (p *Postgres) Count(ctx context.Context, wonOnly bool) (int, error) {
	var n int
	err := p.pool.QueryRow(ctx, `SELECT COUNT(1) FROM game_stats WHERE won OR NOT $1`, wonOnly).Scan(&n)
	return n, err
}

// AverageWinningFlips averages flips over winning rows.
func (p *Postgres) AverageWinningFlips(ctx context.Context) (float64, bool, error) {
	var avg *float64
	if err := p.pool.QueryRow(ctx, `SELECT AVG(flips)::float8 FROM game_stats WHERE won`).Scan(&avg); err != nil {
		return 0, false, err
	}
	if avg == nil {
		return 0, false, nil
	}
	return *avg, true, nil
}

func collectEntries(rows pgx.Rows) ([]leaderboard.Entry, error) {
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (leaderboard.Entry, error) {
		var (
			e    leaderboard.Entry
			diff string
		)
		if err := row.Scan(&e.ID, &e.Username, &diff, &e.Flips, &e.Won, &e.RecordedAt); err != nil {
			return e, err
		}
		e.Difficulty = game.Difficulty(diff)
		e.RecordedAt = e.RecordedAt.UTC()
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
