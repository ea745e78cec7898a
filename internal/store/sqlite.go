// apps/go-server/internal/store/sqlite.go
//
// SQLite implementation of leaderboard.Store.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying embedded migrations (idempotent, recorded in _migrations).
//   - Ranked and aggregate queries over the game_stats table.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/emoji-memory/apps/go-server/assets"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/game"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/leaderboard"
)

// SQLite is a database/sql backed Store.
type SQLite struct {
	db *sql.DB
}

/**
 * OpenSQLite opens (and creates if missing) a SQLite database file and
 * applies migrations.
 *
 * - Ensures parent directory exists for relative DSNs (e.g. ./data/leaderboard.db).
 * - Configures busy timeout and WAL journaling mode.
 * - ":memory:" is accepted for throwaway databases (single connection).
 */
func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	memory := dsn == ":memory:"
	if !memory {
		dir := filepath.Dir(dsn)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if memory {
		// Each connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error { return s.db.Close() }

// Insert appends one row.
func (s *SQLite) Insert(ctx context.Context, e leaderboard.Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO game_stats (id, username, difficulty, difficulty_rank, flips, won, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Username, string(e.Difficulty), e.Difficulty.Rank(), e.Flips, boolInt(e.Won), e.RecordedAt.UnixNano(),
	)
	return err
}

/**
 * Leaderboard fetches ranked winning rows.
 *
 * - Ordered by difficulty rank ASC, flips ASC, recorded_at DESC.
 * - Optional difficulty filter.
 */
func (s *SQLite) Leaderboard(ctx context.Context, q leaderboard.Query) ([]leaderboard.Entry, error) {
	where := `won = 1`
	args := []any{}
	if q.Difficulty != "" {
		where += ` AND difficulty = ?`
		args = append(args, string(q.Difficulty))
	}
	args = append(args, q.Limit)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, difficulty, flips, won, recorded_at
		FROM game_stats
		WHERE `+where+`
		ORDER BY difficulty_rank ASC, flips ASC, recorded_at DESC
		LIMIT ?`, args...,
	)
	if err != nil {
		return nil, err
	}
	return scanSQLiteRows(rows)
}

// History fetches a user's most recent rows.
func (s *SQLite) History(ctx context.Context, username string, limit int) ([]leaderboard.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, difficulty, flips, won, recorded_at
		FROM game_stats
		WHERE username = ?
		ORDER BY recorded_at DESC
		LIMIT ?`, username, limit,
	)
	if err != nil {
		return nil, err
	}
	return scanSQLiteRows(rows)
}

// Count reports all rows, or winning rows only.
func (s *SQLite) Count(ctx context.Context, wonOnly bool) (int, error) {
	q := `SELECT COUNT(1) FROM game_stats`
	if wonOnly {
		q += ` WHERE won = 1`
	}
	var n int
	err := s.db.QueryRowContext(ctx, q).Scan(&n)
	return n, err
}

// AverageWinningFlips averages flips over winning rows.
func (s *SQLite) AverageWinningFlips(ctx context.Context) (float64, bool, error) {
	var avg sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, `SELECT AVG(flips) FROM game_stats WHERE won = 1`).Scan(&avg); err != nil {
		return 0, false, err
	}
	return avg.Float64, avg.Valid, nil
}

func scanSQLiteRows(rows *sql.Rows) ([]leaderboard.Entry, error) {
	defer rows.Close()
	out := []leaderboard.Entry{}
	for rows.Next() {
		var (
			e    leaderboard.Entry
			diff string
			won  int
			at   int64
		)
		if err := rows.Scan(&e.ID, &e.Username, &diff, &e.Flips, &won, &at); err != nil {
			return nil, err
		}
		e.Difficulty = game.Difficulty(diff)
		e.Won = won == 1
		e.RecordedAt = time.Unix(0, at).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

/**
 * migrateSQLite applies the embedded sqlite migrations.
 *
 * - Uses a _migrations table to track applied files.
 * - Executes each script in lexical order inside its own transaction.
 * - Skips scripts already applied.
 */
func migrateSQLite(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY)`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}
	migrations, err := assets.Migrations("sqlite")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	for _, m := range migrations {
		var done int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM _migrations WHERE name=?`, m.Name).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", m.Name).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		for _, stmt := range splitStatements(m.SQL) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("apply %s: %w", m.Name, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO _migrations(name) VALUES (?)`, m.Name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", m.Name, err)
		}
		log.Info().Str("migration", m.Name).Str("dialect", "sqlite").Msg("applied")
	}
	return nil
}

// splitStatements breaks a script on ';' line endings and drops comment-only chunks.
func splitStatements(script string) []string {
	var out []string
	for _, chunk := range strings.Split(script, ";") {
		var lines []string
		for _, line := range strings.Split(chunk, "\n") {
			if t := strings.TrimSpace(line); t != "" && !strings.HasPrefix(t, "--") {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			out = append(out, strings.Join(lines, "\n"))
		}
	}
	return out
}
