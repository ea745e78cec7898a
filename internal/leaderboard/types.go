// apps/go-server/internal/leaderboard/types.go
//
// Data types for the leaderboard ranking service.
// Defines:
//   - Entry: one immutable, persisted game result.
//   - Submission: an unvalidated result as received from a client.
//   - Query / Stats: ranked query parameters and aggregate output.
//   - Store: the persistence port (memory, SQLite, PostgreSQL adapters live in internal/store).
//   - ValidationError / PersistenceError: the two failure classes callers distinguish.

package leaderboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robalobadob/emoji-memory/apps/go-server/internal/game"
)

const (
	MaxUsernameLen = 50
	DefaultLimit   = 50
	MaxLimit       = 100
	HistoryLimit   = 10
)

// Entry is a finished session as stored. Entries are append-only.
type Entry struct {
	ID         string          `json:"id"`
	Username   string          `json:"username"`
	Difficulty game.Difficulty `json:"difficulty"`
	Flips      int             `json:"flips"`
	Won        bool            `json:"won"`
	RecordedAt time.Time       `json:"date"`
}

// Submission is a result before validation. Nil pointers are missing fields.
type Submission struct {
	Username   *string  `json:"username"`
	Difficulty *string  `json:"difficulty"`
	Flips      *float64 `json:"flips"`
	Won        *bool    `json:"won"`
}

// NewSubmission builds a complete submission from known values.
func NewSubmission(username string, d game.Difficulty, flips int, won bool) Submission {
	diff := string(d)
	f := float64(flips)
	return Submission{Username: &username, Difficulty: &diff, Flips: &f, Won: &won}
}

// Query selects ranked winning entries. An empty Difficulty means all.
type Query struct {
	Difficulty game.Difficulty
	Limit      int
}

// Stats aggregates every recorded game.
type Stats struct {
	TotalGames   int     `json:"totalGames"`
	TotalWins    int     `json:"totalWins"`
	TotalLosses  int     `json:"totalLosses"`
	WinRate      float64 `json:"winRate"`      // percent, two decimals
	AverageFlips int     `json:"averageFlips"` // winning games only
}

// Store persists entries and answers the ranking queries.
//
// Leaderboard returns only winning entries, ordered by difficulty rank
// ascending, flips ascending, then RecordedAt descending.
// History returns a user's entries, RecordedAt descending.
type Store interface {
	Insert(ctx context.Context, e Entry) error
	Leaderboard(ctx context.Context, q Query) ([]Entry, error)
	History(ctx context.Context, username string, limit int) ([]Entry, error)
	Count(ctx context.Context, wonOnly bool) (int, error)
	// AverageWinningFlips reports the mean flips over winning games; ok is
	// false when there are none.
	AverageWinningFlips(ctx context.Context) (avg float64, ok bool, err error)
}

// FieldError names one invalid or missing field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError is a user-fixable problem with a submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return "invalid result: " + strings.Join(parts, "; ")
}

// PersistenceError is a storage failure; callers may retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("leaderboard %s: %v", e.Op, e.Err) }

func (e *PersistenceError) Unwrap() error { return e.Err }
