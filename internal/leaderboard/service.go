package leaderboard

import (
	"context"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/emoji-memory/apps/go-server/internal/game"
)

// Service validates results and answers ranked queries over a Store.
type Service struct {
	store Store
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the timestamp source for recorded entries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wraps st.
func NewService(st Store, opts ...Option) *Service {
	s := &Service{store: st, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Record validates sub and appends it. Nothing is persisted on a
// *ValidationError; storage failures come back as *PersistenceError.
func (s *Service) Record(ctx context.Context, sub Submission) (Entry, error) {
	e, err := Validate(sub)
	if err != nil {
		return Entry{}, err
	}
	e.ID = uuid.NewString()
	e.RecordedAt = s.now().UTC()
	if err := s.store.Insert(ctx, e); err != nil {
		return Entry{}, &PersistenceError{Op: "insert", Err: err}
	}
	log.Info().
		Str("id", e.ID).
		Str("username", e.Username).
		Str("difficulty", string(e.Difficulty)).
		Int("flips", e.Flips).
		Bool("won", e.Won).
		Msg("result recorded")
	return e, nil
}

// Validate checks every field of sub and reports all problems at once.
func Validate(sub Submission) (Entry, error) {
	var (
		e   Entry
		bad []FieldError
	)
	fail := func(field, reason string) { bad = append(bad, FieldError{Field: field, Reason: reason}) }

	switch {
	case sub.Username == nil || strings.TrimSpace(*sub.Username) == "":
		fail("username", "required")
	case utf8.RuneCountInString(strings.TrimSpace(*sub.Username)) > MaxUsernameLen:
		fail("username", "must be at most 50 characters")
	default:
		e.Username = strings.TrimSpace(*sub.Username)
	}

	if sub.Difficulty == nil || *sub.Difficulty == "" {
		fail("difficulty", "required")
	} else if d := game.Difficulty(*sub.Difficulty); !d.Valid() {
		fail("difficulty", "must be one of beginner, easy, medium, hard, insane")
	} else {
		e.Difficulty = d
	}

	switch {
	case sub.Flips == nil:
		fail("flips", "required")
	case *sub.Flips < 0:
		fail("flips", "must be >= 0")
	case *sub.Flips != math.Trunc(*sub.Flips) || *sub.Flips > math.MaxInt32:
		fail("flips", "must be an integer")
	default:
		e.Flips = int(*sub.Flips)
	}

	if sub.Won == nil {
		fail("won", "required")
	} else {
		e.Won = *sub.Won
	}

	if len(bad) > 0 {
		return Entry{}, &ValidationError{Fields: bad}
	}
	return e, nil
}

// Leaderboard returns ranked winning entries. Limit defaults to 50 and is
// capped at MaxLimit; an unknown difficulty is a *ValidationError.
func (s *Service) Leaderboard(ctx context.Context, q Query) ([]Entry, error) {
	if q.Difficulty != "" && !q.Difficulty.Valid() {
		return nil, &ValidationError{Fields: []FieldError{{Field: "difficulty", Reason: "unknown difficulty"}}}
	}
	switch {
	case q.Limit <= 0:
		q.Limit = DefaultLimit
	case q.Limit > MaxLimit:
		q.Limit = MaxLimit
	}
	out, err := s.store.Leaderboard(ctx, q)
	if err != nil {
		return nil, &PersistenceError{Op: "leaderboard", Err: err}
	}
	return nonNil(out), nil
}

// History returns up to HistoryLimit most recent entries of username.
func (s *Service) History(ctx context.Context, username string) ([]Entry, error) {
	out, err := s.store.History(ctx, strings.TrimSpace(username), HistoryLimit)
	if err != nil {
		return nil, &PersistenceError{Op: "history", Err: err}
	}
	return nonNil(out), nil
}

// OverallStats runs the three aggregate reads concurrently. The reads are
// independent, so a write landing between them may be reflected in some
// and not others.
func (s *Service) OverallStats(ctx context.Context) (Stats, error) {
	var (
		games, wins int
		avg         float64
		haveAvg     bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		games, err = s.store.Count(gctx, false)
		return err
	})
	g.Go(func() (err error) {
		wins, err = s.store.Count(gctx, true)
		return err
	})
	g.Go(func() (err error) {
		avg, haveAvg, err = s.store.AverageWinningFlips(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, &PersistenceError{Op: "stats", Err: err}
	}
	return summarize(games, wins, avg, haveAvg), nil
}

func summarize(games, wins int, avg float64, haveAvg bool) Stats {
	if wins > games {
		games = wins
	}
	st := Stats{TotalGames: games, TotalWins: wins, TotalLosses: games - wins}
	if games > 0 {
		st.WinRate = math.Round(float64(wins)/float64(games)*100*100) / 100
	}
	if haveAvg {
		st.AverageFlips = int(math.Round(avg))
	}
	return st
}

func nonNil(e []Entry) []Entry {
	if e == nil {
		return []Entry{}
	}
	return e
}
