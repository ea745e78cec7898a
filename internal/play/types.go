// apps/go-server/internal/play/types.go
//
// Boundary types for hosted game sessions.
// Defines:
//   - Reporter: where finished results go (the leaderboard service in-process,
//     or scoreclient over HTTP).
//   - Scheduler / Timer: the cancellable delayed action behind auto-reset.
//   - View / CardView: the player-facing snapshot of a session; face-down
//     cards never carry their symbol.

package play

import (
	"context"
	"errors"
	"time"

	"github.com/robalobadob/emoji-memory/apps/go-server/internal/game"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/leaderboard"
)

var (
	ErrBusy           = errors.New("session is building its deck")
	ErrNoSession      = errors.New("session not found")
	ErrNothingToRetry = errors.New("no previous session to retry")
	ErrAbandoned      = errors.New("session was reset while its deck was building")
)

// DefaultDwell is how long a finished board stays up before auto-reset.
const DefaultDwell = 10 * time.Second

// Reporter persists a finished game.
type Reporter interface {
	Record(ctx context.Context, sub leaderboard.Submission) (leaderboard.Entry, error)
}

// Timer is a pending delayed action.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallScheduler struct{}

func (wallScheduler) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// ReportStatus tracks the submission of the current session's result.
type ReportStatus string

const (
	ReportNone    ReportStatus = ""
	ReportPending ReportStatus = "pending"
	ReportSaved   ReportStatus = "saved"
	ReportFailed  ReportStatus = "failed"
	ReportSkipped ReportStatus = "skipped"
)

// Card states in a View.
const (
	CardHidden   = "hidden"
	CardSelected = "selected"
	CardMatched  = "matched"
)

// CardView is one slot of the board as the player sees it.
type CardView struct {
	Position int    `json:"position"`
	State    string `json:"state"`
	Name     string `json:"name,omitempty"`
	Glyph    string `json:"glyph,omitempty"`
}

// View is a snapshot of a hosted session.
type View struct {
	ID            string          `json:"id"`
	Username      string          `json:"username"`
	Difficulty    game.Difficulty `json:"difficulty,omitempty"`
	Category      string          `json:"category,omitempty"`
	Status        game.Status     `json:"status"`
	Flips         int             `json:"flips"`
	Budget        int             `json:"budget"`
	SessionActive bool            `json:"sessionActive"`
	Building      bool            `json:"building"`
	Cards         []CardView      `json:"cards"`
	Selected      []int           `json:"selected"`
	Matched       []int           `json:"matched"`
	Report        ReportStatus    `json:"report,omitempty"`
	ReportError   string          `json:"reportError,omitempty"`
}

// FlipResult is a View plus what the flip did.
type FlipResult struct {
	View
	Counted bool `json:"counted"`
	Matched bool `json:"matchedPair"`
	Ignored bool `json:"ignored"`
}

func viewOf(s game.Session) View {
	v := View{
		Status:        s.Status,
		Flips:         s.Flips,
		SessionActive: s.Active(),
		Cards:         make([]CardView, 0, len(s.Deck)),
		Selected:      s.Selection.Positions(),
		Matched:       s.Matched.Positions(),
	}
	if s.Difficulty.Valid() {
		v.Difficulty = s.Difficulty
		v.Budget = s.Difficulty.Budget()
	}
	for _, c := range s.Deck {
		cv := CardView{Position: c.Position, State: CardHidden}
		switch {
		case s.Matched.Contains(c.Position):
			cv.State = CardMatched
		case s.Selection.Contains(c.Position):
			cv.State = CardSelected
		}
		if cv.State != CardHidden {
			cv.Name, cv.Glyph = c.Symbol.Name, c.Symbol.Glyph
		}
		v.Cards = append(v.Cards, cv)
	}
	return v
}
