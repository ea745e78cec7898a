// apps/go-server/internal/play/controller.go
//
// Controller hosts one player's game and implements the inbound operations:
// StartSession, Flip, Exit, Retry.
//
// Concurrency:
//   - Every mutation holds mu and goes through game.Machine, so flips are
//     applied one at a time.
//   - Deck construction (fetch + build) runs without the lock; while it is in
//     flight the controller is "building" and rejects flips and starts.
//   - epoch increments on every start/exit/reset. A deck build or auto-reset
//     that finishes under an older epoch is discarded.
//   - Result reporting is asynchronous; failures are recorded on the view and
//     never change the session's outcome.

package play

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/emoji-memory/apps/go-server/internal/emoji"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/game"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/leaderboard"
)

// Options tune a Controller. Zero values take defaults.
type Options struct {
	Dwell         time.Duration // auto-reset delay; DefaultDwell when zero
	RecordLosses  bool          // report lost games too
	ReportTimeout time.Duration // per-report deadline; 10s when zero
	Scheduler     Scheduler     // wall clock timers when nil
	Rand          *rand.Rand    // deck shuffling source; global when nil
	Now           func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Dwell <= 0 {
		o.Dwell = DefaultDwell
	}
	if o.ReportTimeout <= 0 {
		o.ReportTimeout = 10 * time.Second
	}
	if o.Scheduler == nil {
		o.Scheduler = wallScheduler{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Controller is safe for concurrent use.
type Controller struct {
	id       string
	source   emoji.Source
	reporter Reporter
	opts     Options

	mu         sync.Mutex
	machine    *game.Machine
	username   string
	difficulty game.Difficulty
	category   string
	building   bool
	epoch      uint64
	resetTimer Timer
	report     ReportStatus
	reportErr  string
	touched    time.Time

	reports sync.WaitGroup
}

// NewController creates a controller in NotStarted.
func NewController(id string, source emoji.Source, reporter Reporter, opts Options) *Controller {
	opts = opts.withDefaults()
	return &Controller{
		id:       id,
		source:   source,
		reporter: reporter,
		opts:     opts,
		machine:  game.NewMachine(),
		touched:  opts.Now(),
	}
}

// ID returns the session identifier.
func (c *Controller) ID() string { return c.id }

// StartSession fetches category, builds a deck and enters InProgress.
// A finished board may be replaced directly; an in-progress one may not.
// On any failure the session is left NotStarted.
func (c *Controller) StartSession(ctx context.Context, username string, difficulty string, category string) (View, error) {
	d, ok := game.ParseDifficulty(difficulty)
	if !ok {
		d = game.Difficulty(difficulty)
	}
	who, err := leaderboard.Validate(leaderboard.NewSubmission(username, d, 0, false))
	if err != nil {
		return c.View(), err
	}

	c.mu.Lock()
	c.touched = c.opts.Now()
	if c.building {
		c.mu.Unlock()
		return c.View(), ErrBusy
	}
	if c.machine.Session().Status == game.InProgress {
		c.mu.Unlock()
		return c.View(), game.ErrAlreadyStarted
	}
	epoch := c.beginLocked(who.Username, who.Difficulty, category)
	c.mu.Unlock()
	return c.build(ctx, epoch, category)
}

// beginLocked clears the board and marks a deck build under way for the
// given parameters. It returns the epoch the build belongs to.
func (c *Controller) beginLocked(username string, d game.Difficulty, category string) uint64 {
	c.resetLocked()
	c.building = true
	c.username, c.difficulty, c.category = username, d, category
	return c.epoch
}

// build fetches the deck outside the lock and starts the game unless the
// session was reset while it was fetching.
func (c *Controller) build(ctx context.Context, epoch uint64, category string) (View, error) {
	deck, err := c.buildDeck(ctx, category)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		// Exited while building; the new deck belongs to nobody.
		return c.viewLocked(), ErrAbandoned
	}
	c.building = false
	if err != nil {
		log.Warn().Err(err).Str("session", c.id).Str("category", category).Msg("deck build failed")
		return c.viewLocked(), err
	}
	if _, err := c.machine.Dispatch(game.Start(c.difficulty, deck)); err != nil {
		return c.viewLocked(), err
	}
	log.Info().
		Str("session", c.id).
		Str("username", c.username).
		Str("difficulty", string(c.difficulty)).
		Str("category", category).
		Msg("session started")
	return c.viewLocked(), nil
}

func (c *Controller) buildDeck(ctx context.Context, category string) (game.Deck, error) {
	syms, err := c.source.Symbols(ctx, category)
	if err != nil {
		return nil, err
	}
	return game.BuildDeck(syms, game.PairCount, c.opts.Rand)
}

// Flip turns over the card at position.
func (c *Controller) Flip(position int) (FlipResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touched = c.opts.Now()
	if c.building {
		return FlipResult{View: c.viewLocked()}, ErrBusy
	}
	out, err := c.machine.Dispatch(game.Flip(position))
	if err != nil {
		return FlipResult{View: c.viewLocked()}, err
	}
	if out.Finished {
		c.finishLocked()
	}
	return FlipResult{
		View:    c.viewLocked(),
		Counted: out.Counted,
		Matched: out.Matched,
		Ignored: out.Ignored,
	}, nil
}

// Exit resets to NotStarted immediately, cancelling any pending auto-reset
// and abandoning an in-flight deck build.
func (c *Controller) Exit() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touched = c.opts.Now()
	c.resetLocked()
	log.Debug().Str("session", c.id).Msg("session exited")
	return c.viewLocked()
}

// Retry resets and starts again with the previous username, difficulty and
// category. The parameters are read and the build claimed under one lock, so a
// concurrent StartSession either wins outright or gets ErrBusy.
func (c *Controller) Retry(ctx context.Context) (View, error) {
	c.mu.Lock()
	c.touched = c.opts.Now()
	if c.building {
		defer c.mu.Unlock()
		return c.viewLocked(), ErrBusy
	}
	if c.username == "" {
		defer c.mu.Unlock()
		return c.viewLocked(), ErrNothingToRetry
	}
	category := c.category
	epoch := c.beginLocked(c.username, c.difficulty, category)
	c.mu.Unlock()
	return c.build(ctx, epoch, category)
}

// View returns the current snapshot.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// WaitReports blocks until in-flight result submissions finish.
func (c *Controller) WaitReports() { c.reports.Wait() }

// Touched reports the last time an operation reached this controller.
func (c *Controller) Touched() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touched
}

// Close cancels the pending auto-reset.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
}

// resetLocked returns to NotStarted and invalidates timers and builds.
func (c *Controller) resetLocked() {
	c.epoch++
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
	c.building = false
	c.report, c.reportErr = ReportNone, ""
	_, _ = c.machine.Dispatch(game.Reset())
}

// finishLocked runs once when the session enters Won or Lost.
func (c *Controller) finishLocked() {
	s := c.machine.Session()
	won := s.Status == game.Won
	log.Info().
		Str("session", c.id).
		Str("username", c.username).
		Str("difficulty", string(s.Difficulty)).
		Int("flips", s.Flips).
		Bool("won", won).
		Msg("session finished")

	if c.resetTimer != nil {
		c.resetTimer.Stop()
	}
	epoch := c.epoch
	c.resetTimer = c.opts.Scheduler.AfterFunc(c.opts.Dwell, func() { c.autoReset(epoch) })

	if !won && !c.opts.RecordLosses {
		c.report = ReportSkipped
		return
	}
	if c.reporter == nil {
		c.report = ReportSkipped
		return
	}
	c.report = ReportPending
	sub := leaderboard.NewSubmission(c.username, s.Difficulty, s.Flips, won)
	c.reports.Add(1)
	go c.submit(epoch, sub)
}

func (c *Controller) submit(epoch uint64, sub leaderboard.Submission) {
	defer c.reports.Done()
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.ReportTimeout)
	defer cancel()
	_, err := c.reporter.Record(ctx, sub)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		log.Warn().Err(err).Str("session", c.id).Msg("result submission failed")
	}
	if c.epoch != epoch {
		return
	}
	if err != nil {
		c.report, c.reportErr = ReportFailed, err.Error()
		return
	}
	c.report = ReportSaved
}

func (c *Controller) autoReset(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch || !c.machine.Session().Status.Terminal() {
		return
	}
	c.resetTimer = nil
	c.resetLocked()
	log.Debug().Str("session", c.id).Msg("session auto-reset")
}

func (c *Controller) viewLocked() View {
	v := viewOf(c.machine.Session())
	v.ID = c.id
	v.Username = c.username
	v.Category = c.category
	v.Building = c.building
	if v.Difficulty == "" {
		v.Difficulty = c.difficulty
	}
	v.Report, v.ReportError = c.report, c.reportErr
	return v
}
