// apps/go-server/internal/game/machine.go
//
// Session state machine.
// Responsibilities:
//   - Transition: one pure step (Session, Event) -> Step, no I/O.
//   - Machine: drains the follow-up events a step produces, in order.
//
// State transitions:
//   NotStarted --Start--> InProgress --Settle--> Won | Lost
//   any        --Reset--> NotStarted
//
// A flip produces [Evaluate, Settle] follow-ups when it completes a pair and
// [Settle] otherwise. Settle checks the win condition before the loss
// condition, so a pair-completing flip (never counted) wins even when the
// counter already sits at the budget.
package game

import "fmt"

// EventKind discriminates Event.
type EventKind int

const (
	EventStart EventKind = iota
	EventFlip
	EventEvaluate
	EventSettle
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventFlip:
		return "flip"
	case EventEvaluate:
		return "evaluate"
	case EventSettle:
		return "settle"
	case EventReset:
		return "reset"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is an input to Transition.
type Event struct {
	Kind       EventKind
	Difficulty Difficulty // EventStart
	Deck       Deck       // EventStart
	Position   int        // EventFlip
}

// Start begins a session on a freshly built deck.
func Start(d Difficulty, deck Deck) Event {
	return Event{Kind: EventStart, Difficulty: d, Deck: deck}
}

// Flip turns the card at position face up.
func Flip(position int) Event { return Event{Kind: EventFlip, Position: position} }

// Reset returns the session to NotStarted.
func Reset() Event { return Event{Kind: EventReset} }

// Step is the result of a single transition.
type Step struct {
	Session Session
	Next    []Event // follow-ups the caller must process before any new input
	Counted bool    // the flip consumed budget
	Matched bool    // the evaluation confirmed a pair
	Ignored bool    // the flip changed nothing
}

// Transition applies ev to s. It never mutates s.
func Transition(s Session, ev Event) (Step, error) {
	switch ev.Kind {
	case EventStart:
		if s.Status != NotStarted {
			return Step{Session: s}, ErrAlreadyStarted
		}
		if !ev.Difficulty.Valid() {
			return Step{Session: s}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, ev.Difficulty)
		}
		if len(ev.Deck) == 0 {
			return Step{Session: s}, ErrEmptyDeck
		}
		return Step{Session: Session{
			Difficulty: ev.Difficulty,
			Deck:       append(Deck(nil), ev.Deck...),
			Status:     InProgress,
		}}, nil

	case EventFlip:
		if s.Status != InProgress {
			return Step{Session: s}, ErrNotInProgress
		}
		card, ok := s.Deck.At(ev.Position)
		if !ok {
			return Step{Session: s}, fmt.Errorf("%w: %d", ErrInvalidPosition, ev.Position)
		}
		sel, flips, counted := Select(card, s.Selection, s.Flips, s.Matched)
		if !counted && len(sel.Cards) == len(s.Selection.Cards) {
			return Step{Session: s, Ignored: true}, nil
		}
		next := s.clone()
		next.Selection, next.Flips = sel, flips
		st := Step{Session: next, Counted: counted}
		if len(sel.Cards) == 2 {
			st.Next = append(st.Next, Event{Kind: EventEvaluate})
		}
		st.Next = append(st.Next, Event{Kind: EventSettle})
		return st, nil

	case EventEvaluate:
		if s.Status != InProgress {
			return Step{Session: s}, nil
		}
		sel, matched, ok := Evaluate(s.Selection, s.Matched)
		if !ok {
			return Step{Session: s}, nil
		}
		next := s.clone()
		next.Selection, next.Matched = sel, matched
		return Step{Session: next, Matched: true}, nil

	case EventSettle:
		if s.Status != InProgress {
			return Step{Session: s}, nil
		}
		next := s.clone()
		switch {
		case len(next.Matched) == len(next.Deck):
			next.Status = Won
		case next.Flips >= next.Difficulty.Budget():
			next.Status = Lost
		}
		return Step{Session: next}, nil

	case EventReset:
		return Step{Session: Session{Status: NotStarted}}, nil
	}
	return Step{Session: s}, fmt.Errorf("unknown event %v", ev.Kind)
}

// Outcome summarizes everything a dispatched event caused.
type Outcome struct {
	Counted  bool
	Matched  bool
	Ignored  bool
	Finished bool // the session entered Won or Lost during this dispatch
}

// Machine owns a Session and the queue of pending follow-up events.
// It is not safe for concurrent use; callers serialize Dispatch.
type Machine struct {
	session Session
	queue   []Event
}

// NewMachine returns a machine in NotStarted.
func NewMachine() *Machine {
	return &Machine{session: Session{Status: NotStarted}}
}

// Session returns the current state.
func (m *Machine) Session() Session { return m.session }

// Dispatch applies ev and every follow-up it produces, in FIFO order.
// If ev itself is rejected the state is unchanged.
func (m *Machine) Dispatch(ev Event) (Outcome, error) {
	var out Outcome
	was := m.session.Status
	m.queue = append(m.queue[:0], ev)
	for first := true; len(m.queue) > 0; first = false {
		cur := m.queue[0]
		m.queue = m.queue[1:]
		st, err := Transition(m.session, cur)
		if err != nil {
			m.queue = m.queue[:0]
			if first {
				return out, err
			}
			return out, fmt.Errorf("%v: %w", cur.Kind, err)
		}
		m.session = st.Session
		m.queue = append(m.queue, st.Next...)
		out.Counted = out.Counted || st.Counted
		out.Matched = out.Matched || st.Matched
		out.Ignored = out.Ignored || st.Ignored
	}
	out.Finished = !was.Terminal() && m.session.Status.Terminal()
	return out, nil
}
