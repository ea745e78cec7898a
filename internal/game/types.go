// apps/go-server/internal/game/types.go
//
// Core type definitions for the memory game engine.
// Defines:
//   - Difficulty: named flip budgets.
//   - Symbol / Card / Deck: what is being matched.
//   - Selection / MatchedSet: what is face up.
//   - Session: the aggregate the state machine transitions.

package game

import "strings"

// PairCount is the number of pairs in every deck, regardless of difficulty.
const PairCount = 10

// Difficulty selects the flip budget of a session.
type Difficulty string

const (
	Beginner Difficulty = "beginner"
	Easy     Difficulty = "easy"
	Medium   Difficulty = "medium"
	Hard     Difficulty = "hard"
	Insane   Difficulty = "insane"
)

// Difficulties lists every difficulty in ranking order.
var Difficulties = []Difficulty{Beginner, Easy, Medium, Hard, Insane}

var budgets = map[Difficulty]int{
	Beginner: 40,
	Easy:     30,
	Medium:   20,
	Hard:     15,
	Insane:   10,
}

// ParseDifficulty maps a user-supplied name onto a Difficulty.
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	_, ok := budgets[d]
	return d, ok
}

// Valid reports whether d is one of the five known difficulties.
func (d Difficulty) Valid() bool {
	_, ok := budgets[d]
	return ok
}

// Budget is the number of counted flips that loses the session.
func (d Difficulty) Budget() int { return budgets[d] }

// Rank is the fixed category order used by the leaderboard (beginner first).
// Unknown difficulties sort last.
func (d Difficulty) Rank() int {
	for i, x := range Difficulties {
		if x == d {
			return i
		}
	}
	return len(Difficulties)
}

// Symbol is one item of an emoji category.
type Symbol struct {
	Name  string `json:"name"`
	Glyph string `json:"glyph"`
}

// Card is a symbol placed at a slot of the deck.
type Card struct {
	Symbol   Symbol `json:"symbol"`
	Position int    `json:"position"`
}

// Deck is the ordered slot layout of a session; every symbol name appears twice.
type Deck []Card

// At returns the card at position p.
func (d Deck) At(p int) (Card, bool) {
	if p < 0 || p >= len(d) {
		return Card{}, false
	}
	return d[p], true
}

// Selection holds the face-up, unresolved cards (0, 1 or 2 of them).
//
// Resolved is set when the previous attempt ended in a match: its cards moved
// to the matched set, but the attempt still occupies the "two held" slot, so
// the next flip begins a new attempt.
type Selection struct {
	Cards    []Card
	Resolved bool
}

// Held reports whether a complete attempt is currently held.
func (s Selection) Held() bool { return len(s.Cards) == 2 || s.Resolved }

// Contains reports whether position p is selected.
func (s Selection) Contains(p int) bool {
	for _, c := range s.Cards {
		if c.Position == p {
			return true
		}
	}
	return false
}

// Positions returns the selected positions in flip order.
func (s Selection) Positions() []int {
	out := make([]int, 0, len(s.Cards))
	for _, c := range s.Cards {
		out = append(out, c.Position)
	}
	return out
}

// MatchedSet accumulates confirmed pairs; it only ever grows by two.
type MatchedSet []Card

// Contains reports whether position p has been matched.
func (m MatchedSet) Contains(p int) bool {
	for _, c := range m {
		if c.Position == p {
			return true
		}
	}
	return false
}

// Positions returns matched positions in match order.
func (m MatchedSet) Positions() []int {
	out := make([]int, 0, len(m))
	for _, c := range m {
		out = append(out, c.Position)
	}
	return out
}

// Status is the lifecycle phase of a session.
type Status string

const (
	NotStarted Status = "not_started"
	InProgress Status = "in_progress"
	Won        Status = "won"
	Lost       Status = "lost"
)

// Terminal reports whether s ends the session.
func (s Status) Terminal() bool { return s == Won || s == Lost }

// Session is the aggregate state of one game. Values are treated as
// immutable: Transition returns a fresh copy.
type Session struct {
	Difficulty Difficulty
	Deck       Deck
	Selection  Selection
	Matched    MatchedSet
	Flips      int
	Status     Status
}

// Active is the presentation signal for "a board is on screen".
func (s Session) Active() bool { return s.Status != NotStarted }

func (s Session) clone() Session {
	out := s
	out.Deck = append(Deck(nil), s.Deck...)
	out.Selection.Cards = append([]Card(nil), s.Selection.Cards...)
	out.Matched = append(MatchedSet(nil), s.Matched...)
	return out
}
