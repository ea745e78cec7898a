package game

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientCandidates = errors.New("not enough distinct symbols for a deck")
	ErrNotInProgress          = errors.New("session is not in progress")
	ErrAlreadyStarted         = errors.New("session already started")
	ErrInvalidPosition        = errors.New("no card at that position")
	ErrEmptyDeck              = errors.New("deck is empty")
	ErrUnknownDifficulty      = errors.New("unknown difficulty")
)

// InsufficientCandidatesError reports how short the candidate pool was.
type InsufficientCandidatesError struct {
	Have int
	Need int
}

func (e *InsufficientCandidatesError) Error() string {
	return fmt.Sprintf("need %d distinct symbols, source offered %d", e.Need, e.Have)
}

func (e *InsufficientCandidatesError) Unwrap() error { return ErrInsufficientCandidates }
