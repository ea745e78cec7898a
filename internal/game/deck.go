// apps/go-server/internal/game/deck.go
//
// Deck construction: sample distinct symbols, double them into pairs, shuffle.
//
// Sampling is a partial Fisher–Yates over the de-duplicated candidates, so it
// always terminates; a pool smaller than the pair count is an
// InsufficientCandidatesError instead of a retry loop.

package game

import (
	"errors"
	"math/rand/v2"
)

// BuildDeck returns a shuffled deck of 2*pairCount cards drawn from candidates.
// Candidates are distinct by Name; later duplicates are ignored.
// rng may be nil, in which case the runtime's global source is used.
func BuildDeck(candidates []Symbol, pairCount int, rng *rand.Rand) (Deck, error) {
	if pairCount <= 0 {
		return nil, errors.New("pair count must be positive")
	}
	pool := distinct(candidates)
	if len(pool) < pairCount {
		return nil, &InsufficientCandidatesError{Have: len(pool), Need: pairCount}
	}

	intn := rand.IntN
	if rng != nil {
		intn = rng.IntN
	}

	// Partial Fisher–Yates: the first pairCount slots end up a uniform sample.
	for i := 0; i < pairCount; i++ {
		j := i + intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	picked := pool[:pairCount]

	doubled := make([]Symbol, 0, 2*pairCount)
	doubled = append(doubled, picked...)
	doubled = append(doubled, picked...)
	for i := len(doubled) - 1; i > 0; i-- {
		j := intn(i + 1)
		doubled[i], doubled[j] = doubled[j], doubled[i]
	}

	deck := make(Deck, len(doubled))
	for i, s := range doubled {
		deck[i] = Card{Symbol: s, Position: i}
	}
	return deck, nil
}

// distinct copies candidates keeping the first symbol of each name.
func distinct(candidates []Symbol) []Symbol {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]Symbol, 0, len(candidates))
	for _, s := range candidates {
		if _, ok := seen[s.Name]; ok {
			continue
		}
		seen[s.Name] = struct{}{}
		out = append(out, s)
	}
	return out
}
