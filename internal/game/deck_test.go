package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
)

func symbols(n int) []Symbol {
	out := make([]Symbol, n)
	for i := range out {
		out[i] = Symbol{Name: fmt.Sprintf("sym-%02d", i), Glyph: fmt.Sprintf("g%d", i)}
	}
	return out
}

func TestBuildDeckPairs(t *testing.T) {
	for _, pool := range []int{10, 11, 25, 200} {
		for seed := uint64(1); seed <= 20; seed++ {
			t.Run(fmt.Sprintf("pool%d/seed%d", pool, seed), func(t *testing.T) {
				rng := rand.New(rand.NewPCG(seed, seed*7))
				deck, err := BuildDeck(symbols(pool), PairCount, rng)
				if err != nil {
					t.Fatalf("BuildDeck: %v", err)
				}
				if len(deck) != 2*PairCount {
					t.Fatalf("len(deck) = %d, want %d", len(deck), 2*PairCount)
				}
				counts := map[string]int{}
				for i, c := range deck {
					if c.Position != i {
						t.Errorf("card %d has position %d", i, c.Position)
					}
					counts[c.Symbol.Name]++
				}
				if len(counts) != PairCount {
					t.Errorf("distinct symbols = %d, want %d", len(counts), PairCount)
				}
				for name, n := range counts {
					if n != 2 {
						t.Errorf("symbol %s appears %d times", name, n)
					}
				}
			})
		}
	}
}

func TestBuildDeckDuplicateCandidates(t *testing.T) {
	// 30 entries but only 9 distinct names.
	var pool []Symbol
	for i := 0; i < 30; i++ {
		pool = append(pool, Symbol{Name: fmt.Sprintf("dup-%d", i%9)})
	}
	_, err := BuildDeck(pool, PairCount, rand.New(rand.NewPCG(1, 2)))
	var ice *InsufficientCandidatesError
	if !errors.As(err, &ice) {
		t.Fatalf("err = %v, want InsufficientCandidatesError", err)
	}
	if ice.Have != 9 || ice.Need != PairCount {
		t.Errorf("got Have=%d Need=%d", ice.Have, ice.Need)
	}
	if !errors.Is(err, ErrInsufficientCandidates) {
		t.Error("errors.Is(err, ErrInsufficientCandidates) = false")
	}
}

func TestBuildDeckEmptyAndInvalid(t *testing.T) {
	if _, err := BuildDeck(nil, PairCount, nil); !errors.Is(err, ErrInsufficientCandidates) {
		t.Errorf("nil candidates: err = %v", err)
	}
	if _, err := BuildDeck(symbols(5), 0, nil); err == nil {
		t.Error("pairCount 0: expected error")
	}
}

func TestBuildDeckDoesNotMutateCandidates(t *testing.T) {
	in := symbols(15)
	before := append([]Symbol(nil), in...)
	if _, err := BuildDeck(in, PairCount, rand.New(rand.NewPCG(3, 4))); err != nil {
		t.Fatal(err)
	}
	for i := range in {
		if in[i] != before[i] {
			t.Fatalf("candidate %d changed from %v to %v", i, before[i], in[i])
		}
	}
}

// Every slot should see every symbol over enough shuffles of a tiny deck.
func TestBuildDeckShuffleReachesAllSlots(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))
	seen := map[[2]int]bool{} // (symbol index, position)
	for i := 0; i < 2000; i++ {
		deck, err := BuildDeck(symbols(3), 3, rng)
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range deck {
			var idx int
			fmt.Sscanf(c.Symbol.Name, "sym-%d", &idx)
			seen[[2]int{idx, c.Position}] = true
		}
	}
	if len(seen) != 3*6 {
		t.Errorf("reached %d (symbol, slot) combinations, want 18", len(seen))
	}
}
