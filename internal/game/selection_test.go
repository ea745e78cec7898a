package game

import "testing"

func TestSelect(t *testing.T) {
	deck := fixedDeck()
	a, b, c := deck[0], deck[1], deck[2]
	matched := MatchedSet{deck[3], deck[3+PairCount]}

	tests := []struct {
		name        string
		card        Card
		sel         Selection
		flips       int
		wantPos     []int
		wantFlips   int
		wantCounted bool
	}{
		{"first card", a, Selection{}, 0, []int{0}, 0, false},
		{"second card", b, Selection{Cards: []Card{a}}, 4, []int{0, 1}, 4, false},
		{"reflip selected", a, Selection{Cards: []Card{a}}, 4, []int{0}, 4, false},
		{"third card", c, Selection{Cards: []Card{a, b}}, 4, []int{2}, 5, true},
		{"after resolved pair", c, Selection{Resolved: true}, 0, []int{2}, 1, true},
		{"matched card", deck[3], Selection{Cards: []Card{a}}, 2, []int{0}, 2, false},
		{"matched card with pair held", deck[3], Selection{Cards: []Card{a, b}}, 2, []int{0, 1}, 2, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sel, flips, counted := Select(tc.card, tc.sel, tc.flips, matched)
			got := sel.Positions()
			if len(got) != len(tc.wantPos) {
				t.Fatalf("selection = %v, want %v", got, tc.wantPos)
			}
			for i := range got {
				if got[i] != tc.wantPos[i] {
					t.Fatalf("selection = %v, want %v", got, tc.wantPos)
				}
			}
			if flips != tc.wantFlips || counted != tc.wantCounted {
				t.Errorf("flips, counted = %d, %v; want %d, %v", flips, counted, tc.wantFlips, tc.wantCounted)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	deck := fixedDeck()

	sel, matched, ok := Evaluate(Selection{Cards: []Card{deck[0], deck[PairCount]}}, nil)
	if !ok || len(matched) != 2 || len(sel.Cards) != 0 || !sel.Resolved {
		t.Errorf("match: ok=%v matched=%v sel=%+v", ok, matched.Positions(), sel)
	}

	mis := Selection{Cards: []Card{deck[0], deck[1]}}
	sel, matched, ok = Evaluate(mis, nil)
	if ok || len(matched) != 0 || len(sel.Cards) != 2 {
		t.Errorf("mismatch: ok=%v matched=%v sel=%v", ok, matched.Positions(), sel.Positions())
	}

	one := Selection{Cards: []Card{deck[0]}}
	if sel, _, ok := Evaluate(one, nil); ok || len(sel.Cards) != 1 {
		t.Errorf("single card evaluated: %v", sel.Positions())
	}
}

func TestDifficulty(t *testing.T) {
	want := map[Difficulty]int{Beginner: 40, Easy: 30, Medium: 20, Hard: 15, Insane: 10}
	for d, b := range want {
		if d.Budget() != b {
			t.Errorf("%s budget = %d, want %d", d, d.Budget(), b)
		}
	}
	for i, d := range Difficulties {
		if d.Rank() != i {
			t.Errorf("%s rank = %d, want %d", d, d.Rank(), i)
		}
	}
	if d, ok := ParseDifficulty("  HARD "); !ok || d != Hard {
		t.Errorf("ParseDifficulty = %q, %v", d, ok)
	}
	if _, ok := ParseDifficulty("expert"); ok {
		t.Error("expert parsed as valid")
	}
}
