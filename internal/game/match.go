package game

// Evaluate resolves a complete selection. A pair with equal symbol names
// moves into the matched set and leaves a resolved, empty selection; a
// mismatch stays face up until the next flip replaces it.
// Selections of fewer than two cards are returned unchanged.
func Evaluate(sel Selection, matched MatchedSet) (Selection, MatchedSet, bool) {
	if len(sel.Cards) != 2 {
		return sel, matched, false
	}
	a, b := sel.Cards[0], sel.Cards[1]
	if a.Symbol.Name != b.Symbol.Name {
		return sel, matched, false
	}
	out := make(MatchedSet, 0, len(matched)+2)
	out = append(out, matched...)
	out = append(out, a, b)
	return Selection{Resolved: true}, out, true
}
