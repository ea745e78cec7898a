package game

// Select applies one flip of card to the current selection.
//
// Rules, in order:
//   - a matched card or an already-selected card is ignored;
//   - with fewer than two held, the card joins the selection (not counted);
//   - with a complete attempt held, the card starts a new attempt: the
//     selection becomes {card} and the flip counts against the budget.
func Select(card Card, sel Selection, flips int, matched MatchedSet) (Selection, int, bool) {
	if matched.Contains(card.Position) || sel.Contains(card.Position) {
		return sel, flips, false
	}
	if sel.Held() {
		return Selection{Cards: []Card{card}}, flips + 1, true
	}
	next := Selection{Cards: make([]Card, 0, 2)}
	next.Cards = append(next.Cards, sel.Cards...)
	next.Cards = append(next.Cards, card)
	return next, flips, false
}
