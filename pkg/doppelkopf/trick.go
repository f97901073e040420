package doppelkopf

// TrickCard is one play within a trick.
type TrickCard struct {
	Player string `json:"player"`
	Card   Card   `json:"card"`
}

// Trick is an ordered sequence of plays; complete at four entries. The first
// card sets the suit to follow.
type Trick struct {
	Cards []TrickCard `json:"cards"`
}

// Lead returns the first card of the trick.
func (t *Trick) Lead() (Card, bool) {
	if t == nil || len(t.Cards) == 0 {
		return Card{}, false
	}
	return t.Cards[0].Card, true
}

// IsComplete reports whether all four players have played.
func (t *Trick) IsComplete() bool {
	return t != nil && len(t.Cards) == 4
}

// Points sums the point values of the played cards.
func (t *Trick) Points() int {
	total := 0
	for _, tc := range t.Cards {
		total += tc.Card.Points()
	}
	return total
}

// Winner returns the player holding the highest card under the mode's
// comparator. Scanning in play order keeps the incumbent on ties, so the
// first of two equal cards wins.
func (t *Trick) Winner(mode Mode) string {
	if t == nil || len(t.Cards) == 0 {
		return ""
	}
	winner := t.Cards[0]
	for _, tc := range t.Cards[1:] {
		if tc.Card.Beats(winner.Card, mode) {
			winner = tc
		}
	}
	return winner.Player
}

// played reports whether the given player has already played in this trick.
func (t *Trick) played(player string) bool {
	if t == nil {
		return false
	}
	for _, tc := range t.Cards {
		if tc.Player == player {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (t *Trick) Clone() *Trick {
	if t == nil {
		return nil
	}
	out := &Trick{Cards: make([]TrickCard, len(t.Cards))}
	copy(out.Cards, t.Cards)
	return out
}

// LegalCards computes the playable subset of a hand against the trick so far.
// Leading, the whole hand is legal. Following, the lead suit (with trump as
// its own suit) must be followed when possible.
func LegalCards(hand Cards, trick *Trick, mode Mode) Cards {
	lead, ok := trick.Lead()
	if !ok {
		return hand.Clone()
	}

	var follow Cards
	for _, c := range hand {
		if c.FollowsSuit(lead, mode) {
			follow = append(follow, c)
		}
	}
	if len(follow) > 0 {
		return follow
	}
	return hand.Clone()
}
