package doppelkopf

import "fmt"

// Card is an immutable card value. The standard deck holds every card twice,
// so a Card does not identify a single physical card on its own.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func NewCard(suit Suit, rank Rank) Card {
	return Card{
		Suit: suit,
		Rank: rank,
	}
}

func (c Card) String() string {
	return fmt.Sprintf("%s_%s", c.Suit, c.Rank)
}

// Points returns the card point value used for scoring. The standard deck
// totals 240 points, the compact deck 200.
func (c Card) Points() int {
	switch c.Rank {
	case RankAce:
		return 11
	case RankTen:
		return 10
	case RankKing:
		return 4
	case RankQueen:
		return 3
	case RankJack:
		return 2
	default:
		return 0
	}
}

// trumpSuit returns the suit that acts as plain trump for the mode, SuitNone
// when the mode has no plain trump suit.
func trumpSuit(mode Mode) Suit {
	switch mode {
	case ModeNormal, ModePoverty, ModeDiamondSolo:
		return SuitDiamond
	case ModeHeartSolo:
		return SuitHeart
	case ModeSpadeSolo:
		return SuitSpade
	case ModeClubSolo:
		return SuitClub
	default:
		return SuitNone
	}
}

// IsTrump reports whether the card is in the trump class under the mode.
func (c Card) IsTrump(mode Mode) bool {
	switch mode {
	case ModeQueenSolo:
		return c.Rank == RankQueen
	case ModeJackSolo:
		return c.Rank == RankJack
	case ModeTrumpless:
		return false
	default:
		if c.Rank == RankQueen || c.Rank == RankJack {
			return true
		}
		return c.Suit == trumpSuit(mode)
	}
}

// suitStrength orders suits within the queen and jack blocks: clubs highest,
// then spades, hearts, diamonds.
func suitStrength(s Suit) int {
	switch s {
	case SuitClub:
		return 4
	case SuitSpade:
		return 3
	case SuitHeart:
		return 2
	case SuitDiamond:
		return 1
	default:
		return 0
	}
}

// rankStrength orders ranks within one suit outside the trump class.
func rankStrength(r Rank) int {
	switch r {
	case RankAce:
		return 5
	case RankTen:
		return 4
	case RankKing:
		return 3
	case RankQueen:
		return 2
	case RankJack:
		return 1
	default:
		return 0
	}
}

// trumpStrength returns the card's position in the trump order for the mode.
// Queens beat jacks beat the plain trump suit; within the queen and jack
// blocks clubs > spades > hearts > diamonds. Zero for non-trump cards.
func (c Card) trumpStrength(mode Mode) int {
	if !c.IsTrump(mode) {
		return 0
	}
	switch mode {
	case ModeQueenSolo, ModeJackSolo:
		return suitStrength(c.Suit)
	default:
		if c.Rank == RankQueen {
			return 200 + suitStrength(c.Suit)
		}
		if c.Rank == RankJack {
			return 100 + suitStrength(c.Suit)
		}
		return rankStrength(c.Rank)
	}
}

// Beats reports whether c wins over other under the mode, where other was
// played earlier in the trick. Equal cards (the deck holds every card twice)
// keep the incumbent, so the first-played card wins ties.
func (c Card) Beats(other Card, mode Mode) bool {
	ct, ot := c.IsTrump(mode), other.IsTrump(mode)
	switch {
	case ct && ot:
		return c.trumpStrength(mode) > other.trumpStrength(mode)
	case ct:
		return true
	case ot:
		return false
	default:
		// Off-suit non-trump can never take over.
		if c.Suit != other.Suit {
			return false
		}
		return rankStrength(c.Rank) > rankStrength(other.Rank)
	}
}

// FollowsSuit reports whether c counts as the same suit as the lead card for
// following purposes. Trump is its own suit.
func (c Card) FollowsSuit(lead Card, mode Mode) bool {
	ct, lt := c.IsTrump(mode), lead.IsTrump(mode)
	if ct || lt {
		return ct && lt
	}
	return c.Suit == lead.Suit
}

type Cards []Card

// NewDeck builds the deck for a variant. Composition is fixed per variant:
// every listed card appears twice.
func NewDeck(variant DeckVariant) Cards {
	ranks := []Rank{RankAce, RankTen, RankKing, RankQueen, RankJack}
	if variant == DeckCompact {
		ranks = []Rank{RankAce, RankTen, RankKing}
	}
	suits := []Suit{SuitDiamond, SuitHeart, SuitSpade, SuitClub}

	cards := make(Cards, 0, 2*len(suits)*len(ranks))
	for range 2 {
		for _, suit := range suits {
			for _, rank := range ranks {
				cards = append(cards, NewCard(suit, rank))
			}
		}
	}
	return cards
}

// Points sums the card point values.
func (cs Cards) Points() int {
	total := 0
	for _, c := range cs {
		total += c.Points()
	}
	return total
}

// Contains reports whether the card is present at least once.
func (cs Cards) Contains(card Card) bool {
	for _, c := range cs {
		if c == card {
			return true
		}
	}
	return false
}

// Remove returns a copy with one occurrence of card removed. The second
// return is false when the card was not present.
func (cs Cards) Remove(card Card) (Cards, bool) {
	for i, c := range cs {
		if c == card {
			out := make(Cards, 0, len(cs)-1)
			out = append(out, cs[:i]...)
			out = append(out, cs[i+1:]...)
			return out, true
		}
	}
	return cs, false
}

// CountTrumps counts trump cards under the mode.
func (cs Cards) CountTrumps(mode Mode) int {
	count := 0
	for _, c := range cs {
		if c.IsTrump(mode) {
			count++
		}
	}
	return count
}

// Clone returns a copy of the slice.
func (cs Cards) Clone() Cards {
	if cs == nil {
		return nil
	}
	out := make(Cards, len(cs))
	copy(out, cs)
	return out
}
