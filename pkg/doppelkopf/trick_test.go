package doppelkopf

import (
	"testing"
)

func trickOf(plays ...TrickCard) *Trick {
	return &Trick{Cards: plays}
}

func tc(player string, card Card) TrickCard {
	return TrickCard{Player: player, Card: card}
}

func TestLegalCardsLeading(t *testing.T) {
	hand := Cards{
		NewCard(SuitHeart, RankAce),
		NewCard(SuitClub, RankQueen),
		NewCard(SuitSpade, RankTen),
	}

	legal := LegalCards(hand, nil, ModeNormal)
	if len(legal) != len(hand) {
		t.Errorf("leading: all %d cards legal, got %d", len(hand), len(legal))
	}

	legal = LegalCards(hand, trickOf(), ModeNormal)
	if len(legal) != len(hand) {
		t.Errorf("empty trick counts as leading, got %d legal", len(legal))
	}
}

func TestLegalCardsFollowSuit(t *testing.T) {
	hand := Cards{
		NewCard(SuitHeart, RankAce),
		NewCard(SuitHeart, RankKing),
		NewCard(SuitHeart, RankQueen), // trump, not a heart
		NewCard(SuitSpade, RankTen),
	}
	trick := trickOf(tc("a", NewCard(SuitHeart, RankTen)))

	legal := LegalCards(hand, trick, ModeNormal)
	if len(legal) != 2 {
		t.Fatalf("expected 2 legal cards, got %d (%v)", len(legal), legal)
	}
	for _, c := range legal {
		if c.Suit != SuitHeart || c.IsTrump(ModeNormal) {
			t.Errorf("card %s must be a plain heart", c)
		}
	}
}

func TestLegalCardsTrumpIsOwnSuit(t *testing.T) {
	hand := Cards{
		NewCard(SuitSpade, RankAce),
		NewCard(SuitDiamond, RankTen), // trump
		NewCard(SuitHeart, RankJack),  // trump
	}
	trick := trickOf(tc("a", NewCard(SuitClub, RankQueen))) // trump lead

	legal := LegalCards(hand, trick, ModeNormal)
	if len(legal) != 2 {
		t.Fatalf("expected 2 legal cards, got %d (%v)", len(legal), legal)
	}
	for _, c := range legal {
		if !c.IsTrump(ModeNormal) {
			t.Errorf("card %s is not trump", c)
		}
	}
}

func TestLegalCardsVoidInLeadSuit(t *testing.T) {
	hand := Cards{
		NewCard(SuitSpade, RankAce),
		NewCard(SuitClub, RankTen),
	}
	trick := trickOf(tc("a", NewCard(SuitHeart, RankAce)))

	legal := LegalCards(hand, trick, ModeNormal)
	if len(legal) != len(hand) {
		t.Errorf("void in lead suit: whole hand legal, got %d", len(legal))
	}
}

func TestTrickWinner(t *testing.T) {
	tests := []struct {
		name  string
		trick *Trick
		mode  Mode
		want  string
	}{
		{
			name: "highest of lead suit wins without trump",
			trick: trickOf(
				tc("a", NewCard(SuitHeart, RankKing)),
				tc("b", NewCard(SuitHeart, RankAce)),
				tc("c", NewCard(SuitHeart, RankTen)),
				tc("d", NewCard(SuitSpade, RankAce)),
			),
			mode: ModeNormal,
			want: "b",
		},
		{
			name: "any trump beats the lead suit",
			trick: trickOf(
				tc("a", NewCard(SuitClub, RankAce)),
				tc("b", NewCard(SuitClub, RankTen)),
				tc("c", NewCard(SuitDiamond, RankKing)),
				tc("d", NewCard(SuitClub, RankKing)),
			),
			mode: ModeNormal,
			want: "c",
		},
		{
			name: "highest trump wins",
			trick: trickOf(
				tc("a", NewCard(SuitDiamond, RankAce)),
				tc("b", NewCard(SuitHeart, RankJack)),
				tc("c", NewCard(SuitSpade, RankQueen)),
				tc("d", NewCard(SuitClub, RankJack)),
			),
			mode: ModeNormal,
			want: "c",
		},
		{
			name: "first of paired queens wins",
			trick: trickOf(
				tc("a", NewCard(SuitHeart, RankTen)),
				tc("b", NewCard(SuitClub, RankQueen)),
				tc("c", NewCard(SuitClub, RankQueen)),
				tc("d", NewCard(SuitDiamond, RankJack)),
			),
			mode: ModeNormal,
			want: "b",
		},
		{
			name: "queen solo ignores plain diamonds",
			trick: trickOf(
				tc("a", NewCard(SuitDiamond, RankAce)),
				tc("b", NewCard(SuitDiamond, RankTen)),
				tc("c", NewCard(SuitHeart, RankQueen)),
				tc("d", NewCard(SuitDiamond, RankKing)),
			),
			mode: ModeQueenSolo,
			want: "c",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.trick.Winner(tt.mode); got != tt.want {
				t.Errorf("winner = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrickPoints(t *testing.T) {
	trick := trickOf(
		tc("a", NewCard(SuitHeart, RankAce)),  // 11
		tc("b", NewCard(SuitHeart, RankTen)),  // 10
		tc("c", NewCard(SuitHeart, RankKing)), // 4
		tc("d", NewCard(SuitClub, RankJack)),  // 2
	)
	if got := trick.Points(); got != 27 {
		t.Errorf("points = %d, want 27", got)
	}
}

func TestTrickIsComplete(t *testing.T) {
	trick := trickOf(
		tc("a", NewCard(SuitHeart, RankAce)),
		tc("b", NewCard(SuitHeart, RankTen)),
		tc("c", NewCard(SuitHeart, RankKing)),
	)
	if trick.IsComplete() {
		t.Error("3 plays should not be complete")
	}
	trick.Cards = append(trick.Cards, tc("d", NewCard(SuitClub, RankJack)))
	if !trick.IsComplete() {
		t.Error("4 plays should be complete")
	}
}
