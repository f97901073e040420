package doppelkopf

import (
	"errors"
	"reflect"
	"testing"
)

func TestShuffleDeckDeterministic(t *testing.T) {
	deck := NewDeck(DeckStandard)

	a := ShuffleDeck(deck, 42)
	b := ShuffleDeck(deck, 42)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed must produce the same permutation")
	}

	c := ShuffleDeck(deck, 43)
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds should produce different permutations")
	}
}

func TestShuffleDeckConserves(t *testing.T) {
	deck := NewDeck(DeckStandard)
	shuffled := ShuffleDeck(deck, 7)

	counts := make(map[Card]int)
	for _, c := range deck {
		counts[c]++
	}
	for _, c := range shuffled {
		counts[c]--
	}
	for card, n := range counts {
		if n != 0 {
			t.Errorf("card %s count off by %d after shuffle", card, n)
		}
	}
	if !reflect.DeepEqual(deck, NewDeck(DeckStandard)) {
		t.Error("shuffle must not mutate its input")
	}
}

func TestDistribute(t *testing.T) {
	deck := ShuffleDeck(NewDeck(DeckStandard), 1)

	hands, err := Distribute(deck, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hands) != 4 {
		t.Fatalf("expected 4 hands, got %d", len(hands))
	}
	for i, h := range hands {
		if len(h) != 10 {
			t.Errorf("hand %d has %d cards, want 10", i, len(h))
		}
	}
}

func TestDistributeErrors(t *testing.T) {
	deck := NewDeck(DeckStandard)

	if _, err := Distribute(deck, 3); !errors.Is(err, ErrDeal) {
		t.Errorf("40 cards over 3 players: got %v, want ErrDeal", err)
	}
	if _, err := Distribute(deck, 0); !errors.Is(err, ErrDeal) {
		t.Errorf("0 players: got %v, want ErrDeal", err)
	}
	if _, err := Distribute(nil, 4); !errors.Is(err, ErrDeal) {
		t.Errorf("empty deck: got %v, want ErrDeal", err)
	}
}

func TestChooseFirstActor(t *testing.T) {
	players := []string{"a", "b", "c", "d"}

	first := ChooseFirstActor(players, 99)
	if first != ChooseFirstActor(players, 99) {
		t.Error("same seed must choose the same first actor")
	}
	found := false
	for _, p := range players {
		if p == first {
			found = true
		}
	}
	if !found {
		t.Errorf("first actor %q not among players", first)
	}
}

func TestNextFirstActor(t *testing.T) {
	players := []string{"a", "b", "c", "d"}

	tests := []struct {
		prior string
		want  string
	}{
		{"a", "b"},
		{"b", "c"},
		{"c", "d"},
		{"d", "a"},
	}
	for _, tt := range tests {
		if got := NextFirstActor(players, tt.prior); got != tt.want {
			t.Errorf("NextFirstActor(%q) = %q, want %q", tt.prior, got, tt.want)
		}
	}
}
