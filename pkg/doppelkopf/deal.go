package doppelkopf

import (
	"fmt"
	"math/rand/v2"
)

// shuffleStream separates the shuffle RNG stream from the first-actor draw so
// both can share one round seed.
const shuffleStream = 0x646f6b6f

// ShuffleDeck returns a seeded permutation of the deck. The same seed always
// produces the same order, which is what makes snapshots replayable.
func ShuffleDeck(cards Cards, seed uint64) Cards {
	shuffled := cards.Clone()
	rng := rand.New(rand.NewPCG(seed, shuffleStream))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// Distribute splits a shuffled deck into equal hands, one per player in seat
// order.
func Distribute(cards Cards, players int) ([]Cards, error) {
	if players <= 0 {
		return nil, fmt.Errorf("%w: %d players", ErrDeal, players)
	}
	if len(cards) == 0 || len(cards)%players != 0 {
		return nil, fmt.Errorf("%w: deck of %d not dividable by %d players", ErrDeal, len(cards), players)
	}

	size := len(cards) / players
	hands := make([]Cards, players)
	for i := range players {
		hands[i] = make(Cards, size)
		copy(hands[i], cards[i*size:(i+1)*size])
	}
	return hands, nil
}

// ChooseFirstActor draws the opening player for the first round at a table.
// Later rounds rotate deterministically via NextFirstActor.
func ChooseFirstActor(players []string, seed uint64) string {
	if len(players) == 0 {
		return ""
	}
	rng := rand.New(rand.NewPCG(seed, shuffleStream+1))
	return players[rng.IntN(len(players))]
}

// NextFirstActor returns the seat after the prior round's first actor.
func NextFirstActor(players []string, prior string) string {
	for i, p := range players {
		if p == prior {
			return players[(i+1)%len(players)]
		}
	}
	if len(players) == 0 {
		return ""
	}
	return players[0]
}
