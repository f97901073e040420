package doppelkopf

import (
	"fmt"
	"sort"
)

// Declaration is one player's declared variant.
type Declaration struct {
	Player  string `json:"player"`
	Variant Mode   `json:"variant"`
}

// PovertyState tracks the Armut exchange. Responses are final: once resolved
// the exchange cannot be re-answered.
type PovertyState struct {
	Holder    string   `json:"holder"`
	Offer     Cards    `json:"offer"`
	Responder string   `json:"responder,omitempty"`
	Declined  []string `json:"declined,omitempty"`
	Accepter  string   `json:"accepter,omitempty"`
	Resolved  bool     `json:"resolved"`
}

func (p *PovertyState) Clone() *PovertyState {
	if p == nil {
		return nil
	}
	out := *p
	out.Offer = p.Offer.Clone()
	out.Declined = append([]string(nil), p.Declined...)
	return &out
}

// povertyTrumpLimit is the most trumps a hand may hold to declare Armut.
const povertyTrumpLimit = 3

// povertyOfferSize is the number of cards passed each way.
const povertyOfferSize = 3

// AwaitingDeclarationFrom returns the player whose variant declaration the
// round is suspended on. False outside the variant-selection phase.
func (r *Round) AwaitingDeclarationFrom() (string, bool) {
	if r.Phase != PhaseVariantSelection || len(r.Declarations) >= len(r.Players) {
		return "", false
	}
	start := r.seatOf(r.FirstActor)
	return r.Players[(start+len(r.Declarations))%len(r.Players)], true
}

func validDeclaredVariant(v Mode) bool {
	switch v {
	case ModeNormal, ModePoverty, ModeDiamondSolo, ModeHeartSolo,
		ModeSpadeSolo, ModeClubSolo, ModeQueenSolo, ModeJackSolo, ModeTrumpless:
		return true
	default:
		return false
	}
}

// DeclareVariant records one player's variant declaration. Players are polled
// one at a time in seat order; once all four have declared, the effective
// mode is resolved and the round advances.
func (r *Round) DeclareVariant(player string, variant Mode) (*Round, error) {
	if r.Phase != PhaseVariantSelection {
		return nil, ErrWrongPhase
	}
	if !r.hasPlayer(player) {
		return nil, ErrPlayerNotFound
	}
	awaiting, _ := r.AwaitingDeclarationFrom()
	if player != awaiting {
		for _, d := range r.Declarations {
			if d.Player == player {
				return nil, ErrAlreadyDeclared
			}
		}
		return nil, ErrNotYourTurn
	}
	if !validDeclaredVariant(variant) {
		return nil, fmt.Errorf("%w: unknown variant", ErrVariantNotAllowed)
	}
	if variant == ModePoverty && r.Hands[player].CountTrumps(ModeNormal) > povertyTrumpLimit {
		return nil, fmt.Errorf("%w: poverty requires at most %d trumps", ErrVariantNotAllowed, povertyTrumpLimit)
	}

	next := r.clone()
	next.Declarations = append(next.Declarations, Declaration{Player: player, Variant: variant})
	next.recordAction(Action{Type: ActionDeclareVariant, Player: player, Variant: variant})
	if len(next.Declarations) == len(next.Players) {
		next.resolveMode()
	} else {
		next.CurrentPlayer, _ = next.AwaitingDeclarationFrom()
	}
	return next, nil
}

// resolveMode computes the effective mode once all declarations are in.
// Priority: any solo beats poverty beats normal; between conflicting solo
// declarations the earliest declarer in poll order wins.
func (r *Round) resolveMode() {
	for _, d := range r.Declarations {
		if d.Variant.IsSolo() {
			r.Mode = d.Variant
			r.SoloDeclarer = d.Player
			r.resolveTeam(d.Player, TeamRe)
			for _, p := range r.Players {
				r.resolveTeam(p, TeamKontra)
			}
			r.startPlaying()
			return
		}
	}
	for _, d := range r.Declarations {
		if d.Variant == ModePoverty {
			r.Phase = PhasePoverty
			r.Poverty = &PovertyState{
				Holder:    d.Player,
				Offer:     povertyOffer(r.Hands[d.Player]),
				Responder: r.nextSeat(d.Player),
			}
			r.CurrentPlayer = r.Poverty.Responder
			r.EligibleCards = nil
			return
		}
	}
	r.Mode = ModeNormal
	r.startPlaying()
}

// povertyOffer fixes the cards passed on at declaration time: every trump the
// holder has, padded with their lowest non-trumps.
func povertyOffer(hand Cards) Cards {
	var trumps, rest Cards
	for _, c := range hand {
		if c.IsTrump(ModeNormal) {
			trumps = append(trumps, c)
		} else {
			rest = append(rest, c)
		}
	}
	sortAscending(rest)
	offer := trumps
	for _, c := range rest {
		if len(offer) >= povertyOfferSize {
			break
		}
		offer = append(offer, c)
	}
	return offer
}

// povertyReturn picks the cards handed back by the accepter: lowest
// non-trumps first, lowest trumps only when the hand holds fewer than three
// non-trumps.
func povertyReturn(hand Cards) Cards {
	var trumps, rest Cards
	for _, c := range hand {
		if c.IsTrump(ModeNormal) {
			trumps = append(trumps, c)
		} else {
			rest = append(rest, c)
		}
	}
	sortAscending(rest)
	sortAscending(trumps)
	ret := make(Cards, 0, povertyOfferSize)
	for _, c := range append(rest, trumps...) {
		if len(ret) >= povertyOfferSize {
			break
		}
		ret = append(ret, c)
	}
	return ret
}

// sortAscending orders cards from least to most valuable, deterministically.
func sortAscending(cs Cards) {
	sort.Slice(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.Points() != b.Points() {
			return a.Points() < b.Points()
		}
		if rankStrength(a.Rank) != rankStrength(b.Rank) {
			return rankStrength(a.Rank) < rankStrength(b.Rank)
		}
		return suitStrength(a.Suit) < suitStrength(b.Suit)
	})
}

// ExchangePoverty answers the pending Armut offer for the responding player.
// A decline cascades to the next seat; when all three have declined the mode
// reverts to normal and play starts without an exchange. An accept moves the
// offer to the accepter, returns their lowest cards, and fixes the teams.
func (r *Round) ExchangePoverty(player string, accept bool) (*Round, error) {
	if r.Poverty != nil && r.Poverty.Resolved {
		return nil, ErrExchangeResolved
	}
	if r.Phase != PhasePoverty || r.Poverty == nil {
		return nil, ErrWrongPhase
	}
	if !r.hasPlayer(player) {
		return nil, ErrPlayerNotFound
	}
	if player != r.Poverty.Responder {
		return nil, ErrNotYourTurn
	}

	next := r.clone()
	next.recordAction(Action{Type: ActionExchangePoverty, Player: player, Accept: accept})
	pov := next.Poverty

	if !accept {
		pov.Declined = append(pov.Declined, player)
		if len(pov.Declined) == len(next.Players)-1 {
			pov.Resolved = true
			pov.Responder = ""
			next.Mode = ModeNormal
			next.startPlaying()
			return next, nil
		}
		responder := next.nextSeat(player)
		if responder == pov.Holder {
			responder = next.nextSeat(responder)
		}
		pov.Responder = responder
		next.CurrentPlayer = responder
		return next, nil
	}

	pov.Accepter = player
	pov.Resolved = true
	pov.Responder = ""

	holderHand := next.Hands[pov.Holder]
	accepterHand := next.Hands[player]
	for _, c := range pov.Offer {
		holderHand, _ = holderHand.Remove(c)
		accepterHand = append(accepterHand, c)
	}
	for _, c := range povertyReturn(accepterHand) {
		accepterHand, _ = accepterHand.Remove(c)
		holderHand = append(holderHand, c)
	}
	next.Hands[pov.Holder] = holderHand
	next.Hands[player] = accepterHand

	next.Mode = ModePoverty
	next.resolveTeam(pov.Holder, TeamRe)
	next.resolveTeam(player, TeamRe)
	for _, p := range next.Players {
		next.resolveTeam(p, TeamKontra)
	}
	next.startPlaying()
	return next, nil
}
