package doppelkopf

import (
	"fmt"
	"time"
)

// ActionType tags a recorded inbound action.
type ActionType uint8

const (
	ActionDeclareVariant ActionType = iota + 1
	ActionExchangePoverty
	ActionPlayCard
	ActionMakeAnnouncement
)

// Action is one recorded inbound action. The round appends every applied
// action, so a snapshot carries the full log needed to replay it.
type Action struct {
	Type         ActionType       `json:"type"`
	Player       string           `json:"player"`
	Variant      Mode             `json:"variant,omitempty"`
	Card         Card             `json:"card"`
	Accept       bool             `json:"accept,omitempty"`
	Announcement AnnouncementType `json:"announcement,omitempty"`
}

// RoundConfig configures a new round. Seed fixes the shuffle, Now injects the
// clock; both exist so a recorded round replays to an identical snapshot.
type RoundConfig struct {
	Players    []string     `json:"players"` // seat order
	Deck       DeckVariant  `json:"deck"`
	Seed       uint64       `json:"seed"`
	FirstActor string       `json:"firstActor"` // polled and leads first; defaults to seat 0
	Now        func() int64 `json:"-"`
}

// Round is the root aggregate for one round. Action methods never mutate the
// receiver: they validate against it, then return a fresh value with the
// transition applied, so a rejected action leaves the prior state untouched
// and any held snapshot stays valid.
type Round struct {
	Players       []string         `json:"players"`
	Deck          DeckVariant      `json:"deck"`
	Seed          uint64           `json:"seed"`
	FirstActor    string           `json:"firstActor"`
	Phase         Phase            `json:"phase"`
	Mode          Mode             `json:"mode"`
	SoloDeclarer  string           `json:"soloDeclarer,omitempty"`
	Hands         map[string]Cards `json:"hands"`
	CurrentPlayer string           `json:"currentPlayer,omitempty"`
	EligibleCards Cards            `json:"eligibleCards,omitempty"`
	Declarations  []Declaration    `json:"declarations,omitempty"`
	Poverty       *PovertyState    `json:"poverty,omitempty"`
	PlayerTeams   map[string]Team  `json:"playerTeams"`
	Announcements []Announcement   `json:"announcements,omitempty"`
	Tricks        []*Trick         `json:"tricks,omitempty"`
	TrickWinners  []string         `json:"trickWinners,omitempty"`
	Score         *Score           `json:"score,omitempty"`
	Actions       []Action         `json:"actions,omitempty"`
	StartedAt     int64            `json:"startedAt"`
	EndedAt       int64            `json:"endedAt,omitempty"`

	now func() int64
}

// NewRound deals a fresh round in the variant-selection phase. Fails with
// ErrDeal when the configuration cannot produce a valid deal.
func NewRound(cfg RoundConfig) (*Round, error) {
	if len(cfg.Players) != 4 {
		return nil, fmt.Errorf("%w: need 4 players, got %d", ErrDeal, len(cfg.Players))
	}
	seen := make(map[string]struct{}, len(cfg.Players))
	for _, p := range cfg.Players {
		if p == "" {
			return nil, fmt.Errorf("%w: empty player id", ErrDeal)
		}
		if _, dup := seen[p]; dup {
			return nil, fmt.Errorf("%w: duplicate player %q", ErrDeal, p)
		}
		seen[p] = struct{}{}
	}
	first := cfg.FirstActor
	if first == "" {
		first = cfg.Players[0]
	}
	if _, ok := seen[first]; !ok {
		return nil, fmt.Errorf("%w: first actor %q not seated", ErrDeal, first)
	}

	hands, err := Distribute(ShuffleDeck(NewDeck(cfg.Deck), cfg.Seed), len(cfg.Players))
	if err != nil {
		return nil, err
	}

	now := cfg.Now
	if now == nil {
		now = func() int64 { return time.Now().UnixMilli() }
	}

	r := &Round{
		Players:     append([]string(nil), cfg.Players...),
		Deck:        cfg.Deck,
		Seed:        cfg.Seed,
		FirstActor:  first,
		Phase:       PhaseVariantSelection,
		Mode:        ModeNormal,
		Hands:       make(map[string]Cards, len(cfg.Players)),
		PlayerTeams: make(map[string]Team, len(cfg.Players)),
		StartedAt:   now(),
		now:         now,
	}
	for i, p := range cfg.Players {
		r.Hands[p] = hands[i]
		r.PlayerTeams[p] = TeamUnknown
	}
	r.CurrentPlayer, _ = r.AwaitingDeclarationFrom()
	return r, nil
}

func (r *Round) hasPlayer(player string) bool {
	return r.seatOf(player) >= 0
}

func (r *Round) seatOf(player string) int {
	for i, p := range r.Players {
		if p == player {
			return i
		}
	}
	return -1
}

func (r *Round) nextSeat(player string) string {
	return r.Players[(r.seatOf(player)+1)%len(r.Players)]
}

// HandSize returns the dealt hand size, which is also the trick count.
func (r *Round) HandSize() int {
	return len(NewDeck(r.Deck)) / len(r.Players)
}

func (r *Round) clone() *Round {
	next := *r
	next.Players = append([]string(nil), r.Players...)
	next.Hands = make(map[string]Cards, len(r.Hands))
	for p, h := range r.Hands {
		next.Hands[p] = h.Clone()
	}
	next.EligibleCards = r.EligibleCards.Clone()
	next.Declarations = append([]Declaration(nil), r.Declarations...)
	next.Poverty = r.Poverty.Clone()
	next.PlayerTeams = make(map[string]Team, len(r.PlayerTeams))
	for p, t := range r.PlayerTeams {
		next.PlayerTeams[p] = t
	}
	next.Announcements = append([]Announcement(nil), r.Announcements...)
	next.Tricks = make([]*Trick, len(r.Tricks))
	for i, t := range r.Tricks {
		next.Tricks[i] = t.Clone()
	}
	next.TrickWinners = append([]string(nil), r.TrickWinners...)
	next.Score = r.Score.Clone()
	next.Actions = append([]Action(nil), r.Actions...)
	return &next
}

func (r *Round) recordAction(a Action) {
	r.Actions = append(r.Actions, a)
}

// timestamp reads the injected clock, falling back to the wall clock for
// rounds rebuilt from a decoded snapshot, where the unexported clock is gone.
func (r *Round) timestamp() int64 {
	if r.now != nil {
		return r.now()
	}
	return time.Now().UnixMilli()
}

// startPlaying enters the playing phase with the first actor leading.
func (r *Round) startPlaying() {
	r.Phase = PhasePlaying
	r.CurrentPlayer = r.FirstActor
	r.EligibleCards = LegalCards(r.Hands[r.FirstActor], nil, r.Mode)
}

// CurrentTrick returns the trick in progress, nil between tricks.
func (r *Round) CurrentTrick() *Trick {
	if len(r.Tricks) == 0 {
		return nil
	}
	last := r.Tricks[len(r.Tricks)-1]
	if last.IsComplete() {
		return nil
	}
	return last
}

// PlayCard plays a card for the player. The card must be the current
// player's and in the eligible set; anything else is rejected with the state
// unchanged. Completing the final trick scores the round and makes it
// terminal.
func (r *Round) PlayCard(player string, card Card) (*Round, error) {
	if r.Phase != PhasePlaying {
		return nil, ErrWrongPhase
	}
	if !r.hasPlayer(player) {
		return nil, ErrPlayerNotFound
	}
	if player != r.CurrentPlayer {
		return nil, ErrNotYourTurn
	}
	if !r.Hands[player].Contains(card) {
		return nil, ErrCardNotInHand
	}
	if !r.EligibleCards.Contains(card) {
		return nil, ErrCardNotEligible
	}

	next := r.clone()
	next.recordAction(Action{Type: ActionPlayCard, Player: player, Card: card})

	trick := next.CurrentTrick()
	if trick == nil {
		trick = &Trick{}
		next.Tricks = append(next.Tricks, trick)
	}
	next.Hands[player], _ = next.Hands[player].Remove(card)
	trick.Cards = append(trick.Cards, TrickCard{Player: player, Card: card})
	next.updateTeamsOnPlay(player, card)

	if !trick.IsComplete() {
		next.CurrentPlayer = next.nextSeat(player)
		next.EligibleCards = LegalCards(next.Hands[next.CurrentPlayer], trick, next.Mode)
		return next, nil
	}

	winner := trick.Winner(next.Mode)
	next.TrickWinners = append(next.TrickWinners, winner)

	if len(next.Tricks) == next.HandSize() {
		next.CurrentPlayer = ""
		next.EligibleCards = nil
		next.Phase = PhaseScoring
		next.EndedAt = next.timestamp()
		score, err := scoreRound(next)
		if err != nil {
			return nil, err
		}
		next.Score = score
		return next, nil
	}

	next.CurrentPlayer = winner
	next.EligibleCards = LegalCards(next.Hands[winner], nil, next.Mode)
	return next, nil
}

// MakeAnnouncement records an announcement if it is currently eligible for
// the player, and resolves the announcer's public team.
func (r *Round) MakeAnnouncement(player string, typ AnnouncementType) (*Round, error) {
	if r.Phase != PhasePlaying {
		return nil, ErrWrongPhase
	}
	if !r.hasPlayer(player) {
		return nil, ErrPlayerNotFound
	}
	if !r.announcementEligible(player, typ) {
		return nil, ErrAnnouncementNotEligible
	}

	next := r.clone()
	next.recordAction(Action{Type: ActionMakeAnnouncement, Player: player, Announcement: typ})
	next.Announcements = append(next.Announcements, Announcement{
		Player: player,
		Type:   typ,
		Trick:  len(next.TrickWinners),
		At:     next.timestamp(),
	})
	next.resolveTeam(player, next.teamOf(player))
	next.applyTeamClosure()
	return next, nil
}

// CheckConservation verifies the deck-conservation invariant: the multiset
// of all hands plus all trick cards equals the full deck for the variant.
// A failure is an engine bug, not a player error.
func (r *Round) CheckConservation() error {
	counts := make(map[Card]int)
	for _, c := range NewDeck(r.Deck) {
		counts[c]++
	}
	for p, hand := range r.Hands {
		for _, c := range hand {
			counts[c]--
			if counts[c] < 0 {
				return fmt.Errorf("%w: surplus %s in hand of %s", ErrDeckConservation, c, p)
			}
		}
	}
	for i, trick := range r.Tricks {
		for _, tc := range trick.Cards {
			counts[tc.Card]--
			if counts[tc.Card] < 0 {
				return fmt.Errorf("%w: surplus %s in trick %d", ErrDeckConservation, tc.Card, i)
			}
		}
	}
	for c, n := range counts {
		if n != 0 {
			return fmt.Errorf("%w: %d missing %s", ErrDeckConservation, n, c)
		}
	}
	return nil
}

// apply dispatches one recorded action.
func (r *Round) apply(a Action) (*Round, error) {
	switch a.Type {
	case ActionDeclareVariant:
		return r.DeclareVariant(a.Player, a.Variant)
	case ActionExchangePoverty:
		return r.ExchangePoverty(a.Player, a.Accept)
	case ActionPlayCard:
		return r.PlayCard(a.Player, a.Card)
	case ActionMakeAnnouncement:
		return r.MakeAnnouncement(a.Player, a.Announcement)
	default:
		return nil, fmt.Errorf("unknown action type %d", a.Type)
	}
}

// Replay rebuilds a round from its recorded action log. With the same seed
// and clock the result is identical to the original, move by move.
func Replay(cfg RoundConfig, actions []Action) (*Round, error) {
	r, err := NewRound(cfg)
	if err != nil {
		return nil, err
	}
	for i, a := range actions {
		r, err = r.apply(a)
		if err != nil {
			return nil, fmt.Errorf("replay action %d: %w", i, err)
		}
	}
	return r, nil
}
