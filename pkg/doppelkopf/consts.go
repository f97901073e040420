package doppelkopf

import "errors"

// Suit is a card suit.
type Suit uint8

const (
	SuitNone Suit = iota
	SuitDiamond
	SuitHeart
	SuitSpade
	SuitClub
)

var suitNames = map[Suit]string{
	SuitDiamond: "diamonds",
	SuitHeart:   "hearts",
	SuitSpade:   "spades",
	SuitClub:    "clubs",
}

func (s Suit) String() string {
	if name, ok := suitNames[s]; ok {
		return name
	}
	return "none"
}

// Rank is a card rank.
type Rank uint8

const (
	RankNone Rank = iota
	RankJack
	RankQueen
	RankKing
	RankTen
	RankAce
)

var rankNames = map[Rank]string{
	RankJack:  "jack",
	RankQueen: "queen",
	RankKing:  "king",
	RankTen:   "ten",
	RankAce:   "ace",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return "none"
}

// DeckVariant selects the deck composition.
type DeckVariant uint8

const (
	DeckStandard DeckVariant = iota // 40 cards, ace/ten/king/queen/jack twice per suit
	DeckCompact                     // 24 cards, ace/ten/king twice per suit
)

// Mode is the effective game mode of a round.
type Mode uint8

const (
	ModeNormal Mode = iota
	ModePoverty     // accepted Armut exchange, played with the normal trump set
	ModeDiamondSolo
	ModeHeartSolo
	ModeSpadeSolo
	ModeClubSolo
	ModeQueenSolo
	ModeJackSolo
	ModeTrumpless
)

var modeNames = map[Mode]string{
	ModeNormal:      "normal",
	ModePoverty:     "poverty",
	ModeDiamondSolo: "diamond_solo",
	ModeHeartSolo:   "heart_solo",
	ModeSpadeSolo:   "spade_solo",
	ModeClubSolo:    "club_solo",
	ModeQueenSolo:   "queen_solo",
	ModeJackSolo:    "jack_solo",
	ModeTrumpless:   "trumpless",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// IsSolo reports whether the mode puts one declarer against the other three.
func (m Mode) IsSolo() bool {
	return m >= ModeDiamondSolo
}

// Phase is the round phase.
type Phase uint8

const (
	PhaseVariantSelection Phase = iota
	PhasePoverty
	PhasePlaying
	PhaseScoring
)

// Team is a player's team assignment, revealed progressively in normal mode.
type Team uint8

const (
	TeamUnknown Team = iota
	TeamRe
	TeamKontra
)

// Opponent returns the opposing team.
func (t Team) Opponent() Team {
	switch t {
	case TeamRe:
		return TeamKontra
	case TeamKontra:
		return TeamRe
	default:
		return TeamUnknown
	}
}

// AnnouncementType is a declared commitment that raises the round's stakes.
type AnnouncementType uint8

const (
	AnnounceNone AnnouncementType = iota
	AnnounceRe
	AnnounceKontra
	AnnounceNo90
	AnnounceNo60
	AnnounceNo30
	AnnounceSchwarz
)

var announcementNames = map[AnnouncementType]string{
	AnnounceRe:      "re",
	AnnounceKontra:  "kontra",
	AnnounceNo90:    "no90",
	AnnounceNo60:    "no60",
	AnnounceNo30:    "no30",
	AnnounceSchwarz: "schwarz",
}

func (a AnnouncementType) String() string {
	if name, ok := announcementNames[a]; ok {
		return name
	}
	return "none"
}

// Player-caused errors. The prior round state is unchanged when these are
// returned.
var (
	ErrWrongPhase              = errors.New("action not allowed in current phase")
	ErrNotYourTurn             = errors.New("not your turn")
	ErrPlayerNotFound          = errors.New("player not found")
	ErrCardNotInHand           = errors.New("card not in hand")
	ErrCardNotEligible         = errors.New("card not in eligible set")
	ErrVariantNotAllowed       = errors.New("variant not allowed")
	ErrAlreadyDeclared         = errors.New("variant already declared")
	ErrExchangeResolved        = errors.New("poverty exchange already resolved")
	ErrAnnouncementNotEligible = errors.New("announcement not eligible")
)

// Setup and contract errors.
var (
	// ErrDeal is fatal to round initialization (bad deck or player count).
	ErrDeal = errors.New("deal failed")

	// Invariant violations. These indicate engine bugs, not player mistakes,
	// and halt the round.
	ErrTeamsUnresolved  = errors.New("invariant violation: unresolved team at scoring")
	ErrDeckConservation = errors.New("invariant violation: deck conservation broken")
	ErrRoundNotFinished = errors.New("round not finished")
)

// IsInvariantViolation distinguishes engine-contract failures from
// player-caused errors.
func IsInvariantViolation(err error) bool {
	return errors.Is(err, ErrTeamsUnresolved) || errors.Is(err, ErrDeckConservation)
}
