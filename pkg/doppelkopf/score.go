package doppelkopf

// Score is the computed result of a completed round.
type Score struct {
	// Winner is TeamUnknown when both sides missed their announced targets
	// and nobody wins the round.
	Winner       Team           `json:"winner"`
	RePoints     int            `json:"rePoints"`
	KontraPoints int            `json:"kontraPoints"`
	ReTricks     int            `json:"reTricks"`
	KontraTricks int            `json:"kontraTricks"`
	// GameValue is the scoring unit, doubled once per announcement made.
	GameValue    int            `json:"gameValue"`
	PlayerDeltas map[string]int `json:"playerDeltas"`
}

func (s *Score) Clone() *Score {
	if s == nil {
		return nil
	}
	out := *s
	out.PlayerDeltas = make(map[string]int, len(s.PlayerDeltas))
	for p, d := range s.PlayerDeltas {
		out.PlayerDeltas[p] = d
	}
	return &out
}

// fulfilled reports whether a team met its own commitment. Base case: re
// needs 121 of 240, kontra wins the tie at 120. A no90/no60/no30 commits the
// team to keeping the opponents under that mark; schwarz to taking every
// trick. Missing an own announcement hands the round to the opponents, even
// below their base threshold.
func fulfilled(team Team, highest AnnouncementType, ownPoints, oppPoints, oppTricks int) bool {
	switch highest {
	case AnnounceNo90:
		return oppPoints < 90
	case AnnounceNo60:
		return oppPoints < 60
	case AnnounceNo30:
		return oppPoints < 30
	case AnnounceSchwarz:
		return oppTricks == 0
	default:
		if team == TeamRe {
			return ownPoints >= 121
		}
		return ownPoints >= 120
	}
}

// scoreRound computes the score of a finished round. Any unresolved team
// entry at this point is an engine-contract violation: the closure rule must
// have resolved everyone by the time the last trick completes.
func scoreRound(r *Round) (*Score, error) {
	if len(r.Tricks) != r.HandSize() || len(r.TrickWinners) != len(r.Tricks) {
		return nil, ErrRoundNotFinished
	}
	if !r.TeamsResolved() {
		return nil, ErrTeamsUnresolved
	}

	s := &Score{PlayerDeltas: make(map[string]int, len(r.Players))}
	for i, trick := range r.Tricks {
		switch r.PlayerTeams[r.TrickWinners[i]] {
		case TeamRe:
			s.RePoints += trick.Points()
			s.ReTricks++
		case TeamKontra:
			s.KontraPoints += trick.Points()
			s.KontraTricks++
		}
	}

	reHighest := r.teamAnnouncement(TeamRe)
	kontraHighest := r.teamAnnouncement(TeamKontra)
	reFulfilled := fulfilled(TeamRe, reHighest, s.RePoints, s.KontraPoints, s.KontraTricks)
	kontraFulfilled := fulfilled(TeamKontra, kontraHighest, s.KontraPoints, s.RePoints, s.ReTricks)

	switch {
	case reFulfilled:
		s.Winner = TeamRe
	case kontraFulfilled:
		s.Winner = TeamKontra
	case reHighest >= AnnounceNo90 && kontraHighest >= AnnounceNo90:
		// Both sides missed their announcements: no winning team, the round
		// is worth nothing.
		s.Winner = TeamUnknown
	case reHighest >= AnnounceNo90:
		s.Winner = TeamKontra
	default:
		s.Winner = TeamRe
	}

	if s.Winner == TeamUnknown {
		for _, p := range r.Players {
			s.PlayerDeltas[p] = 0
		}
		return s, nil
	}

	s.GameValue = 1 << len(r.Announcements)

	// Per-player deltas stay zero-sum with uneven teams: a lone player
	// (solo, silent marriage) carries the whole opposing side at 3x.
	teamSize := map[Team]int{}
	for _, p := range r.Players {
		teamSize[r.PlayerTeams[p]]++
	}
	for _, p := range r.Players {
		team := r.PlayerTeams[p]
		delta := s.GameValue
		if teamSize[team] == 1 {
			delta *= len(r.Players) - 1
		}
		if team != s.Winner {
			delta = -delta
		}
		s.PlayerDeltas[p] = delta
	}
	return s, nil
}

// AccumulateScores folds a round score into per-player running totals,
// returning a new map.
func AccumulateScores(prior map[string]int, s *Score) map[string]int {
	totals := make(map[string]int, len(prior)+len(s.PlayerDeltas))
	for p, v := range prior {
		totals[p] = v
	}
	for p, d := range s.PlayerDeltas {
		totals[p] += d
	}
	return totals
}

// GameSummary is the read-only artifact a completed round folds into. It is
// detached from the round: mutating the round afterwards (there is no way
// to) or the summary cannot affect each other.
type GameSummary struct {
	Mode          Mode            `json:"mode"`
	Winner        Team            `json:"winner"`
	RePoints      int             `json:"rePoints"`
	KontraPoints  int             `json:"kontraPoints"`
	GameValue     int             `json:"gameValue"`
	PlayerTeams   map[string]Team `json:"playerTeams"`
	PlayerDeltas  map[string]int  `json:"playerDeltas"`
	Announcements []Announcement  `json:"announcements,omitempty"`
	TrickWinners  []string        `json:"trickWinners"`
	FirstActor    string          `json:"firstActor"`
	StartedAt     int64           `json:"startedAt"`
	EndedAt       int64           `json:"endedAt"`
	DurationMs    int64           `json:"durationMs"`
}

// Summarize folds a terminal round into its summary.
func Summarize(r *Round) (*GameSummary, error) {
	if r.Phase != PhaseScoring || r.Score == nil {
		return nil, ErrRoundNotFinished
	}
	sum := &GameSummary{
		Mode:          r.Mode,
		Winner:        r.Score.Winner,
		RePoints:      r.Score.RePoints,
		KontraPoints:  r.Score.KontraPoints,
		GameValue:     r.Score.GameValue,
		PlayerTeams:   make(map[string]Team, len(r.PlayerTeams)),
		PlayerDeltas:  make(map[string]int, len(r.Score.PlayerDeltas)),
		Announcements: append([]Announcement(nil), r.Announcements...),
		TrickWinners:  append([]string(nil), r.TrickWinners...),
		FirstActor:    r.FirstActor,
		StartedAt:     r.StartedAt,
		EndedAt:       r.EndedAt,
		DurationMs:    r.EndedAt - r.StartedAt,
	}
	for p, t := range r.PlayerTeams {
		sum.PlayerTeams[p] = t
	}
	for p, d := range r.Score.PlayerDeltas {
		sum.PlayerDeltas[p] = d
	}
	return sum, nil
}
