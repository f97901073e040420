package doppelkopf

// markerCard returns the card whose holders form the re team in normal mode.
// The standard deck uses the queens of clubs; the compact deck has no queens
// and uses the aces of clubs instead.
func markerCard(variant DeckVariant) Card {
	if variant == DeckCompact {
		return NewCard(SuitClub, RankAce)
	}
	return NewCard(SuitClub, RankQueen)
}

// resolveTeam marks a player's team. Assignments are monotonic: a resolved
// entry is never changed back or flipped.
func (r *Round) resolveTeam(player string, team Team) {
	if r.PlayerTeams[player] != TeamUnknown {
		return
	}
	r.PlayerTeams[player] = team
}

// markerPlays counts marker cards played so far, total and by player.
func (r *Round) markerPlays() (total int, byPlayer map[string]int) {
	marker := markerCard(r.Deck)
	byPlayer = make(map[string]int)
	for _, trick := range r.Tricks {
		for _, tc := range trick.Cards {
			if tc.Card == marker {
				total++
				byPlayer[tc.Player]++
			}
		}
	}
	return total, byPlayer
}

// updateTeamsOnPlay resolves team membership revealed by a played card and
// applies the closure rule eagerly. Solo and poverty rounds assign teams up
// front, so only normal mode learns anything from plays.
func (r *Round) updateTeamsOnPlay(player string, card Card) {
	if r.Mode != ModeNormal {
		return
	}
	if card == markerCard(r.Deck) {
		r.resolveTeam(player, TeamRe)
	}
	r.applyTeamClosure()
}

// applyTeamClosure fills in assignments that follow logically from the known
// ones, immediately rather than at round end:
//   - two known re players: the remaining two are kontra,
//   - both markers played by one player (silent marriage): everyone else is
//     kontra,
//   - three known kontra players: the last one holds both markers and is re.
func (r *Round) applyTeamClosure() {
	if r.Mode != ModeNormal {
		return
	}

	reCount, kontraCount := 0, 0
	for _, team := range r.PlayerTeams {
		switch team {
		case TeamRe:
			reCount++
		case TeamKontra:
			kontraCount++
		}
	}

	marriage := false
	if total, byPlayer := r.markerPlays(); total == 2 {
		for _, n := range byPlayer {
			if n == 2 {
				marriage = true
			}
		}
	}

	switch {
	case reCount == 2 || marriage:
		for _, p := range r.Players {
			r.resolveTeam(p, TeamKontra)
		}
	case kontraCount == 3:
		for _, p := range r.Players {
			r.resolveTeam(p, TeamRe)
		}
	}
}

// teamOf returns the team the player themselves can already know: the public
// assignment when resolved, otherwise (normal mode) what their own hand
// reveals. This private view drives announcement eligibility; the public
// PlayerTeams map only changes through plays, announcements, and closure.
func (r *Round) teamOf(player string) Team {
	if team := r.PlayerTeams[player]; team != TeamUnknown {
		return team
	}
	if r.Mode != ModeNormal {
		return TeamUnknown
	}

	marker := markerCard(r.Deck)
	if r.Hands[player].Contains(marker) {
		return TeamRe
	}
	if _, byPlayer := r.markerPlays(); byPlayer[player] > 0 {
		return TeamRe
	}
	return TeamKontra
}

// TeamsResolved reports whether every player has a known assignment.
func (r *Round) TeamsResolved() bool {
	for _, p := range r.Players {
		if r.PlayerTeams[p] == TeamUnknown {
			return false
		}
	}
	return true
}
