package doppelkopf

// Announcement is one recorded announcement with its timing.
type Announcement struct {
	Player string           `json:"player"`
	Type   AnnouncementType `json:"type"`
	Trick  int              `json:"trick"`
	At     int64            `json:"at"`
}

// announcementDeadlines maps each type to the number of own cards the
// announcer may have played and still announce: re/kontra before one's
// second card, then one card later per step. Windows count the announcer's
// own cards, per the DDV tournament rule; some house rules count the team's
// combined cards instead.
var announcementDeadlines = map[AnnouncementType]int{
	AnnounceRe:      2,
	AnnounceKontra:  2,
	AnnounceNo90:    3,
	AnnounceNo60:    4,
	AnnounceNo30:    5,
	AnnounceSchwarz: 6,
}

// nextAnnouncement maps a team's highest announcement so far to the next
// step. Steps cannot be skipped.
func nextAnnouncement(highest AnnouncementType) AnnouncementType {
	switch highest {
	case AnnounceRe, AnnounceKontra:
		return AnnounceNo90
	case AnnounceNo90:
		return AnnounceNo60
	case AnnounceNo60:
		return AnnounceNo30
	case AnnounceNo30:
		return AnnounceSchwarz
	default:
		return AnnounceNone
	}
}

// cardsPlayedBy counts the cards the player has put into tricks so far.
func (r *Round) cardsPlayedBy(player string) int {
	count := 0
	for _, trick := range r.Tricks {
		if trick.played(player) {
			count++
		}
	}
	return count
}

// teamAnnouncement returns the highest announcement made by the given team.
// Announcers always have a resolved public team (announcing resolves it).
func (r *Round) teamAnnouncement(team Team) AnnouncementType {
	highest := AnnounceNone
	for _, a := range r.Announcements {
		if r.PlayerTeams[a.Player] == team && a.Type > highest {
			highest = a.Type
		}
	}
	return highest
}

// baseAnnouncement returns the base type a team may announce.
func baseAnnouncement(team Team) AnnouncementType {
	if team == TeamRe {
		return AnnounceRe
	}
	return AnnounceKontra
}

// EligibleAnnouncements computes the announcement types the player may make
// right now. A player can only announce for their own side, which makes the
// base types mutually exclusive per player: once on the kontra side, "re" is
// permanently out, and vice versa.
func (r *Round) EligibleAnnouncements(player string) []AnnouncementType {
	if r.Phase != PhasePlaying {
		return nil
	}
	team := r.teamOf(player)
	if team == TeamUnknown {
		return nil
	}

	played := r.cardsPlayedBy(player)
	highest := r.teamAnnouncement(team)

	var candidate AnnouncementType
	if highest == AnnounceNone {
		candidate = baseAnnouncement(team)
	} else {
		candidate = nextAnnouncement(highest)
	}
	if candidate == AnnounceNone {
		return nil
	}
	if played >= announcementDeadlines[candidate] {
		return nil
	}
	return []AnnouncementType{candidate}
}

// announcementEligible reports whether the type is currently in the player's
// eligible set.
func (r *Round) announcementEligible(player string, typ AnnouncementType) bool {
	for _, t := range r.EligibleAnnouncements(player) {
		if t == typ {
			return true
		}
	}
	return false
}
