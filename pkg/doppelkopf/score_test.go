package doppelkopf

import (
	"errors"
	"testing"
)

// finishedRound builds a completed 10-trick round from the unshuffled deck:
// trick i takes deck cards 4i..4i+3, played in seat order, so trick points run
// 28,27,26,20,19 twice over.
func finishedRound(teams map[string]Team, winners []string, anns []Announcement) *Round {
	deck := NewDeck(DeckStandard)
	players := []string{"a", "b", "c", "d"}
	r := &Round{
		Players:       players,
		Deck:          DeckStandard,
		Phase:         PhaseScoring,
		Mode:          ModeNormal,
		Hands:         map[string]Cards{"a": {}, "b": {}, "c": {}, "d": {}},
		PlayerTeams:   teams,
		Announcements: anns,
		TrickWinners:  winners,
	}
	for i := 0; i < len(deck); i += 4 {
		trick := &Trick{}
		for j := 0; j < 4; j++ {
			trick.Cards = append(trick.Cards, TrickCard{Player: players[j], Card: deck[i+j]})
		}
		r.Tricks = append(r.Tricks, trick)
	}
	return r
}

func partnered() map[string]Team {
	return map[string]Team{"a": TeamRe, "b": TeamKontra, "c": TeamRe, "d": TeamKontra}
}

// re (a, c) takes tricks 0,1,2,5,6 for 136 points; kontra takes 104.
func reWins136() []string {
	return []string{"a", "c", "a", "b", "d", "c", "a", "b", "d", "b"}
}

func TestScoreBaseThresholds(t *testing.T) {
	r := finishedRound(partnered(), reWins136(), nil)
	s, err := scoreRound(r)
	if err != nil {
		t.Fatal(err)
	}
	if s.Winner != TeamRe {
		t.Errorf("winner = %v, want re", s.Winner)
	}
	if s.RePoints != 136 || s.KontraPoints != 104 {
		t.Errorf("points = %d/%d, want 136/104", s.RePoints, s.KontraPoints)
	}
	if s.ReTricks != 5 || s.KontraTricks != 5 {
		t.Errorf("tricks = %d/%d, want 5/5", s.ReTricks, s.KontraTricks)
	}
	if s.GameValue != 1 {
		t.Errorf("game value = %d, want 1", s.GameValue)
	}
	want := map[string]int{"a": 1, "c": 1, "b": -1, "d": -1}
	for p, d := range want {
		if s.PlayerDeltas[p] != d {
			t.Errorf("delta for %s = %d, want %d", p, s.PlayerDeltas[p], d)
		}
	}
}

func TestScoreKontraWinsTie(t *testing.T) {
	// re takes tricks 0..4 for exactly 120; kontra wins the tie.
	winners := []string{"a", "c", "a", "c", "a", "b", "d", "b", "d", "b"}
	s, err := scoreRound(finishedRound(partnered(), winners, nil))
	if err != nil {
		t.Fatal(err)
	}
	if s.RePoints != 120 || s.KontraPoints != 120 {
		t.Fatalf("points = %d/%d, want 120/120", s.RePoints, s.KontraPoints)
	}
	if s.Winner != TeamKontra {
		t.Errorf("winner = %v, want kontra", s.Winner)
	}
}

func TestScoreAnnouncementsDoubleValue(t *testing.T) {
	anns := []Announcement{
		{Player: "a", Type: AnnounceRe},
		{Player: "b", Type: AnnounceKontra},
	}
	s, err := scoreRound(finishedRound(partnered(), reWins136(), anns))
	if err != nil {
		t.Fatal(err)
	}
	if s.GameValue != 4 {
		t.Errorf("game value = %d, want 4", s.GameValue)
	}
	if s.PlayerDeltas["a"] != 4 || s.PlayerDeltas["b"] != -4 {
		t.Errorf("deltas = %v, want ±4", s.PlayerDeltas)
	}
}

func TestScoreDefeatedAnnouncementFlipsWinner(t *testing.T) {
	// re announced no90 but kontra reached 104; kontra wins despite being
	// under its own base threshold.
	anns := []Announcement{
		{Player: "a", Type: AnnounceRe},
		{Player: "a", Type: AnnounceNo90},
	}
	s, err := scoreRound(finishedRound(partnered(), reWins136(), anns))
	if err != nil {
		t.Fatal(err)
	}
	if s.Winner != TeamKontra {
		t.Errorf("winner = %v, want kontra", s.Winner)
	}
	if s.GameValue != 4 {
		t.Errorf("game value = %d, want 4", s.GameValue)
	}
}

func TestScoreBothMissedNoWinner(t *testing.T) {
	anns := []Announcement{
		{Player: "a", Type: AnnounceRe},
		{Player: "a", Type: AnnounceNo90},
		{Player: "b", Type: AnnounceKontra},
		{Player: "b", Type: AnnounceNo90},
	}
	s, err := scoreRound(finishedRound(partnered(), reWins136(), anns))
	if err != nil {
		t.Fatal(err)
	}
	if s.Winner != TeamUnknown {
		t.Errorf("winner = %v, want none", s.Winner)
	}
	if s.GameValue != 0 {
		t.Errorf("game value = %d, want 0", s.GameValue)
	}
	for p, d := range s.PlayerDeltas {
		if d != 0 {
			t.Errorf("delta for %s = %d, want 0", p, d)
		}
	}
}

func TestScoreSchwarz(t *testing.T) {
	anns := []Announcement{
		{Player: "b", Type: AnnounceKontra},
		{Player: "b", Type: AnnounceNo90},
		{Player: "b", Type: AnnounceNo60},
		{Player: "b", Type: AnnounceNo30},
		{Player: "b", Type: AnnounceSchwarz},
	}
	winners := []string{"b", "d", "b", "d", "b", "d", "b", "d", "b", "d"}
	s, err := scoreRound(finishedRound(partnered(), winners, anns))
	if err != nil {
		t.Fatal(err)
	}
	if s.Winner != TeamKontra || s.ReTricks != 0 || s.KontraPoints != 240 {
		t.Errorf("score = %+v, want schwarz kontra win", s)
	}
	if s.GameValue != 32 {
		t.Errorf("game value = %d, want 32", s.GameValue)
	}
}

func TestScoreLonePlayerCarriesThree(t *testing.T) {
	teams := map[string]Team{"a": TeamRe, "b": TeamKontra, "c": TeamKontra, "d": TeamKontra}
	winners := []string{"a", "a", "a", "b", "d", "a", "a", "b", "d", "b"}
	s, err := scoreRound(finishedRound(teams, winners, nil))
	if err != nil {
		t.Fatal(err)
	}
	if s.Winner != TeamRe || s.RePoints != 136 {
		t.Fatalf("score = %+v, want lone re win with 136", s)
	}
	want := map[string]int{"a": 3, "b": -1, "c": -1, "d": -1}
	for p, d := range want {
		if s.PlayerDeltas[p] != d {
			t.Errorf("delta for %s = %d, want %d", p, s.PlayerDeltas[p], d)
		}
	}
	sum := 0
	for _, d := range s.PlayerDeltas {
		sum += d
	}
	if sum != 0 {
		t.Errorf("solo deltas not zero-sum: %v", s.PlayerDeltas)
	}
}

func TestScoreLonePlayerLosesThree(t *testing.T) {
	teams := map[string]Team{"a": TeamRe, "b": TeamKontra, "c": TeamKontra, "d": TeamKontra}
	// The lone re player takes only tricks 3,4,8,9 for 78 points.
	winners := []string{"b", "c", "d", "a", "a", "b", "c", "d", "a", "a"}
	s, err := scoreRound(finishedRound(teams, winners, nil))
	if err != nil {
		t.Fatal(err)
	}
	if s.Winner != TeamKontra {
		t.Fatalf("winner = %v, want kontra", s.Winner)
	}
	want := map[string]int{"a": -3, "b": 1, "c": 1, "d": 1}
	for p, d := range want {
		if s.PlayerDeltas[p] != d {
			t.Errorf("delta for %s = %d, want %d", p, s.PlayerDeltas[p], d)
		}
	}
}

func TestScoreGuards(t *testing.T) {
	unresolved := partnered()
	unresolved["d"] = TeamUnknown
	if _, err := scoreRound(finishedRound(unresolved, reWins136(), nil)); !errors.Is(err, ErrTeamsUnresolved) {
		t.Errorf("unresolved teams: got %v, want ErrTeamsUnresolved", err)
	}

	r := finishedRound(partnered(), reWins136(), nil)
	r.Tricks = r.Tricks[:9]
	r.TrickWinners = r.TrickWinners[:9]
	if _, err := scoreRound(r); !errors.Is(err, ErrRoundNotFinished) {
		t.Errorf("short round: got %v, want ErrRoundNotFinished", err)
	}
}

func TestAccumulateScores(t *testing.T) {
	prior := map[string]int{"a": 2, "b": -2}
	s := &Score{PlayerDeltas: map[string]int{"a": 1, "b": -1, "c": 1, "d": -1}}
	totals := AccumulateScores(prior, s)

	want := map[string]int{"a": 3, "b": -3, "c": 1, "d": -1}
	for p, v := range want {
		if totals[p] != v {
			t.Errorf("total for %s = %d, want %d", p, totals[p], v)
		}
	}
	if prior["a"] != 2 {
		t.Error("prior totals mutated")
	}
}

func TestSummarize(t *testing.T) {
	r := finishedRound(partnered(), reWins136(), nil)
	if _, err := Summarize(r); !errors.Is(err, ErrRoundNotFinished) {
		t.Errorf("unscored round: got %v, want ErrRoundNotFinished", err)
	}

	score, err := scoreRound(r)
	if err != nil {
		t.Fatal(err)
	}
	r.Score = score
	r.StartedAt = 100
	r.EndedAt = 350

	sum, err := Summarize(r)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Winner != TeamRe || sum.RePoints != 136 || sum.KontraPoints != 104 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.DurationMs != 250 {
		t.Errorf("duration = %d, want 250", sum.DurationMs)
	}

	// Detached copies.
	sum.PlayerDeltas["a"] = 99
	sum.PlayerTeams["a"] = TeamKontra
	if r.Score.PlayerDeltas["a"] == 99 || r.PlayerTeams["a"] == TeamKontra {
		t.Error("summary shares state with the round")
	}
}
