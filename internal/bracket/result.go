package bracket

import (
	"fmt"

	"github.com/AdamBeresnev/arena-bracket/internal/utils"
)

// RecordResult decides a ready match and returns the schedule with the
// winner (and, in double elimination, the loser) moved into the matches they
// advance to. The given schedule is never modified.
func RecordResult(s Schedule, matchID int, winner string) (Schedule, error) {
	m, ok := s.Match(matchID)
	if !ok {
		return Schedule{}, fmt.Errorf("%w: %d", ErrMatchNotFound, matchID)
	}

	switch m.Status() {
	case MatchDecided, MatchSkipped:
		return Schedule{}, fmt.Errorf("%w: match %d is already %s", ErrInvalidWinner, matchID, m.Status())
	case MatchUnscheduled:
		return Schedule{}, fmt.Errorf("%w: match %d is still waiting for its teams", ErrInvalidWinner, matchID)
	}
	if !m.HasTeam(winner) {
		return Schedule{}, fmt.Errorf("%w: %q does not play in match %d", ErrInvalidWinner, winner, matchID)
	}

	out := s.Clone()
	out.Matches[matchID].Winner = utils.Ptr(winner)
	out.advance(matchID)
	return out, nil
}

// advance moves the outcome of a decided match along its links. It is the
// only code path that writes teams into a downstream match.
func (s *Schedule) advance(id int) {
	m := &s.Matches[id]
	if m.Side == FinalsSide && m.Round == GrandFinalRound {
		s.settleGrandFinal(id)
		return
	}

	if m.NextMatchID != nil {
		s.place(*m.NextMatchID, *m.Winner)
	}
	if m.LoserNextMatchID != nil {
		if loser, ok := m.Loser(); ok {
			s.place(*m.LoserNextMatchID, loser)
		}
	}
}

// settleGrandFinal ends the tournament when the upper bracket champion wins
// the grand final. Otherwise both finalists have one loss and meet again in
// the reset match.
func (s *Schedule) settleGrandFinal(id int) {
	m := &s.Matches[id]
	if m.NextMatchID == nil {
		return
	}
	reset := *m.NextMatchID

	if champion, ok := s.upperChampion(id); ok && champion == *m.Winner {
		s.Matches[reset].Skipped = true
		return
	}

	loser, _ := m.Loser()
	s.place(reset, *m.Winner)
	s.place(reset, loser)
}

// place puts team into the first open slot of a match. A match that can only
// ever receive one team is decided on the spot as a bye.
func (s *Schedule) place(id int, team string) {
	m := &s.Matches[id]
	if m.Team1 == nil {
		m.Team1 = utils.Ptr(team)
	} else {
		m.Team2 = utils.Ptr(team)
	}

	if s.liveFeeds(id) == 1 {
		m.Winner = utils.Ptr(team)
		m.IsBye = true
		s.advance(id)
	}
}
