package bracket

import "sort"

// IsComplete reports whether the deciding round has been played: the final
// in single elimination, every pool match in round robin, and the grand
// final plus the reset (when it was reached) in double elimination.
func IsComplete(s Schedule) bool {
	switch s.Format {
	case SingleElimination:
		terminal, ok := s.Terminal()
		return ok && terminal.Winner != nil
	case DoubleElimination:
		gf, ok := s.grandFinal()
		if !ok || s.Matches[gf].Winner == nil {
			return false
		}
		reset, ok := s.Terminal()
		return ok && (reset.Skipped || reset.Winner != nil)
	case RoundRobin:
		if len(s.Matches) == 0 {
			return false
		}
		for _, m := range s.Matches {
			if m.Winner == nil {
				return false
			}
		}
		return true
	}
	return false
}

// Winner returns the tournament winner once the schedule is complete. A
// round robin is won by the team with strictly the most wins; a shared top
// spot has no winner.
func Winner(s Schedule) (string, bool) {
	if !IsComplete(s) {
		return "", false
	}

	switch s.Format {
	case SingleElimination:
		terminal, _ := s.Terminal()
		return *terminal.Winner, true
	case DoubleElimination:
		reset, _ := s.Terminal()
		if reset.Winner != nil {
			return *reset.Winner, true
		}
		gf, _ := s.grandFinal()
		return *s.Matches[gf].Winner, true
	case RoundRobin:
		standings := Standings(s)
		if len(standings) > 1 && standings[0].Wins == standings[1].Wins {
			return "", false
		}
		return standings[0].Team, true
	}
	return "", false
}

// NextMatch returns the earliest match still to be played that team is
// already placed in.
func NextMatch(s Schedule, team string) (Match, bool) {
	var (
		next  Match
		found bool
	)
	for _, m := range s.Matches {
		status := m.Status()
		if status == MatchDecided || status == MatchSkipped || !m.HasTeam(team) {
			continue
		}
		if !found || playsBefore(m, next) {
			next = m
			found = true
		}
	}
	return next, found
}

var sideOrder = map[BracketSide]int{
	WinnersSide: 0,
	LosersSide:  1,
	PoolSide:    2,
	FinalsSide:  3,
}

func playsBefore(a, b Match) bool {
	if a.Round != b.Round {
		return a.Round < b.Round
	}
	if a.Side != b.Side {
		return sideOrder[a.Side] < sideOrder[b.Side]
	}
	return a.MatchNumber < b.MatchNumber
}

type Standing struct {
	Team   string `json:"team"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

// Standings tallies played matches per team. Byes count for nothing.
func Standings(s Schedule) []Standing {
	index := make(map[string]int)
	var standings []Standing

	entry := func(team string) *Standing {
		i, ok := index[team]
		if !ok {
			i = len(standings)
			index[team] = i
			standings = append(standings, Standing{Team: team})
		}
		return &standings[i]
	}

	for _, m := range s.Matches {
		for _, team := range []*string{m.Team1, m.Team2} {
			if team != nil {
				entry(*team)
			}
		}
		if m.IsBye || m.Winner == nil {
			continue
		}
		loser, ok := m.Loser()
		if !ok {
			continue
		}
		entry(*m.Winner).Wins++
		entry(loser).Losses++
	}

	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		if standings[i].Losses != standings[j].Losses {
			return standings[i].Losses < standings[j].Losses
		}
		return standings[i].Team < standings[j].Team
	})
	return standings
}
