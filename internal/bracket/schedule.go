package bracket

import "fmt"

// Schedule owns every match of one tournament. Matches is an arena:
// Matches[i].ID == i, and links between matches are indices into it.
type Schedule struct {
	Format  Format  `json:"format"`
	Matches []Match `json:"matches"`
}

// Clone returns a deep copy so callers can derive a new schedule without
// touching the one they were given.
func (s Schedule) Clone() Schedule {
	out := Schedule{Format: s.Format, Matches: make([]Match, len(s.Matches))}
	for i := range s.Matches {
		out.Matches[i] = s.Matches[i].clone()
	}
	return out
}

func (s Schedule) Match(id int) (Match, bool) {
	if id < 0 || id >= len(s.Matches) {
		return Match{}, false
	}
	return s.Matches[id], true
}

// Terminal returns the match that decides the tournament. For double
// elimination that is the reset match, which may end up skipped. Round robin
// only has a terminal match when it consists of a single pairing.
func (s Schedule) Terminal() (Match, bool) {
	switch s.Format {
	case SingleElimination:
		for _, m := range s.Matches {
			if m.NextMatchID == nil {
				return m, true
			}
		}
	case DoubleElimination:
		for _, m := range s.Matches {
			if m.Side == FinalsSide && m.Round == ResetRound {
				return m, true
			}
		}
	case RoundRobin:
		if len(s.Matches) == 1 {
			return s.Matches[0], true
		}
	}
	return Match{}, false
}

// Validate checks the structural invariants of the arena: ids match
// positions, every link points forward into a strictly later round of the
// same side or into the finals, and elimination formats have exactly one
// match without a winner link.
func (s Schedule) Validate() error {
	if !s.Format.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, s.Format)
	}

	terminals := 0
	for i, m := range s.Matches {
		if m.ID != i {
			return fmt.Errorf("%w: match at position %d has id %d", ErrInvalidSchedule, i, m.ID)
		}
		if m.Round < 1 || m.MatchNumber < 1 {
			return fmt.Errorf("%w: match %d has round %d number %d", ErrInvalidSchedule, i, m.Round, m.MatchNumber)
		}

		if m.NextMatchID == nil {
			terminals++
		} else if err := s.checkLink(m, *m.NextMatchID); err != nil {
			return err
		}
		if m.LoserNextMatchID != nil {
			if *m.LoserNextMatchID <= i || *m.LoserNextMatchID >= len(s.Matches) {
				return fmt.Errorf("%w: match %d drops its loser into %d", ErrInvalidSchedule, i, *m.LoserNextMatchID)
			}
		}
	}

	if s.Format != RoundRobin && terminals != 1 {
		return fmt.Errorf("%w: expected one terminal match, found %d", ErrInvalidSchedule, terminals)
	}
	return nil
}

func (s Schedule) checkLink(from Match, to int) error {
	// Forward-only links keep the graph acyclic.
	if to <= from.ID || to >= len(s.Matches) {
		return fmt.Errorf("%w: match %d advances into %d", ErrInvalidSchedule, from.ID, to)
	}
	target := s.Matches[to]
	if target.Round <= from.Round || (target.Side != from.Side && target.Side != FinalsSide) {
		return fmt.Errorf("%w: match %d (%s round %d) advances into %s round %d",
			ErrInvalidSchedule, from.ID, from.Side, from.Round, target.Side, target.Round)
	}
	return nil
}

func (s *Schedule) grandFinal() (int, bool) {
	for i := range s.Matches {
		if s.Matches[i].Side == FinalsSide && s.Matches[i].Round == GrandFinalRound {
			return i, true
		}
	}
	return 0, false
}

// upperChampion is the winner of the winners bracket final, i.e. the grand
// finalist that has not lost yet.
func (s *Schedule) upperChampion(grandFinal int) (string, bool) {
	for i := range s.Matches {
		m := &s.Matches[i]
		if m.Side == WinnersSide && m.NextMatchID != nil && *m.NextMatchID == grandFinal && m.Winner != nil {
			return *m.Winner, true
		}
	}
	return "", false
}

// liveFeeds counts the links into a match that can still deliver a team.
// Skipped matches deliver nothing and byes have no loser to drop.
func (s *Schedule) liveFeeds(id int) int {
	feeds := 0
	for i := range s.Matches {
		src := &s.Matches[i]
		if src.Skipped {
			continue
		}
		if src.NextMatchID != nil && *src.NextMatchID == id {
			feeds++
		}
		if src.LoserNextMatchID != nil && *src.LoserNextMatchID == id && !src.IsBye {
			feeds++
		}
	}
	return feeds
}
