package bracket

import "github.com/AdamBeresnev/arena-bracket/internal/utils"

type BracketSide string

const (
	WinnersSide BracketSide = "winners"
	LosersSide  BracketSide = "losers"
	FinalsSide  BracketSide = "finals"
	PoolSide    BracketSide = "pool"
)

// Sentinel rounds of the double elimination finals. They sort after every
// regular round of either bracket.
const (
	GrandFinalRound = 999
	ResetRound      = 1000
)

type MatchStatus string

const (
	MatchUnscheduled MatchStatus = "unscheduled"
	MatchReady       MatchStatus = "ready"
	MatchDecided     MatchStatus = "decided"
	MatchSkipped     MatchStatus = "skipped"
)

// Match is a single pairing in a schedule. ID is the match's index in the
// schedule's arena, and both advancement links are arena indices.
type Match struct {
	ID int `db:"match_id" json:"id"`

	// Position in the schedule for reconstructing the view
	Side        BracketSide `db:"side" json:"side"`
	Round       int         `db:"round" json:"round"`
	MatchNumber int         `db:"match_number" json:"match_number"`

	Team1  *string `db:"team_1" json:"team1,omitempty"`
	Team2  *string `db:"team_2" json:"team2,omitempty"`
	Winner *string `db:"winner" json:"winner,omitempty"`

	NextMatchID      *int `db:"next_match_id" json:"next_match_id,omitempty"`
	LoserNextMatchID *int `db:"loser_next_match_id" json:"loser_next_match_id,omitempty"`

	IsBye   bool `db:"is_bye" json:"is_bye"`
	Skipped bool `db:"skipped" json:"skipped"`
}

func (m *Match) Status() MatchStatus {
	switch {
	case m.Skipped:
		return MatchSkipped
	case m.Winner != nil:
		return MatchDecided
	case m.Team1 != nil && m.Team2 != nil:
		return MatchReady
	default:
		return MatchUnscheduled
	}
}

func (m *Match) HasTeam(team string) bool {
	return (m.Team1 != nil && *m.Team1 == team) || (m.Team2 != nil && *m.Team2 == team)
}

// Loser returns the losing team of a decided match. Byes have no loser.
func (m *Match) Loser() (string, bool) {
	if m.Winner == nil || m.Team1 == nil || m.Team2 == nil {
		return "", false
	}
	if *m.Team1 == *m.Winner {
		return *m.Team2, true
	}
	return *m.Team1, true
}

func (m *Match) clone() Match {
	c := *m
	c.Team1 = clonePtr(m.Team1)
	c.Team2 = clonePtr(m.Team2)
	c.Winner = clonePtr(m.Winner)
	c.NextMatchID = clonePtr(m.NextMatchID)
	c.LoserNextMatchID = clonePtr(m.LoserNextMatchID)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	return utils.Ptr(*p)
}
