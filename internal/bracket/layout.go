package bracket

import "sort"

type RoundLayout struct {
	Round   int     `json:"round"`
	Matches []Match `json:"matches"`
}

// Layout groups a schedule by side and round for presenters.
type Layout struct {
	Format  Format        `json:"format"`
	Winners []RoundLayout `json:"winners,omitempty"`
	Losers  []RoundLayout `json:"losers,omitempty"`
	Finals  []RoundLayout `json:"finals,omitempty"`
	Pool    []RoundLayout `json:"pool,omitempty"`
}

func NewLayout(s Schedule) Layout {
	sides := map[BracketSide]map[int][]Match{}
	for _, m := range s.Matches {
		if sides[m.Side] == nil {
			sides[m.Side] = map[int][]Match{}
		}
		sides[m.Side][m.Round] = append(sides[m.Side][m.Round], m)
	}

	return Layout{
		Format:  s.Format,
		Winners: sortRounds(sides[WinnersSide]),
		Losers:  sortRounds(sides[LosersSide]),
		Finals:  sortRounds(sides[FinalsSide]),
		Pool:    sortRounds(sides[PoolSide]),
	}
}

func sortRounds(rounds map[int][]Match) []RoundLayout {
	roundNums := make([]int, 0, len(rounds))
	for r := range rounds {
		roundNums = append(roundNums, r)
	}
	sort.Ints(roundNums)

	out := make([]RoundLayout, 0, len(roundNums))
	for _, r := range roundNums {
		matches := rounds[r]
		sort.Slice(matches, func(i, j int) bool {
			return matches[i].MatchNumber < matches[j].MatchNumber
		})
		out = append(out, RoundLayout{Round: r, Matches: matches})
	}
	return out
}
