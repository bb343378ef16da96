package bracket

import (
	"fmt"
	"math/bits"
	"math/rand/v2"

	"github.com/AdamBeresnev/arena-bracket/internal/utils"
)

type options struct {
	rng           *rand.Rand
	rosterSeeding bool
}

type Option func(*options)

// WithRand draws the seeding shuffle from r, which makes generation
// reproducible.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}

// WithRosterSeeding uses the roster order as the seed order instead of
// shuffling: the first team is the top seed.
func WithRosterSeeding() Option {
	return func(o *options) {
		o.rosterSeeding = true
	}
}

// Generate builds the complete schedule for teams in the given format. All
// matches are created at once with their advancement links wired, and byes
// are resolved before it returns.
func Generate(teams []string, format Format, opts ...Option) (Schedule, error) {
	if !format.Valid() {
		return Schedule{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err := validateRoster(teams); err != nil {
		return Schedule{}, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	switch format {
	case RoundRobin:
		return generateRoundRobin(teams), nil
	case DoubleElimination:
		return generateElimination(seedOrder(teams, o), true), nil
	default:
		return generateElimination(seedOrder(teams, o), false), nil
	}
}

func validateRoster(teams []string) error {
	if len(teams) < 2 {
		return fmt.Errorf("%w: got %d", ErrInsufficientParticipants, len(teams))
	}

	seen := make(map[string]struct{}, len(teams))
	for i, team := range teams {
		if team == "" {
			return fmt.Errorf("%w: position %d", ErrInvalidTeam, i)
		}
		if _, dup := seen[team]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateTeam, team)
		}
		seen[team] = struct{}{}
	}
	return nil
}

type builder struct {
	schedule Schedule
}

func (b *builder) addRound(side BracketSide, round, count int) []int {
	ids := make([]int, count)
	for i := range ids {
		id := len(b.schedule.Matches)
		b.schedule.Matches = append(b.schedule.Matches, Match{
			ID:          id,
			Side:        side,
			Round:       round,
			MatchNumber: i + 1,
		})
		ids[i] = id
	}
	return ids
}

func (b *builder) link(from, to int) {
	b.schedule.Matches[from].NextMatchID = utils.Ptr(to)
}

func (b *builder) dropLoser(from, to int) {
	b.schedule.Matches[from].LoserNextMatchID = utils.Ptr(to)
}

func generateElimination(seeded []string, double bool) Schedule {
	n := len(seeded)
	bracketSize := calcBracketSize(n)
	totalRounds := bits.TrailingZeros(uint(bracketSize))

	b := &builder{schedule: Schedule{Format: SingleElimination}}
	if double {
		b.schedule.Format = DoubleElimination
	}

	upper := make([][]int, totalRounds)
	for r := 1; r <= totalRounds; r++ {
		upper[r-1] = b.addRound(WinnersSide, r, bracketSize>>r)
	}
	for r := 0; r+1 < totalRounds; r++ {
		for i, id := range upper[r] {
			b.link(id, upper[r+1][i/2])
		}
	}

	for i, pair := range generateRound1Pairs(bracketSize) {
		m := &b.schedule.Matches[upper[0][i]]
		m.Team1 = utils.Ptr(seeded[pair[0]])
		if pair[1] < n {
			m.Team2 = utils.Ptr(seeded[pair[1]])
		}
	}

	if double {
		b.addLowerBracket(upper, bracketSize)
	}

	s := b.schedule
	for _, id := range upper[0] {
		m := &s.Matches[id]
		if m.Team2 != nil {
			continue
		}
		m.Winner = clonePtr(m.Team1)
		m.IsBye = true
		s.advance(id)
	}

	if double {
		s.skipDeadMatches()
	}
	return s
}

// addLowerBracket wires the losers bracket and the finals onto an upper
// bracket. LB round 1 pairs the WB round 1 losers; LB round 2k meets the
// LB round 2k-1 winners with the WB round k+1 losers; LB round 2k+1 halves
// the field again. The drop-in order flips every other round so teams that
// just met do not meet again right away.
func (b *builder) addLowerBracket(upper [][]int, bracketSize int) {
	totalRounds := len(upper)
	lowerRounds := 2 * (totalRounds - 1)

	lower := make([][]int, lowerRounds)
	for lr := 1; lr <= lowerRounds; lr++ {
		k := lr / 2
		count := bracketSize >> (k + 2)
		if lr%2 == 0 {
			count = bracketSize >> (k + 1)
		}
		lower[lr-1] = b.addRound(LosersSide, lr, count)
	}

	grandFinal := b.addRound(FinalsSide, GrandFinalRound, 1)[0]
	reset := b.addRound(FinalsSide, ResetRound, 1)[0]
	b.link(grandFinal, reset)
	b.dropLoser(grandFinal, reset)

	upperFinal := upper[totalRounds-1][0]
	b.link(upperFinal, grandFinal)
	if lowerRounds == 0 {
		// Two teams: the first loser goes straight to the grand final.
		b.dropLoser(upperFinal, grandFinal)
		return
	}

	for i, id := range upper[0] {
		b.dropLoser(id, lower[0][i/2])
	}
	for k := 1; k < totalRounds; k++ {
		target := lower[2*k-1]
		for j, id := range upper[k] {
			slot := j
			if k%2 == 1 {
				slot = len(target) - 1 - j
			}
			b.dropLoser(id, target[slot])
		}
	}

	for lr := 0; lr+1 < lowerRounds; lr++ {
		next := lower[lr+1]
		for i, id := range lower[lr] {
			if len(next) == len(lower[lr]) {
				b.link(id, next[i])
			} else {
				b.link(id, next[i/2])
			}
		}
	}
	b.link(lower[lowerRounds-1][0], grandFinal)
}

// skipDeadMatches marks losers bracket matches that no team can ever reach,
// which happens when both of their feeds are byes. Sources precede their
// targets in the arena, so one forward pass settles chains of them.
func (s *Schedule) skipDeadMatches() {
	for i := range s.Matches {
		if s.Matches[i].Side != LosersSide {
			continue
		}
		if s.liveFeeds(i) == 0 {
			s.Matches[i].Skipped = true
		}
	}
}

func generateRoundRobin(teams []string) Schedule {
	s := Schedule{
		Format:  RoundRobin,
		Matches: make([]Match, 0, len(teams)*(len(teams)-1)/2),
	}

	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			id := len(s.Matches)
			s.Matches = append(s.Matches, Match{
				ID:          id,
				Side:        PoolSide,
				Round:       1,
				MatchNumber: id + 1,
				Team1:       utils.Ptr(teams[i]),
				Team2:       utils.Ptr(teams[j]),
			})
		}
	}
	return s
}
