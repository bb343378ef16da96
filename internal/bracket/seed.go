package bracket

import (
	"math/bits"
	"math/rand/v2"
)

// Gets the nearest power of 2 while rounding up, so with input 5 it returns 8 and so on
func calcBracketSize(count int) int {
	if count <= 1 {
		return count
	}
	return 1 << bits.Len(uint(count-1))
}

// generateRound1Pairs returns the seed pairs of the first round in bracket
// order: seed i meets seed size-1-i, and the top seeds are kept apart until
// the latest possible round. The higher seed is always the second element,
// so padding seeds (byes) only ever meet a real team.
func generateRound1Pairs(bracketSize int) [][2]int {
	if bracketSize == 0 {
		return [][2]int{}
	}

	rounds := []int{0}
	for len(rounds) < bracketSize {
		var nextRound []int
		currentCount := len(rounds) * 2

		for _, seed := range rounds {
			nextRound = append(nextRound, seed)
			nextRound = append(nextRound, (currentCount-1)-seed)
		}
		rounds = nextRound
	}

	pairs := make([][2]int, 0, bracketSize/2)
	for i := 0; i < len(rounds); i += 2 {
		matchup := [2]int{rounds[i], rounds[i+1]}
		pairs = append(pairs, matchup)
	}

	return pairs
}

// seedOrder returns the roster in seed order. By default the order is a
// uniform shuffle; roster seeding keeps the caller's order.
func seedOrder(teams []string, o options) []string {
	seeded := make([]string, len(teams))
	copy(seeded, teams)
	if o.rosterSeeding {
		return seeded
	}

	swap := func(i, j int) { seeded[i], seeded[j] = seeded[j], seeded[i] }
	if o.rng != nil {
		o.rng.Shuffle(len(seeded), swap)
	} else {
		rand.Shuffle(len(seeded), swap)
	}
	return seeded
}
