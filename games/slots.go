package games

import (
	"fmt"
	"math/rand"
)

var slotSymbols = []string{"🍒", "🍋", "🍇", "🔔", "⭐"}

// Slots spins three uniform reels over a five-symbol set. Three matching
// symbols pay 5x, exactly two pay 1x, no match loses the stake.
func Slots(rng *rand.Rand, stake int64) Result {
	var reels [3]string
	for i := range reels {
		reels[i] = slotSymbols[rng.Intn(len(slotSymbols))]
	}
	return slotsOutcome(reels, stake)
}

func slotsOutcome(reels [3]string, stake int64) Result {
	detail := fmt.Sprintf("%s %s %s", reels[0], reels[1], reels[2])

	switch {
	case reels[0] == reels[1] && reels[1] == reels[2]:
		return Result{Won: true, Delta: stake * 5, Detail: detail}
	case reels[0] == reels[1] || reels[1] == reels[2] || reels[0] == reels[2]:
		return Result{Won: true, Delta: stake, Detail: detail}
	default:
		return Result{Won: false, Delta: -stake, Detail: detail}
	}
}
