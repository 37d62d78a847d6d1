package games

import (
	"fmt"
	"math/rand"
)

var pokerRanks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// Poker is a single high-card draw against the house. A higher card pays 2x,
// a tie pushes, a lower card loses the stake.
func Poker(rng *rand.Rand, stake int64) Result {
	player := rng.Intn(len(pokerRanks))
	dealer := rng.Intn(len(pokerRanks))
	return pokerOutcome(player, dealer, stake)
}

func pokerOutcome(player, dealer int, stake int64) Result {
	detail := fmt.Sprintf("You drew %s, the dealer drew %s", pokerRanks[player], pokerRanks[dealer])

	switch {
	case player > dealer:
		return Result{Won: true, Delta: stake * 2, Detail: detail}
	case player == dealer:
		return Result{Won: false, Delta: 0, Detail: detail + " - push"}
	default:
		return Result{Won: false, Delta: -stake, Detail: detail}
	}
}
