package games

import (
	"fmt"
	"math/rand"
)

// Showdown deals both sides a random total between 12 and 21. Beating the
// dealer pays 1.5x truncated to minor units, a tie pushes.
func Showdown(rng *rand.Rand, stake int64) Result {
	player := rng.Intn(10) + 12
	dealer := rng.Intn(10) + 12
	return showdownOutcome(player, dealer, stake)
}

func showdownOutcome(player, dealer int, stake int64) Result {
	detail := fmt.Sprintf("You drew %d, the dealer drew %d", player, dealer)

	switch {
	case player > dealer:
		return Result{Won: true, Delta: stake * 3 / 2, Detail: detail}
	case player == dealer:
		return Result{Won: false, Delta: 0, Detail: detail + " - push"}
	default:
		return Result{Won: false, Delta: -stake, Detail: detail}
	}
}
