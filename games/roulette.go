package games

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// ErrInvalidPick indicates a roulette color outside the accepted set.
var ErrInvalidPick = errors.New("pick must be green, red, or black")

const rouletteGreenMultiplier = 14

// Roulette spins a 37-pocket wheel. Pocket 0 is green and pays 14x, even
// pockets are red and odd pockets are black, each paying 1x.
func Roulette(rng *rand.Rand, stake int64, pick string) (Result, error) {
	pick = strings.ToLower(strings.TrimSpace(pick))
	switch pick {
	case "green", "red", "black":
	default:
		return Result{}, ErrInvalidPick
	}

	wheel := rng.Intn(37)
	return rouletteOutcome(wheel, pick, stake), nil
}

func rouletteOutcome(wheel int, pick string, stake int64) Result {
	color := "green"
	var multiplier int64 = rouletteGreenMultiplier
	if wheel != 0 {
		multiplier = 1
		if wheel%2 == 0 {
			color = "red"
		} else {
			color = "black"
		}
	}

	detail := fmt.Sprintf("The ball landed on %d (%s)", wheel, color)
	if pick == color {
		return Result{Won: true, Delta: stake * multiplier, Detail: detail}
	}
	return Result{Won: false, Delta: -stake, Detail: detail}
}
