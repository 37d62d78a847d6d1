package games

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvalidTile indicates a minesweeper tile outside the board.
var ErrInvalidTile = errors.New("tile must be between 1 and 6")

const minesweeperTiles = 6

// Minesweeper hides one mine on a six-tile board. Picking the mined tile
// loses the stake, any safe tile pays 1.2x truncated to minor units.
func Minesweeper(rng *rand.Rand, stake int64, tile int) (Result, error) {
	if tile < 1 || tile > minesweeperTiles {
		return Result{}, ErrInvalidTile
	}

	mine := rng.Intn(minesweeperTiles) + 1
	return minesweeperOutcome(mine, tile, stake), nil
}

func minesweeperOutcome(mine, tile int, stake int64) Result {
	if tile == mine {
		return Result{
			Won:    false,
			Delta:  -stake,
			Detail: fmt.Sprintf("💥 Tile %d hid the mine", tile),
		}
	}
	return Result{
		Won:    true,
		Delta:  stake * 6 / 5,
		Detail: fmt.Sprintf("Tile %d was safe, the mine was under tile %d", tile, mine),
	}
}
