package games

import (
	"fmt"
	"math/rand"
)

type wordEntry struct {
	word   string
	length int
}

// The puzzle table is fixed. Lengths are stored alongside the words so the
// payout check never depends on string encoding.
var wordTable = []wordEntry{
	{"discord", 7},
	{"roulette", 8},
	{"casino", 6},
	{"balance", 7},
	{"blackjack", 9},
}

// WordLinks picks a secret word and pays 3x when the guessed letter count
// matches its length.
func WordLinks(rng *rand.Rand, stake int64, guess int) Result {
	entry := wordTable[rng.Intn(len(wordTable))]
	return wordLinksOutcome(entry, guess, stake)
}

func wordLinksOutcome(entry wordEntry, guess int, stake int64) Result {
	detail := fmt.Sprintf("The word was **%s** (%d letters), you guessed %d", entry.word, entry.length, guess)

	if guess == entry.length {
		return Result{Won: true, Delta: stake * 3, Detail: detail}
	}
	return Result{Won: false, Delta: -stake, Detail: detail}
}
