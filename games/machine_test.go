package games

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateMachine(t *testing.T) {
	tests := []struct {
		name    string
		symbols [3]Symbol
		stake   int64
		gross   int64
		net     int64
	}{
		{"triple seven", [3]Symbol{SymbolSeven, SymbolSeven, SymbolSeven}, 100, 2000, 1900},
		{"triple diamond", [3]Symbol{SymbolDiamond, SymbolDiamond, SymbolDiamond}, 100, 1200, 1100},
		{"triple bar", [3]Symbol{SymbolBar, SymbolBar, SymbolBar}, 100, 800, 700},
		{"triple bell", [3]Symbol{SymbolBell, SymbolBell, SymbolBell}, 100, 500, 400},
		{"triple grape", [3]Symbol{SymbolGrape, SymbolGrape, SymbolGrape}, 100, 300, 200},
		{"triple lemon pays 2.5x", [3]Symbol{SymbolLemon, SymbolLemon, SymbolLemon}, 100, 250, 150},
		{"triple cherry", [3]Symbol{SymbolCherry, SymbolCherry, SymbolCherry}, 100, 200, 100},
		{"two cherries", [3]Symbol{SymbolCherry, SymbolCherry, SymbolLemon}, 100, 120, 20},
		{"two cherries split", [3]Symbol{SymbolCherry, SymbolGrape, SymbolCherry}, 100, 120, 20},
		{"one cherry", [3]Symbol{SymbolCherry, SymbolLemon, SymbolGrape}, 100, 40, -60},
		{"no match", [3]Symbol{SymbolLemon, SymbolGrape, SymbolBell}, 100, 0, -100},
		{"one cherry floors at one minor unit", [3]Symbol{SymbolCherry, SymbolLemon, SymbolGrape}, 2, 1, -1},
		{"odd stake lemon triple truncates", [3]Symbol{SymbolLemon, SymbolLemon, SymbolLemon}, 101, 252, 151},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EvaluateMachine(tt.symbols, tt.stake)
			assert.Equal(t, tt.gross, result.Gross)
			assert.Equal(t, tt.net, result.Net)
		})
	}
}

func TestSpinReelsHolds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	prev := [3]int{4, 2, 9}

	t.Run("held reels keep their stop", func(t *testing.T) {
		stops := SpinReels(rng, prev, [3]bool{true, false, true})
		assert.Equal(t, prev[0], stops[0])
		assert.Equal(t, prev[2], stops[2])
	})

	t.Run("all held reproduces the previous spin", func(t *testing.T) {
		stops := SpinReels(rng, prev, [3]bool{true, true, true})
		assert.Equal(t, prev, stops)
	})

	t.Run("stops stay inside the reel strips", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			stops := SpinReels(rng, prev, [3]bool{})
			for reel, stop := range stops {
				require.GreaterOrEqual(t, stop, 0)
				require.Less(t, stop, len(machineReels[reel]))
			}
		}
	})
}

func TestReelSymbols(t *testing.T) {
	// Last stop of every strip is the lone seven.
	stops := [3]int{
		len(machineReels[0]) - 1,
		len(machineReels[1]) - 1,
		len(machineReels[2]) - 1,
	}
	symbols := ReelSymbols(stops)
	assert.Equal(t, [3]Symbol{SymbolSeven, SymbolSeven, SymbolSeven}, symbols)
}

func TestPaytableListsEveryTriple(t *testing.T) {
	table := Paytable()
	for symbol, emoji := range SymbolEmoji {
		assert.Contains(t, table, emoji, "paytable should mention %s", symbol)
	}
	assert.Contains(t, table, "20x")
	assert.Contains(t, table, "2.5x")
	assert.Contains(t, table, "1.2x")
}
