package games

import (
	"fmt"
	"math/rand"
	"strings"
)

// Symbol is a weighted slot machine reel symbol.
type Symbol string

const (
	SymbolSeven   Symbol = "seven"
	SymbolDiamond Symbol = "diamond"
	SymbolBar     Symbol = "bar"
	SymbolBell    Symbol = "bell"
	SymbolGrape   Symbol = "grape"
	SymbolLemon   Symbol = "lemon"
	SymbolCherry  Symbol = "cherry"
)

// SymbolEmoji maps reel symbols to their display form.
var SymbolEmoji = map[Symbol]string{
	SymbolSeven:   "7️⃣",
	SymbolDiamond: "💎",
	SymbolBar:     "🅱️",
	SymbolBell:    "🔔",
	SymbolGrape:   "🍇",
	SymbolLemon:   "🍋",
	SymbolCherry:  "🍒",
}

// Each reel strip lists one entry per stop. Rarer symbols appear fewer
// times, so a uniform pick over stops gives the weighting.
var machineReels = [3][]Symbol{
	{
		SymbolCherry, SymbolCherry, SymbolCherry, SymbolCherry, SymbolCherry,
		SymbolLemon, SymbolLemon, SymbolLemon, SymbolLemon,
		SymbolGrape, SymbolGrape, SymbolGrape,
		SymbolBell, SymbolBell,
		SymbolBar, SymbolBar,
		SymbolDiamond,
		SymbolSeven,
	},
	{
		SymbolCherry, SymbolCherry, SymbolCherry, SymbolCherry,
		SymbolLemon, SymbolLemon, SymbolLemon, SymbolLemon, SymbolLemon,
		SymbolGrape, SymbolGrape, SymbolGrape,
		SymbolBell, SymbolBell,
		SymbolBar,
		SymbolDiamond,
		SymbolSeven,
	},
	{
		SymbolCherry, SymbolCherry, SymbolCherry,
		SymbolLemon, SymbolLemon, SymbolLemon, SymbolLemon,
		SymbolGrape, SymbolGrape, SymbolGrape, SymbolGrape,
		SymbolBell, SymbolBell,
		SymbolBar, SymbolBar,
		SymbolDiamond,
		SymbolSeven,
	},
}

// SpinReels advances the machine one spin. Held reels keep their previous
// stop, the rest are resampled uniformly over their strip.
func SpinReels(rng *rand.Rand, prev [3]int, holds [3]bool) [3]int {
	var stops [3]int
	for i := range stops {
		if holds[i] {
			stops[i] = prev[i]
			continue
		}
		stops[i] = rng.Intn(len(machineReels[i]))
	}
	return stops
}

// ReelSymbols resolves reel stops to their symbols.
func ReelSymbols(stops [3]int) [3]Symbol {
	var symbols [3]Symbol
	for i, stop := range stops {
		symbols[i] = machineReels[i][stop]
	}
	return symbols
}

var tripleMultipliers = []struct {
	symbol Symbol
	num    int64
	den    int64
}{
	{SymbolSeven, 20, 1},
	{SymbolDiamond, 12, 1},
	{SymbolBar, 8, 1},
	{SymbolBell, 5, 1},
	{SymbolGrape, 3, 1},
	{SymbolLemon, 5, 2},
	{SymbolCherry, 2, 1},
}

// MachineResult is the settled outcome of one weighted machine spin.
type MachineResult struct {
	Gross  int64 // total returned to the player, 0 on a miss
	Net    int64 // Gross minus stake
	Reason string
}

// EvaluateMachine scores a spin. Three of a kind pays the symbol multiplier,
// two cherries pay 1.2x, a single cherry pays 0.4x. Whenever a pay rule
// matches, the gross is floored at one minor unit so tiny stakes still pay.
func EvaluateMachine(symbols [3]Symbol, stake int64) MachineResult {
	if symbols[0] == symbols[1] && symbols[1] == symbols[2] {
		for _, m := range tripleMultipliers {
			if m.symbol == symbols[0] {
				gross := minPayout(stake * m.num / m.den)
				return MachineResult{
					Gross:  gross,
					Net:    gross - stake,
					Reason: fmt.Sprintf("Three %s", SymbolEmoji[symbols[0]]),
				}
			}
		}
	}

	cherries := 0
	for _, s := range symbols {
		if s == SymbolCherry {
			cherries++
		}
	}

	switch cherries {
	case 2:
		gross := minPayout(stake * 6 / 5)
		return MachineResult{Gross: gross, Net: gross - stake, Reason: "Two 🍒"}
	case 1:
		gross := minPayout(stake * 2 / 5)
		return MachineResult{Gross: gross, Net: gross - stake, Reason: "One 🍒"}
	default:
		return MachineResult{Gross: 0, Net: -stake, Reason: "No match"}
	}
}

func minPayout(gross int64) int64 {
	if gross < 1 {
		return 1
	}
	return gross
}

// Paytable renders the machine's pay rules for the Winnings button.
func Paytable() string {
	var b strings.Builder
	for _, m := range tripleMultipliers {
		mult := fmt.Sprintf("%dx", m.num)
		if m.den != 1 {
			mult = fmt.Sprintf("%.1fx", float64(m.num)/float64(m.den))
		}
		fmt.Fprintf(&b, "%s %s %s pays %s\n", SymbolEmoji[m.symbol], SymbolEmoji[m.symbol], SymbolEmoji[m.symbol], mult)
	}
	b.WriteString("🍒 🍒 any pays 1.2x\n")
	b.WriteString("🍒 any any pays 0.4x\n")
	return b.String()
}
