// Package games holds the outcome generators for the one-shot gambling
// commands and the weighted slot machine. Generators are pure: they take an
// injected random source and a stake in minor units and return the net
// balance change, never touching the ledger themselves.
package games

// Result is the outcome of a single game play.
type Result struct {
	Won    bool
	Delta  int64 // net balance change in minor units, 0 on a push
	Detail string
}
