// Package blackjack implements the round engine for the blackjack command:
// shoe construction, hand totals, the dealer policy and payout math. It
// knows nothing about sessions or the ledger.
package blackjack

import (
	"fmt"
	"math/rand"
)

// Card is a rank plus a suit, e.g. "AS" or "10H".
type Card string

var ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

var suits = []string{"S", "H", "D", "C"}

// The dealer draws to this total. House rules here stand on 14, not the
// usual 17.
const dealerStandTotal = 14

// NewShoe builds numDecks shuffled 52-card decks. The shoe is shuffled once;
// draws pop from the end and are never reinserted.
func NewShoe(rng *rand.Rand, numDecks int) []Card {
	shoe := make([]Card, 0, numDecks*52)
	for d := 0; d < numDecks; d++ {
		for _, rank := range ranks {
			for _, suit := range suits {
				shoe = append(shoe, Card(rank+suit))
			}
		}
	}
	rng.Shuffle(len(shoe), func(i, j int) {
		shoe[i], shoe[j] = shoe[j], shoe[i]
	})
	return shoe
}

// Rank returns the card's rank portion.
func (c Card) Rank() string {
	return string(c[:len(c)-1])
}

func (c Card) value() int {
	switch r := c.Rank(); r {
	case "A":
		return 11
	case "J", "Q", "K", "10":
		return 10
	default:
		return int(r[0] - '0')
	}
}

// HandTotal sums a hand counting aces as 11, then drops each ace to 1 while
// the hand would bust.
func HandTotal(hand []Card) int {
	total := 0
	aces := 0
	for _, c := range hand {
		if c.Rank() == "A" {
			aces++
		}
		total += c.value()
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// IsBlackjack reports whether the hand is a natural: exactly two cards
// totaling 21.
func IsBlackjack(hand []Card) bool {
	return len(hand) == 2 && HandTotal(hand) == 21
}

// DealerMustHit reports whether the dealer keeps drawing on this hand.
func DealerMustHit(hand []Card) bool {
	return HandTotal(hand) < dealerStandTotal
}

// WinPayout is the 1.5x blackjack win, truncated to minor units.
func WinPayout(stake int64) int64 {
	return stake * 3 / 2
}

// Round is one dealt blackjack round against the house.
type Round struct {
	deck   []Card
	Player []Card
	Dealer []Card
}

// NewRound shuffles a fresh shoe and deals two cards each, player first.
func NewRound(rng *rand.Rand, numDecks int) *Round {
	r := &Round{deck: NewShoe(rng, numDecks)}
	r.Player = append(r.Player, r.draw(), r.draw())
	r.Dealer = append(r.Dealer, r.draw(), r.draw())
	return r
}

// HitPlayer deals one card to the player and returns it.
func (r *Round) HitPlayer() Card {
	c := r.draw()
	r.Player = append(r.Player, c)
	return c
}

// PlayDealer runs the dealer policy to completion.
func (r *Round) PlayDealer() {
	for DealerMustHit(r.Dealer) {
		r.Dealer = append(r.Dealer, r.draw())
	}
}

// Remaining reports how many cards are left in the shoe.
func (r *Round) Remaining() int {
	return len(r.deck)
}

func (r *Round) draw() Card {
	if len(r.deck) == 0 {
		// An 8-deck shoe cannot run out inside a single round; if it
		// does, the round state is corrupt and must not settle.
		panic(fmt.Sprintf("draw from empty shoe (player=%d dealer=%d)", len(r.Player), len(r.Dealer)))
	}
	c := r.deck[len(r.deck)-1]
	r.deck = r.deck[:len(r.deck)-1]
	return c
}

// Outcome classifies a finished round from the player's perspective.
type Outcome int

const (
	OutcomeLoss Outcome = iota
	OutcomePush
	OutcomeWin
)

// Resolve compares a stood player hand against the dealer's finished hand.
// Bust hands must be settled by the caller before standing.
func Resolve(player, dealer []Card) Outcome {
	playerTotal := HandTotal(player)
	dealerTotal := HandTotal(dealer)

	switch {
	case dealerTotal > 21:
		return OutcomeWin
	case playerTotal > dealerTotal:
		return OutcomeWin
	case playerTotal < dealerTotal:
		return OutcomeLoss
	default:
		return OutcomePush
	}
}
