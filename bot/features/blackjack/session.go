package blackjack

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	engine "gamba/blackjack"
	"gamba/models"
	"gamba/service"

	log "github.com/sirupsen/logrus"
)

const (
	idleTimeout  = 60 * time.Second
	watchdogTick = 2 * time.Second
	sessionDecks = 8
)

// Tier is a named bracket of fixed stake values the lobby offers.
type Tier struct {
	Name   string
	Stakes []int64
}

var tiers = []Tier{
	{Name: "Casual", Stakes: []int64{100, 500, 1000, 2500}},
	{Name: "High Roller", Stakes: []int64{5000, 10000, 25000}},
	{Name: "Whale", Stakes: []int64{50000, 100000, 250000}},
}

// State is the session phase. Transitions only move forward except for
// AwaitingNext returning to Lobby on "play again".
type State int

const (
	StateLobby State = iota
	StateDealt
	StateAwaitingNext
	StateFinished
)

var (
	ErrSessionNotYours = errors.New("this blackjack session is not yours")

	errWrongPhase   = errors.New("that action is not available right now")
	errUnknownTier  = errors.New("unknown tier")
	errStakeOffMenu = errors.New("pick a stake from the tier menu")
	errNoStake      = errors.New("select a stake before dealing")
	errOverBalance  = errors.New("that stake exceeds your balance")
)

// settler is the slice of the ledger the session needs to pay out a hand.
type settler interface {
	Settle(ctx context.Context, discordID int64, username string, stake, delta int64) (*models.User, error)
}

// View is a renderable snapshot of the session. Session operations return
// one so the embed layer never reaches into live state.
type View struct {
	State        State
	TierIndex    int
	TierName     string
	Stakes       []int64
	Stake        int64
	Balance      int64
	Status       string
	Player       []engine.Card
	PlayerTotal  int
	Dealer       []engine.Card
	DealerTotal  int
	RevealDealer bool
	Remaining    int
}

// Session drives one user's interactive blackjack flow. All operations take
// the session mutex, so finalization is single-flight: whichever of a button
// press or the idle watchdog gets there first settles, the loser observes the
// changed state and does nothing.
type Session struct {
	ownerID  int64
	username string

	settler settler
	rng     *rand.Rand
	now     func() time.Time

	// onExpire is invoked (outside the lock) after the idle watchdog
	// finishes the session, so the UI can disable its buttons.
	onExpire func(View)

	mu         sync.Mutex
	state      State
	tierIndex  int
	stake      int64
	balance    int64
	round      *engine.Round
	status     string
	lastAction time.Time
	closed     bool
	done       chan struct{}
}

func newSession(ownerID int64, username string, balance int64, settler settler, rng *rand.Rand, onExpire func(View)) *Session {
	s := &Session{
		ownerID:  ownerID,
		username: username,
		settler:  settler,
		rng:      rng,
		now:      time.Now,
		onExpire: onExpire,
		state:    StateLobby,
		balance:  balance,
		status:   "Pick a tier and a stake, then deal.",
		done:     make(chan struct{}),
	}
	s.lastAction = s.now()
	return s
}

// startWatchdog launches the idle poller. Separate from construction so
// tests can drive expiry deterministically.
func (s *Session) startWatchdog() {
	go func() {
		ticker := time.NewTicker(watchdogTick)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				if view, expired := s.expireIfIdle(); expired {
					if s.onExpire != nil {
						s.onExpire(view)
					}
					return
				}
			}
		}
	}()
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	v := View{
		State:     s.state,
		TierIndex: s.tierIndex,
		TierName:  tiers[s.tierIndex].Name,
		Stakes:    tiers[s.tierIndex].Stakes,
		Stake:     s.stake,
		Balance:   s.balance,
		Status:    s.status,
	}
	if s.round != nil {
		v.Player = s.round.Player
		v.PlayerTotal = engine.HandTotal(s.round.Player)
		v.Dealer = s.round.Dealer
		v.DealerTotal = engine.HandTotal(s.round.Dealer)
		v.RevealDealer = s.state != StateDealt
		v.Remaining = s.round.Remaining()
	}
	return v
}

// SelectTier switches the lobby to another stake ladder and clears any
// previously selected stake.
func (s *Session) SelectTier(index int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLobby {
		return View{}, errWrongPhase
	}
	if index < 0 || index >= len(tiers) {
		return View{}, errUnknownTier
	}

	s.tierIndex = index
	s.stake = 0
	s.status = fmt.Sprintf("Tier set to %s. Pick a stake.", tiers[index].Name)
	s.touchLocked()
	return s.viewLocked(), nil
}

// SelectStake picks a stake off the current tier's ladder. Values not on the
// ladder or above the last known balance are rejected without a state change.
func (s *Session) SelectStake(stake int64) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLobby {
		return View{}, errWrongPhase
	}
	if !onLadder(tiers[s.tierIndex].Stakes, stake) {
		return View{}, errStakeOffMenu
	}
	if stake > s.balance {
		return View{}, errOverBalance
	}

	s.stake = stake
	s.status = "Stake locked in. Deal when ready."
	s.touchLocked()
	return s.viewLocked(), nil
}

// Deal starts a round. Naturals resolve immediately: the dealer's is checked
// first and beats the player's, a player-only natural pays 1.5x.
func (s *Session) Deal(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLobby {
		return View{}, errWrongPhase
	}
	if s.stake <= 0 {
		return View{}, errNoStake
	}
	if s.stake > s.balance {
		return View{}, errOverBalance
	}

	s.round = engine.NewRound(s.rng, sessionDecks)
	s.touchLocked()

	switch {
	case engine.IsBlackjack(s.round.Dealer):
		s.finalizeLocked(ctx, -s.stake, "Dealer has blackjack. You lose.")
	case engine.IsBlackjack(s.round.Player):
		s.finalizeLocked(ctx, engine.WinPayout(s.stake), "Blackjack! You win.")
	default:
		s.state = StateDealt
		s.status = "Hit to draw, Stick to stand."
	}
	return s.viewLocked(), nil
}

// Hit draws a card for the player, settling the hand as a loss on bust.
func (s *Session) Hit(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateDealt {
		return View{}, errWrongPhase
	}

	card := s.round.HitPlayer()
	s.touchLocked()

	if total := engine.HandTotal(s.round.Player); total > 21 {
		s.finalizeLocked(ctx, -s.stake, fmt.Sprintf("You drew %s and busted with %d.", card, total))
	} else {
		s.status = fmt.Sprintf("You drew %s. Hit or Stick.", card)
	}
	return s.viewLocked(), nil
}

// Stick stands the player, runs the dealer out and settles the result.
func (s *Session) Stick(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateDealt {
		return View{}, errWrongPhase
	}

	s.round.PlayDealer()
	s.touchLocked()

	playerTotal := engine.HandTotal(s.round.Player)
	dealerTotal := engine.HandTotal(s.round.Dealer)

	var delta int64
	var summary string
	switch {
	case dealerTotal > 21:
		delta = engine.WinPayout(s.stake)
		summary = fmt.Sprintf("Dealer busted with %d. You win.", dealerTotal)
	default:
		switch engine.Resolve(s.round.Player, s.round.Dealer) {
		case engine.OutcomeWin:
			delta = engine.WinPayout(s.stake)
			summary = fmt.Sprintf("You win %d to %d.", playerTotal, dealerTotal)
		case engine.OutcomeLoss:
			delta = -s.stake
			summary = fmt.Sprintf("Dealer wins %d to %d.", dealerTotal, playerTotal)
		default:
			delta = 0
			summary = fmt.Sprintf("Push at %d.", playerTotal)
		}
	}

	s.finalizeLocked(ctx, delta, summary)
	return s.viewLocked(), nil
}

// PlayAgain returns to the lobby for another hand. The stake is re-validated
// against the settled balance and downgraded to the best affordable ladder
// value when the previous one no longer fits.
func (s *Session) PlayAgain() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAwaitingNext {
		return View{}, errWrongPhase
	}

	s.round = nil
	s.state = StateLobby
	s.stake = bestAffordable(tiers[s.tierIndex].Stakes, s.stake, s.balance)
	if s.stake > 0 {
		s.status = "New hand. Deal when ready."
	} else {
		s.status = "Balance too low for this tier. Pick another tier or stake."
	}
	s.touchLocked()
	return s.viewLocked(), nil
}

// Stop ends the session after a resolved hand. From any other phase,
// including the lobby, the press is rejected so a stale Stop button cannot
// finish a session that moved on.
func (s *Session) Stop() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAwaitingNext {
		return View{}, errWrongPhase
	}

	s.status = "Thanks for playing."
	s.finishLocked()
	return s.viewLocked(), nil
}

// Close tears the session down without settling anything. Used on process
// shutdown and when the owner opens a replacement session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateFinished {
		return
	}
	s.status = "Session closed."
	s.finishLocked()
}

// expireIfIdle finishes the session when no action happened for the idle
// threshold. A round still in progress is forfeited as a loss. Reports
// whether expiry ran.
func (s *Session) expireIfIdle() (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateFinished {
		return View{}, false
	}
	if s.now().Sub(s.lastAction) < idleTimeout {
		return View{}, false
	}

	if s.state == StateDealt {
		s.finalizeLocked(context.Background(), -s.stake, "Hand timed out. Stake forfeited.")
	} else {
		s.status = "Session timed out."
	}
	s.finishLocked()
	return s.viewLocked(), true
}

// finalizeLocked settles the in-progress round. Caller holds the mutex; the
// state checks in every operation make reaching here single-flight. A failed
// settlement leaves the balance untouched and surfaces the error as status.
func (s *Session) finalizeLocked(ctx context.Context, delta int64, summary string) {
	user, err := s.settler.Settle(ctx, s.ownerID, s.username, s.stake, delta)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientBalance) {
			s.status = "Could not settle the hand: insufficient balance."
		} else {
			log.Errorf("Error settling blackjack hand for user %d: %v", s.ownerID, err)
			s.status = "Settlement failed. Your balance is unchanged."
		}
		s.state = StateAwaitingNext
		return
	}

	s.balance = user.Balance
	s.status = summary
	s.state = StateAwaitingNext
}

func (s *Session) finishLocked() {
	s.state = StateFinished
	if !s.closed {
		s.closed = true
		close(s.done)
	}
}

func (s *Session) touchLocked() {
	s.lastAction = s.now()
}

func onLadder(stakes []int64, stake int64) bool {
	for _, v := range stakes {
		if v == stake {
			return true
		}
	}
	return false
}

// bestAffordable keeps the current stake when the balance still covers it,
// otherwise the largest ladder value that fits, otherwise zero.
func bestAffordable(stakes []int64, current, balance int64) int64 {
	if current > 0 && current <= balance {
		return current
	}
	best := int64(0)
	for _, v := range stakes {
		if v <= balance && v > best {
			best = v
		}
	}
	return best
}
