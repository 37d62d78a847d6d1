package slots

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"gamba/bot/common"
	"gamba/games"
	"gamba/models"
	"gamba/service"

	log "github.com/sirupsen/logrus"
)

const (
	idleTimeout  = 120 * time.Second
	watchdogTick = 2 * time.Second
)

var errAllHeld = errors.New("at least one reel must be unheld before spinning")

type settler interface {
	Settle(ctx context.Context, discordID int64, username string, stake, delta int64) (*models.User, error)
}

// View is a renderable snapshot of the machine.
type View struct {
	Symbols    [3]games.Symbol
	Holds      [3]bool
	Stake      int64
	Balance    int64
	Status     string
	LastResult *games.MachineResult
	Finished   bool
}

// Session is one user's slot machine. Every spin settles through the ledger
// at the fixed per-spin stake; the machine shuts itself down when the balance
// cannot cover another spin or the idle watchdog fires.
type Session struct {
	ownerID  int64
	username string
	stake    int64

	settler settler
	rng     *rand.Rand
	now     func() time.Time

	onExpire func(View)

	mu         sync.Mutex
	stops      [3]int
	holds      [3]bool
	balance    int64
	last       *games.MachineResult
	status     string
	finished   bool
	lastAction time.Time
	closed     bool
	done       chan struct{}
}

func newSession(ownerID int64, username string, stake, balance int64, settler settler, rng *rand.Rand, onExpire func(View)) *Session {
	s := &Session{
		ownerID:  ownerID,
		username: username,
		stake:    stake,
		settler:  settler,
		rng:      rng,
		now:      time.Now,
		onExpire: onExpire,
		balance:  balance,
		status:   "Press Spin to play. Use Hold buttons to lock reels.",
		done:     make(chan struct{}),
	}
	// The opening display is a free spin: nothing is settled until the
	// user presses Spin.
	s.stops = games.SpinReels(rng, s.stops, [3]bool{})
	s.lastAction = s.now()
	return s
}

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
	return View{
		Symbols:    games.ReelSymbols(s.stops),
		Holds:      s.holds,
		Stake:      s.stake,
		Balance:    s.balance,
		Status:     s.status,
		LastResult: s.last,
		Finished:   s.finished,
	}
}

// ToggleHold flips one reel's hold for the next spin.
func (s *Session) ToggleHold(reel int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return View{}, errors.New("this machine has shut down")
	}
	if reel < 0 || reel > 2 {
		return View{}, fmt.Errorf("no such reel: %d", reel)
	}

	s.holds[reel] = !s.holds[reel]
	s.status = "Select holds, then press Spin."
	s.touchLocked()
	return s.viewLocked(), nil
}

// Spin resamples the unheld reels and settles the spin's net delta. An
// insufficient balance disables the machine instead of erroring.
func (s *Session) Spin(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return View{}, errors.New("this machine has shut down")
	}
	if s.holds[0] && s.holds[1] && s.holds[2] {
		return View{}, errAllHeld
	}

	s.stops = games.SpinReels(s.rng, s.stops, s.holds)
	result := games.EvaluateMachine(games.ReelSymbols(s.stops), s.stake)
	s.last = &result
	s.touchLocked()

	user, err := s.settler.Settle(ctx, s.ownerID, s.username, s.stake, result.Net)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientBalance) {
			s.status = "Insufficient balance for another spin."
			s.finishLocked()
			return s.viewLocked(), nil
		}
		log.Errorf("Error settling slot spin for user %d: %v", s.ownerID, err)
		s.status = "Settlement failed. Your balance is unchanged."
		return s.viewLocked(), nil
	}

	s.balance = user.Balance
	switch {
	case result.Net > 0:
		s.status = fmt.Sprintf("You won %s (net +%s).", common.FormatCredits(result.Gross), common.FormatCredits(result.Net))
	case result.Net == 0:
		s.status = "Break-even spin."
	default:
		s.status = fmt.Sprintf("No payout. Lost %s.", common.FormatCredits(-result.Net))
	}
	return s.viewLocked(), nil
}

// Stop shuts the machine down on request.
func (s *Session) Stop() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return View{}, errors.New("this machine has shut down")
	}
	s.status = "Machine stopped. Thanks for playing."
	s.finishLocked()
	return s.viewLocked(), nil
}

// Close tears the session down without an outbound edit.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finished {
		s.status = "Session closed."
		s.finishLocked()
	}
}

func (s *Session) expireIfIdle() (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return View{}, false
	}
	if s.now().Sub(s.lastAction) < idleTimeout {
		return View{}, false
	}

	s.status = "Session timed out."
	s.finishLocked()
	return s.viewLocked(), true
}

func (s *Session) finishLocked() {
	s.finished = true
	if !s.closed {
		s.closed = true
		close(s.done)
	}
}

func (s *Session) touchLocked() {
	s.lastAction = s.now()
}
