package blackjack

import (
	"math/rand"
	"sync"
	"time"

	"gamba/bot/common"
	"gamba/service"
)

// Feature owns the live blackjack sessions, at most one per user.
type Feature struct {
	ledger   service.Ledger
	throttle *common.Throttle

	mu       sync.RWMutex
	sessions map[int64]*Session
}

func New(ledger service.Ledger, throttle *common.Throttle) *Feature {
	return &Feature{
		ledger:   ledger,
		throttle: throttle,
		sessions: make(map[int64]*Session),
	}
}

// Each session gets its own random source; sessions run on independent
// interaction goroutines and rand.Rand is not safe for concurrent use.
func newSessionRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (f *Feature) session(ownerID int64) *Session {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.sessions[ownerID]
}

// replaceSession installs a new session for the owner, closing any previous
// one without settlement.
func (f *Feature) replaceSession(ownerID int64, sess *Session) {
	f.mu.Lock()
	old := f.sessions[ownerID]
	f.sessions[ownerID] = sess
	f.mu.Unlock()

	if old != nil {
		old.Close()
	}
}

func (f *Feature) removeSession(ownerID int64) {
	f.mu.Lock()
	delete(f.sessions, ownerID)
	f.mu.Unlock()
}

// Shutdown closes every live session without settling. In-flight hands stay
// unsettled; the ledger never saw the stake leave, so nothing is lost.
func (f *Feature) Shutdown() {
	f.mu.Lock()
	sessions := f.sessions
	f.sessions = make(map[int64]*Session)
	f.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
}
