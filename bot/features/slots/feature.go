package slots

import (
	"math/rand"
	"sync"
	"time"

	"gamba/bot/common"
	"gamba/service"
)

// Feature owns the live slot machines, at most one per user.
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

func (f *Feature) session(ownerID int64) *Session {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.sessions[ownerID]
}

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

// Shutdown closes every live machine. Spins settle synchronously, so there
// is never an unsettled spin to lose here.
func (f *Feature) Shutdown() {
	f.mu.Lock()
	sessions := f.sessions
	f.sessions = make(map[int64]*Session)
	f.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
}

func newSessionRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
