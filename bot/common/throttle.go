package common

import (
	"sync"
	"time"
)

// Throttle serializes outbound message edits per user and enforces a
// minimum gap between them, keeping rapid button mashing under the
// platform's edit rate without dropping updates.
type Throttle struct {
	minGap time.Duration

	mu       sync.Mutex
	userLock map[int64]*sync.Mutex
	lastSend map[int64]time.Time
}

// NewThrottle creates a throttle with the given minimum gap between sends
func NewThrottle(minGap time.Duration) *Throttle {
	return &Throttle{
		minGap:   minGap,
		userLock: make(map[int64]*sync.Mutex),
		lastSend: make(map[int64]time.Time),
	}
}

// Do runs fn holding the user's send lock, sleeping out the remainder of
// the minimum gap first. Sends for different users never block each other.
func (t *Throttle) Do(userID int64, fn func() error) error {
	lock := t.lock(userID)
	lock.Lock()
	defer lock.Unlock()

	t.mu.Lock()
	wait := t.minGap - time.Since(t.lastSend[userID])
	t.mu.Unlock()

	if wait > 0 {
		time.Sleep(wait)
	}

	err := fn()

	t.mu.Lock()
	t.lastSend[userID] = time.Now()
	t.mu.Unlock()

	return err
}

func (t *Throttle) lock(userID int64) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()

	lock, ok := t.userLock[userID]
	if !ok {
		lock = &sync.Mutex{}
		t.userLock[userID] = lock
	}
	return lock
}
