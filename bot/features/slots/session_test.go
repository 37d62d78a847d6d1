package slots

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"gamba/models"
	"gamba/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettler struct {
	mu      sync.Mutex
	balance int64
	calls   int
	err     error
}

func (f *fakeSettler) Settle(ctx context.Context, discordID int64, username string, stake, delta int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	f.calls++
	f.balance += delta
	return &models.User{DiscordID: discordID, Username: username, Balance: f.balance}, nil
}

func (f *fakeSettler) settleCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestSession(t *testing.T, stake, balance int64) (*Session, *fakeSettler) {
	t.Helper()
	settler := &fakeSettler{balance: balance}
	sess := newSession(42, "player", stake, balance, settler, rand.New(rand.NewSource(1)), nil)
	return sess, settler
}

func TestSessionOpeningSpinIsFree(t *testing.T) {
	sess, settler := newTestSession(t, 100, 100000)

	view := sess.View()
	assert.Zero(t, settler.settleCalls())
	assert.Equal(t, int64(100000), view.Balance)
	assert.Nil(t, view.LastResult)
}

func TestSessionToggleHold(t *testing.T) {
	sess, _ := newTestSession(t, 100, 100000)

	view, err := sess.ToggleHold(1)
	require.NoError(t, err)
	assert.True(t, view.Holds[1])
	assert.False(t, view.Holds[0])

	view, err = sess.ToggleHold(1)
	require.NoError(t, err)
	assert.False(t, view.Holds[1])

	_, err = sess.ToggleHold(3)
	assert.Error(t, err)
}

func TestSessionSpinSettlesEachSpin(t *testing.T) {
	sess, settler := newTestSession(t, 100, 100000)

	view, err := sess.Spin(context.Background())
	require.NoError(t, err)
	require.NotNil(t, view.LastResult)
	assert.Equal(t, 1, settler.settleCalls())
	assert.Equal(t, view.LastResult.Gross-100, view.LastResult.Net)
	assert.Equal(t, int64(100000)+view.LastResult.Net, view.Balance)

	_, err = sess.Spin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, settler.settleCalls())
}

func TestSessionHeldReelsKeepTheirStop(t *testing.T) {
	sess, _ := newTestSession(t, 100, 100000)

	before := sess.View().Symbols
	for reel := 0; reel < 3; reel++ {
		_, err := sess.ToggleHold(reel)
		require.NoError(t, err)
	}
	_, err := sess.ToggleHold(2)
	require.NoError(t, err)

	view, err := sess.Spin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before[0], view.Symbols[0])
	assert.Equal(t, before[1], view.Symbols[1])
}

func TestSessionAllHeldSpinRejected(t *testing.T) {
	sess, settler := newTestSession(t, 100, 100000)

	for reel := 0; reel < 3; reel++ {
		_, err := sess.ToggleHold(reel)
		require.NoError(t, err)
	}

	_, err := sess.Spin(context.Background())
	assert.ErrorIs(t, err, errAllHeld)
	assert.Zero(t, settler.settleCalls())
}

func TestSessionInsufficientBalanceShutsDown(t *testing.T) {
	sess, settler := newTestSession(t, 100, 100000)

	settler.mu.Lock()
	settler.err = service.ErrInsufficientBalance
	settler.mu.Unlock()

	view, err := sess.Spin(context.Background())
	require.NoError(t, err)
	assert.True(t, view.Finished)
	assert.Contains(t, view.Status, "Insufficient balance")

	_, err = sess.Spin(context.Background())
	assert.Error(t, err, "a shut down machine rejects further spins")
}

func TestSessionIdleTimeoutFinishesOnce(t *testing.T) {
	sess, _ := newTestSession(t, 100, 100000)

	sess.now = func() time.Time { return time.Now().Add(2 * idleTimeout) }

	view, expired := sess.expireIfIdle()
	require.True(t, expired)
	assert.True(t, view.Finished)
	assert.Equal(t, "Session timed out.", view.Status)

	_, expired = sess.expireIfIdle()
	assert.False(t, expired)
}
