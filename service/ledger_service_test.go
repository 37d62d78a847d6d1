package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gamba/events"
	"gamba/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStartingBalance int64 = 100000

func newLedgerFixture() (*MockUnitOfWork, *MockUnitOfWorkFactory, *MockUserRepository, Ledger) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockUoW.SetRepositories(mockUserRepo)

	ledger := NewLedgerService(mockFactory, testStartingBalance)
	return mockUoW, mockFactory, mockUserRepo, ledger
}

func TestLedgerService_EnsureAccount_NewUser(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockUserRepo, ledger := newLedgerFixture()

	newUser := &models.User{
		DiscordID: 123456,
		Username:  "newuser",
		Balance:   testStartingBalance,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("Upsert", ctx, int64(123456), "newuser", testStartingBalance).Return(newUser, true, nil)

	user, err := ledger.EnsureAccount(ctx, 123456, "newuser")

	require.NoError(t, err)
	assert.Equal(t, newUser, user)

	published := mockUoW.PublishedEvents()
	require.Len(t, published, 1)
	created, ok := published[0].(events.UserCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(123456), created.DiscordID)
	assert.Equal(t, testStartingBalance, created.InitialBalance)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestLedgerService_EnsureAccount_ExistingUser(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockUserRepo, ledger := newLedgerFixture()

	existing := &models.User{
		DiscordID: 123456,
		Username:  "renamed",
		Balance:   42000,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("Upsert", ctx, int64(123456), "renamed", testStartingBalance).Return(existing, false, nil)

	user, err := ledger.EnsureAccount(ctx, 123456, "renamed")

	require.NoError(t, err)
	assert.Equal(t, existing, user)
	// No creation event for a returning user
	assert.Empty(t, mockUoW.PublishedEvents())

	mockUserRepo.AssertExpectations(t)
}

func TestLedgerService_Settle_Win(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockUserRepo, ledger := newLedgerFixture()

	before := &models.User{DiscordID: 1, Username: "player", Balance: 1000}
	after := &models.User{DiscordID: 1, Username: "player", Balance: 1500}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("Upsert", ctx, int64(1), "player", testStartingBalance).Return(before, false, nil)
	mockUserRepo.On("SetBalance", ctx, int64(1), "player", int64(1500)).Return(after, nil)

	user, err := ledger.Settle(ctx, 1, "player", 100, 500)

	require.NoError(t, err)
	assert.Equal(t, int64(1500), user.Balance)

	published := mockUoW.PublishedEvents()
	require.Len(t, published, 1)
	change, ok := published[0].(events.BalanceChangeEvent)
	require.True(t, ok)
	assert.Equal(t, int64(1000), change.OldBalance)
	assert.Equal(t, int64(1500), change.NewBalance)
	assert.Equal(t, int64(500), change.ChangeAmount)
	assert.Equal(t, events.ReasonSettlement, change.Reason)

	mockUserRepo.AssertExpectations(t)
}

func TestLedgerService_Settle_Loss(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockUserRepo, ledger := newLedgerFixture()

	before := &models.User{DiscordID: 1, Username: "player", Balance: 1000}
	after := &models.User{DiscordID: 1, Username: "player", Balance: 900}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("Upsert", ctx, int64(1), "player", testStartingBalance).Return(before, false, nil)
	mockUserRepo.On("SetBalance", ctx, int64(1), "player", int64(900)).Return(after, nil)

	user, err := ledger.Settle(ctx, 1, "player", 100, -100)

	require.NoError(t, err)
	assert.Equal(t, int64(900), user.Balance)
}

func TestLedgerService_Settle_InvalidStake(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, _, ledger := newLedgerFixture()

	for _, stake := range []int64{0, -50} {
		_, err := ledger.Settle(ctx, 1, "player", stake, 100)
		assert.ErrorIs(t, err, ErrInvalidStake)
	}

	// The stake check happens before any transaction is opened
	mockFactory.AssertNotCalled(t, "Create")
}

func TestLedgerService_Settle_InsufficientBalance(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		balance int64
		stake   int64
		delta   int64
	}{
		{"balance below stake", 50, 100, 100},
		{"delta would go negative", 100, 100, -150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUoW, mockFactory, mockUserRepo, ledger := newLedgerFixture()

			user := &models.User{DiscordID: 1, Username: "player", Balance: tt.balance}

			mockFactory.On("Create").Return(mockUoW)
			mockUoW.On("Begin", ctx).Return(nil)
			mockUoW.On("Commit").Return(nil)
			mockUoW.On("Rollback").Return(nil)
			mockUserRepo.On("Upsert", ctx, int64(1), "player", testStartingBalance).Return(user, false, nil)

			_, err := ledger.Settle(ctx, 1, "player", tt.stake, tt.delta)

			assert.ErrorIs(t, err, ErrInsufficientBalance)
			mockUserRepo.AssertNotCalled(t, "SetBalance")
			// Only the ensure transaction commits; the settle
			// transaction rolls back.
			mockUoW.AssertNumberOfCalls(t, "Commit", 1)
			assert.Empty(t, mockUoW.PublishedEvents())
		})
	}
}

func TestLedgerService_Settle_SetBalanceError(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockUserRepo, ledger := newLedgerFixture()

	before := &models.User{DiscordID: 1, Username: "player", Balance: 1000}
	dbErr := errors.New("connection reset")

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("Upsert", ctx, int64(1), "player", testStartingBalance).Return(before, false, nil)
	mockUserRepo.On("SetBalance", ctx, int64(1), "player", int64(1100)).Return(nil, dbErr)

	_, err := ledger.Settle(ctx, 1, "player", 100, 100)

	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	// Only the ensure transaction commits; the settle transaction
	// rolls back.
	mockUoW.AssertNumberOfCalls(t, "Commit", 1)
}

func TestLedgerService_AddCredits(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockUserRepo, ledger := newLedgerFixture()

	before := &models.User{DiscordID: 9, Username: "admin-target", Balance: 500}
	after := &models.User{DiscordID: 9, Username: "admin-target", Balance: 10500}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("Upsert", ctx, int64(9), "admin-target", testStartingBalance).Return(before, false, nil)
	mockUserRepo.On("AddBalance", ctx, int64(9), int64(10000)).Return(after, nil)

	user, err := ledger.AddCredits(ctx, 9, "admin-target", 10000)

	require.NoError(t, err)
	assert.Equal(t, int64(10500), user.Balance)

	published := mockUoW.PublishedEvents()
	require.Len(t, published, 1)
	change := published[0].(events.BalanceChangeEvent)
	assert.Equal(t, events.ReasonGrant, change.Reason)
}

func TestLedgerService_AddCredits_RejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, _, ledger := newLedgerFixture()

	_, err := ledger.AddCredits(ctx, 9, "admin-target", 0)
	assert.Error(t, err)

	_, err = ledger.AddCredits(ctx, 9, "admin-target", -100)
	assert.Error(t, err)

	mockFactory.AssertNotCalled(t, "Create")
}

// fakeLedgerStore backs the concurrency test with a real read-then-write
// cycle so lost updates would actually be observable.
type fakeLedgerStore struct {
	mu      sync.Mutex
	balance int64
}

type fakeUserRepo struct {
	store *fakeLedgerStore
}

func (r *fakeUserRepo) GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error) {
	return r.snapshot(discordID), nil
}

func (r *fakeUserRepo) Upsert(ctx context.Context, discordID int64, username string, startingBalance int64) (*models.User, bool, error) {
	return r.snapshot(discordID), false, nil
}

func (r *fakeUserRepo) SetBalance(ctx context.Context, discordID int64, username string, newBalance int64) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.balance = newBalance
	return &models.User{DiscordID: discordID, Username: username, Balance: newBalance}, nil
}

func (r *fakeUserRepo) AddBalance(ctx context.Context, discordID int64, amount int64) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.balance += amount
	return &models.User{DiscordID: discordID, Balance: r.store.balance}, nil
}

func (r *fakeUserRepo) GetTopBalances(ctx context.Context, limit int) ([]*models.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) snapshot(discordID int64) *models.User {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return &models.User{DiscordID: discordID, Username: "player", Balance: r.store.balance}
}

type fakeUnitOfWork struct {
	repo *fakeUserRepo
	bus  *MockEventPublisher
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }
func (u *fakeUnitOfWork) UserRepository() UserRepository  { return u.repo }
func (u *fakeUnitOfWork) EventBus() EventPublisher        { return u.bus }

type fakeUnitOfWorkFactory struct {
	store *fakeLedgerStore
}

func (f *fakeUnitOfWorkFactory) Create() UnitOfWork {
	return &fakeUnitOfWork{
		repo: &fakeUserRepo{store: f.store},
		bus:  &MockEventPublisher{},
	}
}

// fakeDurableStore models commit/rollback durability: writes staged in a
// unit of work only become visible here on Commit and vanish on Rollback.
type fakeDurableStore struct {
	mu   sync.Mutex
	rows map[int64]*models.User
}

func (s *fakeDurableStore) row(discordID int64) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[discordID]
}

type fakeTxUnitOfWork struct {
	store   *fakeDurableStore
	pending map[int64]*models.User
	bus     *MockEventPublisher
}

func (u *fakeTxUnitOfWork) Begin(ctx context.Context) error {
	u.pending = make(map[int64]*models.User)
	return nil
}

func (u *fakeTxUnitOfWork) Commit() error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	for id, row := range u.pending {
		u.store.rows[id] = row
	}
	u.pending = nil
	return nil
}

func (u *fakeTxUnitOfWork) Rollback() error {
	u.pending = nil
	return nil
}

func (u *fakeTxUnitOfWork) UserRepository() UserRepository { return &fakeTxRepo{uow: u} }
func (u *fakeTxUnitOfWork) EventBus() EventPublisher       { return u.bus }

type fakeTxRepo struct {
	uow *fakeTxUnitOfWork
}

func (r *fakeTxRepo) current(discordID int64) *models.User {
	if row, ok := r.uow.pending[discordID]; ok {
		return row
	}
	if row := r.uow.store.row(discordID); row != nil {
		cp := *row
		return &cp
	}
	return nil
}

func (r *fakeTxRepo) GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error) {
	return r.current(discordID), nil
}

func (r *fakeTxRepo) Upsert(ctx context.Context, discordID int64, username string, startingBalance int64) (*models.User, bool, error) {
	if row := r.current(discordID); row != nil {
		row.Username = username
		r.uow.pending[discordID] = row
		cp := *row
		return &cp, false, nil
	}
	created := &models.User{DiscordID: discordID, Username: username, Balance: startingBalance}
	r.uow.pending[discordID] = created
	cp := *created
	return &cp, true, nil
}

func (r *fakeTxRepo) SetBalance(ctx context.Context, discordID int64, username string, newBalance int64) (*models.User, error) {
	row := r.current(discordID)
	if row == nil {
		return nil, errors.New("user not found")
	}
	row.Username = username
	row.Balance = newBalance
	r.uow.pending[discordID] = row
	cp := *row
	return &cp, nil
}

func (r *fakeTxRepo) AddBalance(ctx context.Context, discordID int64, amount int64) (*models.User, error) {
	row := r.current(discordID)
	if row == nil {
		return nil, errors.New("user not found")
	}
	row.Balance += amount
	r.uow.pending[discordID] = row
	cp := *row
	return &cp, nil
}

func (r *fakeTxRepo) GetTopBalances(ctx context.Context, limit int) ([]*models.User, error) {
	return nil, nil
}

type fakeTxUnitOfWorkFactory struct {
	store *fakeDurableStore
}

func (f *fakeTxUnitOfWorkFactory) Create() UnitOfWork {
	return &fakeTxUnitOfWork{store: f.store, bus: &MockEventPublisher{}}
}

// An account created on the way into a settlement must survive the
// settlement failing: the ensure commits before the settle transaction
// opens, so its rollback cannot take the new row with it.
func TestLedgerService_Settle_FailedSettleKeepsAccountRow(t *testing.T) {
	ctx := context.Background()
	store := &fakeDurableStore{rows: make(map[int64]*models.User)}
	ledger := NewLedgerService(&fakeTxUnitOfWorkFactory{store: store}, testStartingBalance)

	// A fresh account cannot cover double the starting balance.
	_, err := ledger.Settle(ctx, 555, "fresh", testStartingBalance*2, testStartingBalance*2)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	row := store.row(555)
	require.NotNil(t, row, "account created by the failed settlement must survive it")
	assert.Equal(t, testStartingBalance, row.Balance)
	assert.Equal(t, "fresh", row.Username)
}

// Concurrent settles for the same user must serialize on the keyed mutex,
// each seeing the balance the previous one wrote.
func TestLedgerService_Settle_SerializesPerUser(t *testing.T) {
	ctx := context.Background()
	store := &fakeLedgerStore{balance: 1000}
	ledger := NewLedgerService(&fakeUnitOfWorkFactory{store: store}, testStartingBalance)

	var wg sync.WaitGroup
	deltas := []int64{300, -100}
	for _, delta := range deltas {
		wg.Add(1)
		go func(d int64) {
			defer wg.Done()
			_, err := ledger.Settle(ctx, 1, "player", 100, d)
			assert.NoError(t, err)
		}(delta)
	}
	wg.Wait()

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, int64(1200), store.balance)
}
