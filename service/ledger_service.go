package service

import (
	"context"
	"fmt"
	"sync"

	"gamba/events"
	"gamba/models"

	log "github.com/sirupsen/logrus"
)

// ledgerService implements the Ledger interface. Settlements for one user
// are serialized by an in-process keyed mutex taken before the transaction,
// and the upsert inside the transaction takes the row lock, so concurrent
// settles can never lose an update.
type ledgerService struct {
	uowFactory      UnitOfWorkFactory
	startingBalance int64

	mu        sync.Mutex
	userLocks map[int64]*sync.Mutex
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory, startingBalance int64) Ledger {
	return &ledgerService{
		uowFactory:      uowFactory,
		startingBalance: startingBalance,
		userLocks:       make(map[int64]*sync.Mutex),
	}
}

// userLock returns the mutex serializing ledger operations for one user.
// Locks are never removed; the map is bounded by the user population.
func (s *ledgerService) userLock(discordID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.userLocks[discordID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[discordID] = lock
	}
	return lock
}

// EnsureAccount creates or refreshes the user's account
func (s *ledgerService) EnsureAccount(ctx context.Context, discordID int64, username string) (*models.User, error) {
	lock := s.userLock(discordID)
	lock.Lock()
	defer lock.Unlock()

	return s.ensureLocked(ctx, discordID, username)
}

// ensureLocked upserts the account in its own committed transaction. The
// caller holds the user's lock.
func (s *ledgerService) ensureLocked(ctx context.Context, discordID int64, username string) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, inserted, err := uow.UserRepository().Upsert(ctx, discordID, username, s.startingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure account for user %d: %w", discordID, err)
	}

	if inserted {
		log.WithFields(log.Fields{
			"discordID": discordID,
			"username":  username,
			"balance":   user.Balance,
		}).Info("Created new account")

		uow.EventBus().Publish(events.UserCreatedEvent{
			DiscordID:      discordID,
			Username:       username,
			InitialBalance: user.Balance,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

// Settle applies a wager outcome to the user's balance
func (s *ledgerService) Settle(ctx context.Context, discordID int64, username string, stake, delta int64) (*models.User, error) {
	if stake <= 0 {
		return nil, ErrInvalidStake
	}

	lock := s.userLock(discordID)
	lock.Lock()
	defer lock.Unlock()

	// Account creation must survive a failed settlement, so the ensure
	// commits on its own before the settle transaction opens.
	if _, err := s.ensureLocked(ctx, discordID, username); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Re-upsert inside the settle transaction to take the row lock and
	// read the current balance under it.
	user, _, err := uow.UserRepository().Upsert(ctx, discordID, username, s.startingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure account for user %d: %w", discordID, err)
	}

	if user.Balance < stake {
		return nil, fmt.Errorf("%w: have %d, stake %d", ErrInsufficientBalance, user.Balance, stake)
	}
	if user.Balance+delta < 0 {
		return nil, fmt.Errorf("%w: have %d, delta %d", ErrInsufficientBalance, user.Balance, delta)
	}

	updated, err := uow.UserRepository().SetBalance(ctx, discordID, username, user.Balance+delta)
	if err != nil {
		return nil, fmt.Errorf("failed to settle wager for user %d: %w", discordID, err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		DiscordID:    discordID,
		Username:     username,
		OldBalance:   user.Balance,
		NewBalance:   updated.Balance,
		ChangeAmount: delta,
		Reason:       events.ReasonSettlement,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return updated, nil
}

// TopBalances returns the richest accounts
func (s *ledgerService) TopBalances(ctx context.Context, limit int) ([]*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().GetTopBalances(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top balances: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return users, nil
}

// AddCredits grants credits to the user unconditionally
func (s *ledgerService) AddCredits(ctx context.Context, discordID int64, username string, amount int64) (*models.User, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("grant amount must be positive, got %d", amount)
	}

	lock := s.userLock(discordID)
	lock.Lock()
	defer lock.Unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, _, err := uow.UserRepository().Upsert(ctx, discordID, username, s.startingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure account for user %d: %w", discordID, err)
	}

	updated, err := uow.UserRepository().AddBalance(ctx, discordID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to add credits for user %d: %w", discordID, err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		DiscordID:    discordID,
		Username:     username,
		OldBalance:   user.Balance,
		NewBalance:   updated.Balance,
		ChangeAmount: amount,
		Reason:       events.ReasonGrant,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return updated, nil
}
