package service

import (
	"context"

	"gamba/events"
	"gamba/models"
)

// UserRepository defines the interface for user account data access
type UserRepository interface {
	// GetByDiscordID retrieves a user by their Discord ID, nil if absent
	GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error)

	// Upsert atomically creates the account with the starting balance or,
	// if it exists, refreshes username and updated_at. inserted reports
	// whether this was first contact.
	Upsert(ctx context.Context, discordID int64, username string, startingBalance int64) (user *models.User, inserted bool, err error)

	// SetBalance sets the balance and refreshes username and updated_at
	SetBalance(ctx context.Context, discordID int64, username string, newBalance int64) (*models.User, error)

	// AddBalance adds to a user's balance atomically
	AddBalance(ctx context.Context, discordID int64, amount int64) (*models.User, error)

	// GetTopBalances returns the richest users for the leaderboard
	GetTopBalances(ctx context.Context, limit int) ([]*models.User, error)
}

// Ledger defines account bookkeeping and wager settlement. It is the single
// authority over balances; game code computes deltas and hands them here.
type Ledger interface {
	// EnsureAccount creates the account with the starting balance on first
	// contact, otherwise refreshes the display name. Idempotent.
	EnsureAccount(ctx context.Context, discordID int64, username string) (*models.User, error)

	// Settle applies the net outcome of a wager. It fails with
	// ErrInvalidStake when stake <= 0 and ErrInsufficientBalance when the
	// balance cannot cover the stake or would go negative.
	Settle(ctx context.Context, discordID int64, username string, stake, delta int64) (*models.User, error)

	// AddCredits grants a positive amount unconditionally
	AddCredits(ctx context.Context, discordID int64, username string, amount int64) (*models.User, error)

	// TopBalances returns the richest accounts for the leaderboard
	TopBalances(ctx context.Context, limit int) ([]*models.User, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction and discards pending events
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
