package repository

import (
	"context"
	"fmt"

	"gamba/database"
	"gamba/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// queryable is satisfied by both the connection pool and a transaction, so
// repositories run unchanged inside or outside a unit of work.
type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// GetByDiscordID retrieves a user by their Discord ID
func (r *UserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error) {
	query := `
		SELECT discord_id, username, balance, created_at, updated_at
		FROM users
		WHERE discord_id = $1
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, discordID).Scan(
		&user.DiscordID,
		&user.Username,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by discord ID %d: %w", discordID, err)
	}

	return &user, nil
}

// Upsert creates the account with the starting balance or refreshes the
// username and updated_at of an existing one, in a single statement. Inside
// a transaction this also holds the row lock until commit. The xmax system
// column is zero only for freshly inserted rows, which is how first contact
// is detected without a second query.
func (r *UserRepository) Upsert(ctx context.Context, discordID int64, username string, startingBalance int64) (*models.User, bool, error) {
	query := `
		INSERT INTO users (discord_id, username, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (discord_id) DO UPDATE
		SET username = EXCLUDED.username, updated_at = NOW()
		RETURNING discord_id, username, balance, created_at, updated_at, (xmax = 0) AS inserted
	`

	var user models.User
	var inserted bool
	err := r.q.QueryRow(ctx, query, discordID, username, startingBalance).Scan(
		&user.DiscordID,
		&user.Username,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
		&inserted,
	)

	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert user with discord ID %d: %w", discordID, err)
	}

	return &user, inserted, nil
}

// SetBalance sets a user's balance and refreshes username and updated_at
func (r *UserRepository) SetBalance(ctx context.Context, discordID int64, username string, newBalance int64) (*models.User, error) {
	query := `
		UPDATE users
		SET balance = $1, username = $2, updated_at = NOW()
		WHERE discord_id = $3
		RETURNING discord_id, username, balance, created_at, updated_at
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, newBalance, username, discordID).Scan(
		&user.DiscordID,
		&user.Username,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("user with discord ID %d not found", discordID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set balance for user %d: %w", discordID, err)
	}

	return &user, nil
}

// AddBalance adds to a user's balance atomically
func (r *UserRepository) AddBalance(ctx context.Context, discordID int64, amount int64) (*models.User, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE users
		SET balance = balance + $1, updated_at = NOW()
		WHERE discord_id = $2
		RETURNING discord_id, username, balance, created_at, updated_at
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, amount, discordID).Scan(
		&user.DiscordID,
		&user.Username,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("user with discord ID %d not found", discordID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add balance for user %d: %w", discordID, err)
	}

	return &user, nil
}

// GetTopBalances returns the richest users, highest balance first
func (r *UserRepository) GetTopBalances(ctx context.Context, limit int) ([]*models.User, error) {
	query := `
		SELECT discord_id, username, balance, created_at, updated_at
		FROM users
		ORDER BY balance DESC, discord_id
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top balances: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.DiscordID,
			&user.Username,
			&user.Balance,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}
