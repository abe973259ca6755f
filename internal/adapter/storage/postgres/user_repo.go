package postgres

import (
	"context"
	"errors"
	"fmt"

	"sms-payment-service/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// UserRepo implements ports.UserRepository over the users table, which
// doubles as the ledger: one balance row per account.
type UserRepo struct {
	pool Pool
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(pool Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, email, password_hash, name, phone_number, balance, created_at, updated_at`

// Create inserts a new user with their initial balance and fills in
// the generated id.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (email, password_hash, name, phone_number, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		u.Email, u.PasswordHash, u.Name, u.PhoneNumber,
		u.Balance, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID fetches a user by id (without locking).
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u := &domain.User{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name,
		&u.PhoneNumber, &u.Balance, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetByEmail fetches a user by email (non-locking read).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u := &domain.User{}
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name,
		&u.PhoneNumber, &u.Balance, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetByIDForUpdate fetches a user row with pessimistic locking.
// This MUST be called within a transaction.
func (r *UserRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	u := &domain.User{}
	err := tx.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name,
		&u.PhoneNumber, &u.Balance, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user for update: %w", err)
	}
	return u, nil
}

// Debit subtracts amount from a user's balance within a transaction.
// The WHERE clause re-validates the funds check under the row lock, so
// a stale pre-read can never drive the balance below zero.
func (r *UserRepo) Debit(ctx context.Context, tx pgx.Tx, id int64, amount decimal.Decimal) error {
	query := `UPDATE users SET balance = balance - $1, updated_at = NOW()
		WHERE id = $2 AND balance >= $1`

	tag, err := tx.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("debit balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("debit did not match user %d", id)
	}
	return nil
}

// Credit adds amount to a user's balance within a transaction.
func (r *UserRepo) Credit(ctx context.Context, tx pgx.Tx, id int64, amount decimal.Decimal) error {
	query := `UPDATE users SET balance = balance + $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("credit balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("credit did not match user %d", id)
	}
	return nil
}

// TopUp atomically adds amount to a user's balance as a single
// statement and returns the updated user, or nil if the id is unknown.
func (r *UserRepo) TopUp(ctx context.Context, id int64, amount decimal.Decimal) (*domain.User, error) {
	query := `UPDATE users SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2 RETURNING ` + userColumns

	u := &domain.User{}
	err := r.pool.QueryRow(ctx, query, amount, id).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name,
		&u.PhoneNumber, &u.Balance, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("top up balance: %w", err)
	}
	return u, nil
}
