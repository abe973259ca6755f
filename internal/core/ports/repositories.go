package ports

import (
	"context"

	"sms-payment-service/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// UserRepository defines persistence operations for ledger entries.
// Methods accepting pgx.Tx run inside a transaction block and rely on
// pessimistic row locking.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetByIDForUpdate locks the user row with FOR UPDATE. Must be
	// called within a transaction.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.User, error)
	// Debit subtracts amount from the user's balance. The update is
	// guarded: it matches only if balance >= amount.
	Debit(ctx context.Context, tx pgx.Tx, id int64, amount decimal.Decimal) error
	// Credit adds amount to the user's balance within a transaction.
	Credit(ctx context.Context, tx pgx.Tx, id int64, amount decimal.Decimal) error
	// TopUp atomically adds amount outside any caller transaction and
	// returns the updated user, or nil if the user does not exist.
	TopUp(ctx context.Context, id int64, amount decimal.Decimal) (*domain.User, error)
}

// TransactionRepository is the append-only transfer audit log.
type TransactionRepository interface {
	Append(ctx context.Context, t *domain.Transaction) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
