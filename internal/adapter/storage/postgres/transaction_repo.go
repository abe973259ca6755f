package postgres

import (
	"context"
	"fmt"

	"sms-payment-service/internal/core/domain"
)

// TransactionRepo implements ports.TransactionRepository. The
// transactions table is append-only; rows are never updated or
// deleted.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Append records one transfer attempt. It runs on the pool, not the
// transfer's transaction: the record must survive even when the
// transfer itself rolls back.
func (r *TransactionRepo) Append(ctx context.Context, t *domain.Transaction) error {
	query := `INSERT INTO transactions (sender_id, receiver_id, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		t.SenderID, t.ReceiverID, t.Amount, t.Status, t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}

// ListByUser returns the most recent transfer attempts a user took
// part in, on either side.
func (r *TransactionRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	query := `SELECT id, sender_id, receiver_id, amount, status, created_at
		FROM transactions WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var result []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.SenderID, &t.ReceiverID, &t.Amount, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return result, nil
}
