package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus is the recorded outcome of one transfer attempt.
type TransferStatus string

const (
	TransferStatusSuccessful          TransferStatus = "successful"
	TransferStatusFailed              TransferStatus = "failed"
	TransferStatusInsufficientBalance TransferStatus = "insufficient_balance"
)

// Transaction is an immutable audit record of a transfer attempt.
// Exactly one record is written per attempt, regardless of outcome.
type Transaction struct {
	ID         int64           `json:"id"`
	SenderID   int64           `json:"sender_id"`
	ReceiverID int64           `json:"receiver_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     TransferStatus  `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}
