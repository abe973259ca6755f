package ports

import (
	"context"

	"sms-payment-service/internal/core/domain"

	"github.com/shopspring/decimal"
)

// TransferResult is returned by the engine on a completed transfer.
type TransferResult struct {
	Transaction *domain.Transaction
	Outcome     domain.TransferOutcome
	// Message is the SMS-style status line echoed to the API caller.
	Message string
}

// TransferService is the balance transfer engine: it validates a
// request, atomically moves funds between two ledger entries, records
// the attempt, and triggers notifications.
type TransferService interface {
	Transfer(ctx context.Context, req domain.TransferRequest) (*TransferResult, error)
}

// AccountService covers user lookup, manual balance credits, and
// transfer history.
type AccountService interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	AddBalance(ctx context.Context, id int64, amount decimal.Decimal) (*domain.User, error)
	ListTransfers(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error)
}

// AuthService handles signup and the bare login check.
type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (int64, error)
	Login(ctx context.Context, email, password string) (int64, error)
}

// SignupRequest holds validated input for account creation.
type SignupRequest struct {
	Email       string
	Password    string
	Name        string
	PhoneNumber string
}

// NotificationDirection distinguishes the sender-facing and
// receiver-facing copies of a transfer notification.
type NotificationDirection string

const (
	DirectionSent     NotificationDirection = "sent"
	DirectionReceived NotificationDirection = "received"
)

// NotificationSink dispatches transfer status messages to users'
// phones via the SMS gateway. Delivery is best-effort: lookup and
// gateway failures are swallowed, never surfaced to the caller.
type NotificationSink interface {
	Notify(ctx context.Context, userID int64, amount decimal.Decimal, status string, direction NotificationDirection)
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}
