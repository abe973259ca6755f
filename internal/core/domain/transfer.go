package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TransferRequest is the ephemeral, validated input to the transfer
// engine. It is produced by the SMS parser, consumed once, and never
// persisted itself.
type TransferRequest struct {
	SenderID   int64
	ReceiverID int64
	Amount     decimal.Decimal
}

// TransferOutcome classifies the result of a transfer attempt.
type TransferOutcome string

const (
	TransferOutcomeCompleted         TransferOutcome = "COMPLETED"
	TransferOutcomeInsufficientFunds TransferOutcome = "INSUFFICIENT_FUNDS"
	TransferOutcomeFailed            TransferOutcome = "FAILED"
)

// StatusMessage renders the SMS-style status line returned to the API
// caller, e.g. "100|successful". The wire format predates this service.
func StatusMessage(amount decimal.Decimal, status string) string {
	return fmt.Sprintf("%s|%s", amount.String(), status)
}
